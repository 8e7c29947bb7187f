package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"cosmetics-store-backend/internal/api/middleware"
	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	service "cosmetics-store-backend/internal/services"
	"cosmetics-store-backend/internal/utils"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// PlaceOrder godoc
//	@Summary		Place an order from the current cart
//	@Description	Converts the caller's cart into an order with the provided shipping details. Works for both authenticated users and guests.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.PlaceOrderRequest	true	"Shipping details"
//	@Success		201		{object}	models.Order				"Successfully placed order"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or empty cart"
//	@Failure		409		{object}	response.ErrorResponse		"Insufficient stock"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/orders [post]
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Order placement attempt without resolved identity")
			response.Error(w, errors.UnauthorizedError("Identity required"))
			return
		}
		logger = logger.With(slog.String("actor", actor.String()))

		// Decode the request body, validate
		var req models.PlaceOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid place order input")
			return
		}

		order, err := h.orderService.PlaceOrderFromCart(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Failed to place order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed successfully", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

// PlaceInstantOrder godoc
//	@Summary		Place an order from an instant checkout
//	@Description	Converts a pending instant checkout into an order with the provided shipping details.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.PlaceInstantOrderRequest	true	"Checkout ID and shipping details"
//	@Success		201		{object}	models.Order					"Successfully placed order"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		404		{object}	response.ErrorResponse			"Checkout not found"
//	@Failure		409		{object}	response.ErrorResponse			"Checkout already used or insufficient stock"
//	@Failure		410		{object}	response.ErrorResponse			"Checkout expired"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Router			/orders/instant [post]
func (h *OrderHandler) PlaceInstantOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		// Decode the request body, validate
		var req models.PlaceInstantOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid place instant order input")
			return
		}

		logger = logger.With(slog.String("checkoutId", req.CheckoutID.String()))

		order, err := h.orderService.PlaceOrderFromInstantCheckout(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to place instant order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Instant order placed successfully", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Retrieves details for a specific order placed by the caller.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Successfully retrieved order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		403	{object}	response.ErrorResponse	"Caller does not own this order"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Order access attempt without resolved identity")
			response.Error(w, errors.UnauthorizedError("Identity required"))
			return
		}

		logger = logger.With(slog.String("actor", actor.String()))

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		// Call the service
		order, err := h.orderService.GetOrderByID(r.Context(), actor, id)
		if err != nil {
			logger.Error("Failed to get order",
				slog.String("orderId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order retrieved successfully")
		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List the caller's orders with pagination
//	@Description	Retrieves a paginated list of orders placed by the caller.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int												false	"Page number for pagination (default: 1)"			minimum(1)
//	@Param			pageSize	query		int												false	"Number of items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Order}	"Successfully retrieved list of orders"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Order list attempt without resolved identity")
			response.Error(w, errors.UnauthorizedError("Identity required"))
			return
		}

		logger = logger.With(slog.String("actor", actor.String()))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		logger = logger.With(slog.Int("page", page), slog.Int("pageSize", pageSize))

		// Call the service
		orders, total, err := h.orderService.ListOrders(r.Context(), actor, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Orders listed successfully", slog.Int("count", len(orders)), slog.Int("total", total))
		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// UpdateOrderStatus godoc
//	@Summary		Update order status (Admin/Internal)
//	@Description	Updates the status of a specific order. Requires authentication.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID (UUID)"	Format(uuid)
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New Order Status"
//	@Success		200		{object}	models.Order					"Successfully updated order status"
//	@Failure		400		{object}	response.ErrorResponse			"Invalid order ID format or invalid status value"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order status update attempt: missing user claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		logger = logger.With(slog.String("updaterUserID", claims.UserID.String()))

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("orderId", id.String()))

		// Decode the request body
		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update order status input")
			return
		}

		logger = logger.With(slog.String("newStatus", string(req.Status)))

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated successfully")
		response.Success(w, http.StatusOK, order)
	}
}
