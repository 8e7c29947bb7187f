package handlers

import (
	"log/slog"
	"net/http"

	"cosmetics-store-backend/internal/api/middleware"
	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	service "cosmetics-store-backend/internal/services"
	"cosmetics-store-backend/internal/utils"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// CreateInstantCheckout godoc
//	@Summary		Create an instant "buy now" checkout
//	@Description	Creates a short-lived single-product checkout intent with a frozen total. Works for both authenticated users and guests.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CreateInstantCheckoutRequest		true	"Product and quantity"
//	@Success		201			{object}	models.CreateInstantCheckoutResponse	"Checkout created"
//	@Failure		400			{object}	response.ErrorResponse					"Validation error"
//	@Failure		404			{object}	response.ErrorResponse					"Product not found"
//	@Failure		409			{object}	response.ErrorResponse					"Insufficient stock"
//	@Failure		500			{object}	response.ErrorResponse					"Internal server error"
//	@Router			/checkout/instant [post]
func (h *CheckoutHandler) CreateInstantCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			logger.Warn("Instant checkout attempt without resolved identity")
			response.Error(w, errors.UnauthorizedError("Identity required"))
			return
		}
		logger = logger.With(slog.String("actor", actor.String()))

		// Decode the request body, validate
		var req models.CreateInstantCheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid instant checkout input")
			return
		}

		logger = logger.With(
			slog.String("productId", req.ProductID.String()),
			slog.Int("quantity", req.Quantity))

		checkout, err := h.checkoutService.CreateInstantCheckout(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Failed to create instant checkout", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Instant checkout created", slog.String("checkoutId", checkout.ID.String()))
		response.Success(w, http.StatusCreated, models.CreateInstantCheckoutResponse{CheckoutID: checkout.ID})
	}
}

// GetInstantCheckout godoc
//	@Summary		Get an instant checkout by ID
//	@Description	Retrieves a pending instant checkout with its current product snapshot.
//	@Tags			Checkout
//	@Produce		json
//	@Param			id	path		string							true	"Checkout ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.InstantCheckoutResponse	"Checkout details"
//	@Failure		400	{object}	response.ErrorResponse			"Invalid checkout ID format"
//	@Failure		404	{object}	response.ErrorResponse			"Checkout not found"
//	@Failure		410	{object}	response.ErrorResponse			"Checkout expired"
//	@Failure		500	{object}	response.ErrorResponse			"Internal server error"
//	@Router			/checkout/instant/{id} [get]
func (h *CheckoutHandler) GetInstantCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid checkout id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("checkoutId", id.String()))

		checkout, err := h.checkoutService.GetInstantCheckout(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get instant checkout", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Instant checkout retrieved successfully")
		response.Success(w, http.StatusOK, checkout)
	}
}
