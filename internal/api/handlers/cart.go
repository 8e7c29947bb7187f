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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

func resolveActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		middleware.LoggerFromContext(r.Context()).Warn("Cart request without resolved identity")
		response.Error(w, errors.UnauthorizedError("Identity required"))
	}

	return actor, ok
}

// GetCart godoc
//	@Summary		Get the caller's cart
//	@Description	Retrieves the cart for the current user or guest session, creating an empty one if needed.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Current cart"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := resolveActor(w, r)
		if !ok {
			return
		}
		logger = logger.With(slog.String("actor", actor.String()))

		cart, err := h.cartService.GetCart(r.Context(), actor)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart retrieved successfully", slog.Int("items", len(cart.Items)))
		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds the given quantity of a product to the caller's cart, summing with any existing line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddCartItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.Cart					"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		409		{object}	response.ErrorResponse		"Insufficient stock"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := resolveActor(w, r)
		if !ok {
			return
		}
		logger = logger.With(slog.String("actor", actor.String()))

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add cart item input")
			return
		}

		logger = logger.With(
			slog.String("productId", req.ProductID.String()),
			slog.Int("quantity", req.Quantity))

		cart, err := h.cartService.AddItem(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart successfully")
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity godoc
//	@Summary		Update a cart line's quantity
//	@Description	Sets the quantity of a product in the caller's cart. A quantity of zero removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.UpdateCartItemRequest	true	"Product and new quantity"
//	@Success		200		{object}	models.Cart						"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		404		{object}	response.ErrorResponse			"Product not in cart"
//	@Failure		409		{object}	response.ErrorResponse			"Insufficient stock"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Router			/cart/items [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := resolveActor(w, r)
		if !ok {
			return
		}
		logger = logger.With(slog.String("actor", actor.String()))

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update cart item input")
			return
		}

		logger = logger.With(
			slog.String("productId", req.ProductID.String()),
			slog.Int("quantity", req.Quantity))

		cart, err := h.cartService.UpdateQuantity(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Failed to update cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item updated successfully")
		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the cart
//	@Description	Removes the given product's line from the caller's cart.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.RemoveCartItemRequest	true	"Product to remove"
//	@Success		200		{object}	models.Cart						"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		404		{object}	response.ErrorResponse			"Product not in cart"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Router			/cart/items [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		actor, ok := resolveActor(w, r)
		if !ok {
			return
		}
		logger = logger.With(slog.String("actor", actor.String()))

		var req models.RemoveCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid remove cart item input")
			return
		}

		logger = logger.With(slog.String("productId", req.ProductID.String()))

		cart, err := h.cartService.RemoveItem(r.Context(), actor, &req)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item removed successfully")
		response.Success(w, http.StatusOK, cart)
	}
}
