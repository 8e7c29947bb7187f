package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmetics-store-backend/internal/api/handlers"
	appErrors "cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/services/mocks"
	"cosmetics-store-backend/internal/testutils"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartTest() (*mocks.CartService, *handlers.CartHandler) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	return mockCartService, cartHandler
}

func TestGetCart(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.GuestActor("guest-session-12")

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/carts", nil, actor, nil)
		recorder := httptest.NewRecorder()

		cart := &models.Cart{
			ID: uuid.New(),
			Items: []models.CartItem{
				{ProductID: uuid.New(), Name: "Rose Serum", Price: decimal.RequireFromString("19.99"), Quantity: 1, Subtotal: decimal.RequireFromString("19.99")},
			},
			TotalPrice: decimal.RequireFromString("19.99"),
		}

		mockCartService.On("GetCart", mock.Anything, actor).Return(cart, nil).Once()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Success bool        `json:"success"`
			Data    models.Cart `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Data.Items, 1)
		assert.Equal(t, "Rose Serum", resp.Data.Items[0].Name)

		mockCartService.AssertExpectations(t)
	})

	t.Run("MissingIdentity", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/carts", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, resp.Error.Code)

		mockCartService.AssertNotCalled(t, "GetCart")
	})

	t.Run("ServiceError", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/carts", nil, actor, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("GetCart", mock.Anything, actor).
			Return(nil, appErrors.DatabaseError("Failed to load cart")).Once()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	productID := uuid.New()

	makeBody := func(t *testing.T, quantity int) []byte {
		t.Helper()

		body, err := json.Marshal(models.AddCartItemRequest{ProductID: productID, Quantity: quantity})
		require.NoError(t, err)

		return body
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/carts/items", bytes.NewBuffer(makeBody(t, 2)), actor, nil)
		recorder := httptest.NewRecorder()

		cart := &models.Cart{
			ID: uuid.New(),
			Items: []models.CartItem{
				{ProductID: productID, Name: "Clay Mask", Price: decimal.RequireFromString("5.50"), Quantity: 2, Subtotal: decimal.RequireFromString("11.00")},
			},
			TotalPrice: decimal.RequireFromString("11.00"),
		}

		mockCartService.On("AddItem", mock.Anything, actor, mock.MatchedBy(func(req *models.AddCartItemRequest) bool {
			return req.ProductID == productID && req.Quantity == 2
		})).Return(cart, nil).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/carts/items", bytes.NewBuffer(makeBody(t, 0)), actor, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "AddItem")
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.GuestActor("guest-session-13")

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/carts/items", bytes.NewBuffer(makeBody(t, 99)), actor, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, actor, mock.AnythingOfType("*models.AddCartItemRequest")).
			Return(nil, appErrors.InsufficientStockError("Clay Mask")).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(models.UpdateCartItemRequest{ProductID: productID, Quantity: 5})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("PUT", "/api/v1/carts/items", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		cart := &models.Cart{ID: uuid.New()}

		mockCartService.On("UpdateQuantity", mock.Anything, actor, mock.MatchedBy(func(req *models.UpdateCartItemRequest) bool {
			return req.ProductID == productID && req.Quantity == 5
		})).Return(cart, nil).Once()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("ZeroQuantityRemovesLine", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(models.UpdateCartItemRequest{ProductID: productID, Quantity: 0})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("PUT", "/api/v1/carts/items", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		cart := &models.Cart{ID: uuid.New()}

		mockCartService.On("UpdateQuantity", mock.Anything, actor, mock.MatchedBy(func(req *models.UpdateCartItemRequest) bool {
			return req.Quantity == 0
		})).Return(cart, nil).Once()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("LineNotFound", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(models.UpdateCartItemRequest{ProductID: productID, Quantity: 3})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("PUT", "/api/v1/carts/items", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("UpdateQuantity", mock.Anything, actor, mock.AnythingOfType("*models.UpdateCartItemRequest")).
			Return(nil, appErrors.NotFoundError("Product not in cart")).Once()

		// Act
		cartHandler.UpdateQuantity()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestRemoveItem(t *testing.T) {
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.GuestActor("guest-session-14")

		body, err := json.Marshal(models.RemoveCartItemRequest{ProductID: productID})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("DELETE", "/api/v1/carts/items", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		cart := &models.Cart{ID: uuid.New()}

		mockCartService.On("RemoveItem", mock.Anything, actor, mock.MatchedBy(func(req *models.RemoveCartItemRequest) bool {
			return req.ProductID == productID
		})).Return(cart, nil).Once()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("LineNotFound", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(models.RemoveCartItemRequest{ProductID: productID})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("DELETE", "/api/v1/carts/items", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("RemoveItem", mock.Anything, actor, mock.AnythingOfType("*models.RemoveCartItemRequest")).
			Return(nil, appErrors.NotFoundError("Product not in cart")).Once()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}
