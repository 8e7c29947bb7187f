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

func setupOrderTest() (*mocks.OrderService, *handlers.OrderHandler) {
	mockOrderService := new(mocks.OrderService)
	orderHandler := handlers.NewOrderHandler(mockOrderService)

	return mockOrderService, orderHandler
}

func shippingJSON() map[string]any {
	return map[string]any{
		"full_name":      "Sara Ahmed",
		"phone":          "+201001234567",
		"governorate":    "Cairo",
		"city":           "Nasr City",
		"address_detail": "12 Abbas El Akkad St",
	}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(map[string]any{"shipping": shippingJSON()})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/orders", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		placed := &models.Order{
			ID:          uuid.New(),
			Status:      models.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("35.50"),
		}
		placed.SetActor(actor)

		mockOrderService.On("PlaceOrderFromCart", mock.Anything, actor, mock.AnythingOfType("*models.PlaceOrderRequest")).
			Return(placed, nil).Once()

		// Act
		orderHandler.PlaceOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)

		mockOrderService.AssertExpectations(t)
	})

	t.Run("MissingIdentity", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		body, err := json.Marshal(map[string]any{"shipping": shippingJSON()})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/orders", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.PlaceOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockOrderService.AssertNotCalled(t, "PlaceOrderFromCart")
	})

	t.Run("InvalidShipping", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.GuestActor("guest-session-7")

		body, err := json.Marshal(map[string]any{"shipping": map[string]any{"full_name": "Sara Ahmed"}})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/orders", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.PlaceOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "PlaceOrderFromCart")
	})

	t.Run("EmptyCart", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(map[string]any{"shipping": shippingJSON()})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/orders", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("PlaceOrderFromCart", mock.Anything, actor, mock.AnythingOfType("*models.PlaceOrderRequest")).
			Return(nil, appErrors.EmptyCartError()).Once()

		// Act
		orderHandler.PlaceOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeEmptyCart, resp.Error.Code)

		mockOrderService.AssertExpectations(t)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		body, err := json.Marshal(map[string]any{"shipping": shippingJSON()})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithActor("POST", "/api/v1/orders", bytes.NewBuffer(body), actor, nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("PlaceOrderFromCart", mock.Anything, actor, mock.AnythingOfType("*models.PlaceOrderRequest")).
			Return(nil, appErrors.InsufficientStockError("Rose Serum")).Once()

		// Act
		orderHandler.PlaceOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, resp.Error.Code)

		mockOrderService.AssertExpectations(t)
	})
}

func TestPlaceInstantOrder(t *testing.T) {
	checkoutID := uuid.New()

	makeBody := func(t *testing.T) []byte {
		t.Helper()

		body, err := json.Marshal(map[string]any{
			"checkout_id": checkoutID,
			"shipping":    shippingJSON(),
		})
		require.NoError(t, err)

		return body
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/orders/instant", bytes.NewBuffer(makeBody(t)), nil)
		recorder := httptest.NewRecorder()

		placed := &models.Order{
			ID:          uuid.New(),
			Status:      models.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("8.00"),
		}
		placed.SetActor(models.GuestActor("guest-session-8"))

		mockOrderService.On("PlaceOrderFromInstantCheckout", mock.Anything, mock.MatchedBy(func(req *models.PlaceInstantOrderRequest) bool {
			return req.CheckoutID == checkoutID
		})).Return(placed, nil).Once()

		// Act
		orderHandler.PlaceInstantOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		mockOrderService.AssertExpectations(t)
	})

	t.Run("CheckoutExpired", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/orders/instant", bytes.NewBuffer(makeBody(t)), nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("PlaceOrderFromInstantCheckout", mock.Anything, mock.AnythingOfType("*models.PlaceInstantOrderRequest")).
			Return(nil, appErrors.CheckoutExpiredError()).Once()

		// Act
		orderHandler.PlaceInstantOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusGone, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, appErrors.ErrCodeCheckoutExpired, resp.Error.Code)

		mockOrderService.AssertExpectations(t)
	})

	t.Run("CheckoutAlreadyUsed", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/orders/instant", bytes.NewBuffer(makeBody(t)), nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("PlaceOrderFromInstantCheckout", mock.Anything, mock.AnythingOfType("*models.PlaceInstantOrderRequest")).
			Return(nil, appErrors.CheckoutAlreadyUsedError()).Once()

		// Act
		orderHandler.PlaceInstantOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("MissingCheckoutID", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		body, err := json.Marshal(map[string]any{"shipping": shippingJSON()})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/orders/instant", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.PlaceInstantOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "PlaceOrderFromInstantCheckout")
	})
}

func TestGetOrder(t *testing.T) {
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders/"+orderID.String(), nil, actor,
			map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		order := &models.Order{ID: orderID, Status: models.OrderStatusPending}
		order.SetActor(actor)

		mockOrderService.On("GetOrderByID", mock.Anything, actor, orderID).Return(order, nil).Once()

		// Act
		orderHandler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders/not-a-uuid", nil, actor,
			map[string]string{"id": "not-a-uuid"})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "GetOrderByID")
	})

	t.Run("NotOwner", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.GuestActor("guest-session-9")

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders/"+orderID.String(), nil, actor,
			map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("GetOrderByID", mock.Anything, actor, orderID).
			Return(nil, appErrors.ForbiddenError("You do not have access to this order")).Once()

		// Act
		orderHandler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders/"+orderID.String(), nil, actor,
			map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("GetOrderByID", mock.Anything, actor, orderID).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		// Act
		orderHandler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders?page=2&pageSize=5", nil, actor, nil)
		recorder := httptest.NewRecorder()

		orders := []models.Order{{ID: uuid.New(), Status: models.OrderStatusPaid}}

		mockOrderService.On("ListOrders", mock.Anything, actor, 2, 5).Return(orders, 11, nil).Once()

		// Act
		orderHandler.ListOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Success bool                     `json:"success"`
			Data    models.PaginatedResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, 11, resp.Data.Total)
		assert.Equal(t, 2, resp.Data.Page)
		assert.Equal(t, 5, resp.Data.PageSize)

		mockOrderService.AssertExpectations(t)
	})

	t.Run("DefaultsBadPagination", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.GuestActor("guest-session-10")

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders?page=-3&pageSize=500", nil, actor, nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("ListOrders", mock.Anything, actor, 1, 10).Return([]models.Order{}, 0, nil).Once()

		// Act
		orderHandler.ListOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()
		actor := models.UserActor(uuid.New())

		req := testutils.CreateTestRequestWithActor("GET", "/api/v1/orders", nil, actor, nil)
		recorder := httptest.NewRecorder()

		mockOrderService.On("ListOrders", mock.Anything, actor, 1, 10).
			Return(nil, 0, appErrors.DatabaseError("Failed to list orders")).Once()

		// Act
		orderHandler.ListOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		body, err := json.Marshal(models.UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("PATCH", "/api/v1/orders/"+orderID.String()+"/status",
			bytes.NewBuffer(body), uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		updated := &models.Order{ID: orderID, Status: models.OrderStatusPaid}

		mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusPaid).
			Return(updated, nil).Once()

		// Act
		orderHandler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		body, err := json.Marshal(models.UpdateOrderStatusRequest{Status: models.OrderStatusPaid})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext("PATCH", "/api/v1/orders/"+orderID.String()+"/status",
			bytes.NewBuffer(body), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockOrderService.AssertNotCalled(t, "UpdateOrderStatus")
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		body, err := json.Marshal(map[string]string{"status": "shipped"})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("PATCH", "/api/v1/orders/"+orderID.String()+"/status",
			bytes.NewBuffer(body), uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		orderHandler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockOrderService.AssertNotCalled(t, "UpdateOrderStatus")
	})

	t.Run("NotFound", func(t *testing.T) {
		// Arrange
		mockOrderService, orderHandler := setupOrderTest()

		body, err := json.Marshal(models.UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithContext("PATCH", "/api/v1/orders/"+orderID.String()+"/status",
			bytes.NewBuffer(body), uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		mockOrderService.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusCancelled).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		// Act
		orderHandler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockOrderService.AssertExpectations(t)
	})
}
