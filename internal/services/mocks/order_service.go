package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderService struct {
	mock.Mock
}

func (m *OrderService) PlaceOrderFromCart(ctx context.Context, actor models.Actor, req *models.PlaceOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) PlaceOrderFromInstantCheckout(ctx context.Context, req *models.PlaceInstantOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, actor models.Actor, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, actor, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
