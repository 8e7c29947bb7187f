package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, q repository.Querier, order *models.Order) error {
	args := m.Called(ctx, q, order)
	return args.Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersByActor(ctx context.Context, actor models.Actor, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, actor, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
