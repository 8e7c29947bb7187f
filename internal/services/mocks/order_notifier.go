package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type OrderNotifier struct {
	mock.Mock
}

func (m *OrderNotifier) OrderCreated(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
