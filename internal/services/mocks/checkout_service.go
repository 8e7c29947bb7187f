package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) CreateInstantCheckout(ctx context.Context, actor models.Actor, req *models.CreateInstantCheckoutRequest) (*models.InstantCheckout, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InstantCheckout), args.Error(1)
}

func (m *CheckoutService) GetInstantCheckout(ctx context.Context, id uuid.UUID) (*models.InstantCheckoutResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InstantCheckoutResponse), args.Error(1)
}
