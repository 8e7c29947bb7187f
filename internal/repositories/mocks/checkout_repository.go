package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CheckoutRepository struct {
	mock.Mock
}

func (m *CheckoutRepository) CreateCheckout(ctx context.Context, checkout *models.InstantCheckout) error {
	args := m.Called(ctx, checkout)
	return args.Error(0)
}

func (m *CheckoutRepository) GetCheckoutByID(ctx context.Context, id uuid.UUID) (*models.InstantCheckout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InstantCheckout), args.Error(1)
}

func (m *CheckoutRepository) MarkCompleted(ctx context.Context, q repository.Querier, id uuid.UUID) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}
