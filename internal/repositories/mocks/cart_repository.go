package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) GetOrCreateCart(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) GetCartByActor(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *CartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, cartID, productID, quantity)
	return args.Error(0)
}

func (m *CartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	args := m.Called(ctx, cartID, productID)
	return args.Error(0)
}

func (m *CartRepository) ClearItems(ctx context.Context, q repository.Querier, cartID uuid.UUID) error {
	args := m.Called(ctx, q, cartID)
	return args.Error(0)
}

func (m *CartRepository) MergeGuestCartIntoUser(ctx context.Context, sessionKey string, userID uuid.UUID) error {
	args := m.Called(ctx, sessionKey, userID)
	return args.Error(0)
}
