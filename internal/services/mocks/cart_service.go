package mocks

import (
	"context"

	"cosmetics-store-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetCart(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, actor models.Actor, req *models.AddCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, actor models.Actor, req *models.UpdateCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, actor models.Actor, req *models.RemoveCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) MergeGuestCartIntoUser(ctx context.Context, sessionKey string, userID uuid.UUID) error {
	args := m.Called(ctx, sessionKey, userID)
	return args.Error(0)
}
