package service

import (
	"context"
	"database/sql"
	"time"

	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutService interface {
	CreateInstantCheckout(ctx context.Context, actor models.Actor, req *models.CreateInstantCheckoutRequest) (*models.InstantCheckout, error)
	GetInstantCheckout(ctx context.Context, id uuid.UUID) (*models.InstantCheckoutResponse, error)
}

type checkoutService struct {
	checkoutRepo repository.CheckoutRepository
	productRepo  repository.ProductRepository
	ttl          time.Duration
}

func NewCheckoutService(checkoutRepo repository.CheckoutRepository, productRepo repository.ProductRepository, ttl time.Duration) CheckoutService {
	return &checkoutService{checkoutRepo: checkoutRepo, productRepo: productRepo, ttl: ttl}
}

// CreateInstantCheckout opens a "buy now" intent: the total is priced here
// and frozen; only stock is re-validated when the checkout is converted.
func (s *checkoutService) CreateInstantCheckout(ctx context.Context, actor models.Actor, req *models.CreateInstantCheckoutRequest) (*models.InstantCheckout, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if product.Stock < req.Quantity {
		return nil, errors.InsufficientStockError(product.Name)
	}

	now := time.Now()

	checkout := &models.InstantCheckout{
		ID:          uuid.New(),
		Actor:       actor,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.checkoutRepo.CreateCheckout(ctx, checkout); err != nil {
		return nil, errors.DatabaseError("Failed to create checkout").WithError(err)
	}

	return checkout, nil
}

// GetInstantCheckout returns the display snapshot. Expiry is computed on
// read and wins over every other state, including completed checkouts.
func (s *checkoutService) GetInstantCheckout(ctx context.Context, id uuid.UUID) (*models.InstantCheckoutResponse, error) {

	checkout, err := s.checkoutRepo.GetCheckoutByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Checkout not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load checkout").WithError(err)
	}

	if checkout.Expired(time.Now()) {
		return nil, errors.CheckoutExpiredError()
	}

	return &models.InstantCheckoutResponse{
		ID: checkout.ID,
		Product: models.CheckoutProduct{
			ID:    checkout.ProductID,
			Name:  checkout.ProductName,
			Price: checkout.ProductPrice,
		},
		Quantity:    checkout.Quantity,
		TotalAmount: checkout.TotalAmount,
		ExpiresAt:   checkout.ExpiresAt,
		IsCompleted: checkout.IsCompleted,
	}, nil
}
