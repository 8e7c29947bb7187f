package service

import (
	"context"
	"database/sql"

	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartService interface {
	GetCart(ctx context.Context, actor models.Actor) (*models.Cart, error)
	AddItem(ctx context.Context, actor models.Actor, req *models.AddCartItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, actor models.Actor, req *models.UpdateCartItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, actor models.Actor, req *models.RemoveCartItemRequest) (*models.Cart, error)
	MergeGuestCartIntoUser(ctx context.Context, sessionKey string, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart lazily creates the actor's cart on first access.
func (s *cartService) GetCart(ctx context.Context, actor models.Actor) (*models.Cart, error) {

	if _, err := s.cartRepo.GetOrCreateCart(ctx, actor); err != nil {
		return nil, errors.DatabaseError("Failed to resolve cart").WithError(err)
	}

	return s.loadCart(ctx, actor)
}

func (s *cartService) AddItem(ctx context.Context, actor models.Actor, req *models.AddCartItemRequest) (*models.Cart, error) {

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

	cart, err := s.cartRepo.GetOrCreateCart(ctx, actor)
	if err != nil {
		return nil, errors.DatabaseError("Failed to resolve cart").WithError(err)
	}

	if err := s.cartRepo.AddItem(ctx, cart.ID, req.ProductID, req.Quantity); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.loadCart(ctx, actor)
}

// UpdateQuantity sets the line to the requested quantity; zero removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, actor models.Actor, req *models.UpdateCartItemRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetOrCreateCart(ctx, actor)
	if err != nil {
		return nil, errors.DatabaseError("Failed to resolve cart").WithError(err)
	}

	if req.Quantity == 0 {

		if err := s.cartRepo.RemoveItem(ctx, cart.ID, req.ProductID); err != nil {
			if err == sql.ErrNoRows {
				return nil, errors.NotFoundError("Item not found in the cart").WithError(err)
			}

			return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
		}

		return s.loadCart(ctx, actor)
	}

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

	if err := s.cartRepo.SetItemQuantity(ctx, cart.ID, req.ProductID, req.Quantity); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Item not found in the cart").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.loadCart(ctx, actor)
}

func (s *cartService) RemoveItem(ctx context.Context, actor models.Actor, req *models.RemoveCartItemRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetOrCreateCart(ctx, actor)
	if err != nil {
		return nil, errors.DatabaseError("Failed to resolve cart").WithError(err)
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, req.ProductID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Item not found in the cart").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return s.loadCart(ctx, actor)
}

// MergeGuestCartIntoUser is invoked on login so the guest's pre-login cart
// survives authentication. Quantities are summed for shared products.
func (s *cartService) MergeGuestCartIntoUser(ctx context.Context, sessionKey string, userID uuid.UUID) error {

	if sessionKey == "" {
		return nil
	}

	if err := s.cartRepo.MergeGuestCartIntoUser(ctx, sessionKey, userID); err != nil {
		return errors.DatabaseError("Failed to merge guest cart").WithError(err)
	}

	return nil
}

func (s *cartService) loadCart(ctx context.Context, actor models.Actor) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByActor(ctx, actor)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load cart").WithError(err)
	}

	total := decimal.Zero

	for i := range cart.Items {
		cart.Items[i].Subtotal = cart.Items[i].Price.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		total = total.Add(cart.Items[i].Subtotal)
	}

	cart.TotalPrice = total

	return cart, nil
}
