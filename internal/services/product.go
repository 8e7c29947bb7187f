package service

import (
	"context"
	"database/sql"
	"log/slog"

	"cosmetics-store-backend/internal/cache"
	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, productCache cache.Cache) ProductService {
	return &productService{
		repo:      repo,
		cache:     productCache,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  s.sanitizer.Sanitize(req.Description),
		Price:        req.Price,
		Stock:        req.Stock,
		IsBestSeller: req.IsBestSeller,
		IsActive:     true,
	}

	if product.Price.IsNegative() {
		return nil, errors.ValidationError("Price must not be negative")
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	if s.cache != nil {

		var cached models.Product

		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Debug("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		} else if hit {
			return &cached, nil
		}

	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, product, 0); err != nil {
			slog.Debug("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}

	if req.Name != nil {
		product.Name = *req.Name
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, errors.ValidationError("Price must not be negative")
		}

		product.Price = *req.Price
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.IsBestSeller != nil {
		product.IsBestSeller = *req.IsBestSeller
	}

	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 || size > 100 {
		size = 20
	}

	products, total, err := s.repo.ListProducts(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Debug("Product cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
