package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/utils"

	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	GetProductForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Product, error)
	DecrementStock(ctx context.Context, q Querier, id uuid.UUID, quantity int) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (category_id, name, description, price, stock, is_best_seller, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.CategoryID, product.Name, product.Description, product.Price, product.Stock, product.IsBestSeller, product.IsActive).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
        SELECT p.id, p.category_id, p.name, p.description, p.price,
               p.stock, p.is_best_seller, p.is_active, p.created_at, p.updated_at,
               c.id, c.name, c.slug
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id
        WHERE p.id = $1`

	var category models.Category

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.IsBestSeller, &product.IsActive, &product.CreatedAt, &product.UpdatedAt, &category.ID, &category.Name, &category.Slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	product.Category = &category

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET category_id = $1, name = $2, description = $3, price = $4, stock = $5, is_best_seller = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, product.CategoryID, product.Name, product.Description, product.Price, product.Stock, product.IsBestSeller, product.IsActive, product.ID).Scan(&product.UpdatedAt)
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`

	err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Offset
	offset := (page - 1) * size

	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.price,
		p.stock, p.is_best_seller, p.is_active, p.created_at, p.updated_at,
		c.id, c.name, c.slug
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}
		category := &models.Category{}

		err := rows.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Price, &product.Stock, &product.IsBestSeller, &product.IsActive, &product.CreatedAt, &product.UpdatedAt, &category.ID, &category.Name, &category.Slug)
		if err != nil {
			return nil, 0, err
		}

		product.Category = category
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetProductForUpdate acquires an exclusive row lock on the product for the
// duration of the enclosing transaction. Callers that lock several products
// must do so in ascending product id order.
func (r *productRepository) GetProductForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Product, error) {

	product := &models.Product{}

	query := `
		SELECT id, category_id, name, description, price, stock
		FROM products
		WHERE id = $1
		FOR UPDATE`

	err := q.QueryRowContext(ctx, query, id).Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &product.Price, &product.Stock)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("locking product row: %w", err)
	}

	return product, nil
}

// DecrementStock subtracts quantity from the locked product row. The stock
// guard in the WHERE clause keeps stock from ever going negative even if a
// caller skipped the check under lock.
func (r *productRepository) DecrementStock(ctx context.Context, q Querier, id uuid.UUID, quantity int) error {

	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1`

	result, err := q.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return ErrInsufficientStock
	}

	return nil
}
