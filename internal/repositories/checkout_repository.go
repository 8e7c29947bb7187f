package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/utils"

	"github.com/google/uuid"
)

type CheckoutRepository interface {
	CreateCheckout(ctx context.Context, checkout *models.InstantCheckout) error
	GetCheckoutByID(ctx context.Context, id uuid.UUID) (*models.InstantCheckout, error)
	MarkCompleted(ctx context.Context, q Querier, id uuid.UUID) error
}

type checkoutRepository struct {
	DB *sql.DB
}

func NewCheckoutRepo(db *sql.DB) CheckoutRepository {
	return &checkoutRepository{DB: db}
}

func (r *checkoutRepository) CreateCheckout(ctx context.Context, checkout *models.InstantCheckout) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	userID, sessionKey := actorColumns(checkout.Actor)

	query := `
		INSERT INTO instant_checkouts (id, user_id, session_key, product_id, quantity, total_amount, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.DB.QueryRowContext(dbCtx, query, checkout.ID, userID, sessionKey, checkout.ProductID, checkout.Quantity, checkout.TotalAmount, checkout.ExpiresAt).Scan(&checkout.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert instant checkout: %w", err)
	}

	return nil
}

// GetCheckoutByID joins the current product name/price for display. Returns
// sql.ErrNoRows for unknown ids.
func (r *checkoutRepository) GetCheckoutByID(ctx context.Context, id uuid.UUID) (*models.InstantCheckout, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	checkout := &models.InstantCheckout{ID: id}

	query := `
		SELECT c.user_id, c.session_key, c.product_id, c.quantity, c.total_amount,
		       c.created_at, c.expires_at, c.is_completed, p.name, p.price
		FROM instant_checkouts c
		JOIN products p ON c.product_id = p.id
		WHERE c.id = $1
	`

	var userID uuid.NullUUID

	var sessionKey sql.NullString

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&userID, &sessionKey, &checkout.ProductID, &checkout.Quantity, &checkout.TotalAmount, &checkout.CreatedAt, &checkout.ExpiresAt, &checkout.IsCompleted, &checkout.ProductName, &checkout.ProductPrice)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying instant checkout: %w", err)
	}

	checkout.Actor = actorFromColumns(userID, sessionKey)

	return checkout, nil
}

// MarkCompleted flips is_completed inside the conversion transaction. The
// WHERE guard makes the second of two racing conversions fail with
// ErrCheckoutCompleted instead of producing a duplicate order.
func (r *checkoutRepository) MarkCompleted(ctx context.Context, q Querier, id uuid.UUID) error {

	query := `
		UPDATE instant_checkouts
		SET is_completed = TRUE
		WHERE id = $1 AND is_completed = FALSE`

	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark checkout completed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return ErrCheckoutCompleted
	}

	return nil
}
