package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/utils"

	"github.com/google/uuid"
)

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, actor models.Actor) (*models.Cart, error)
	GetCartByActor(ctx context.Context, actor models.Actor) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	ClearItems(ctx context.Context, q Querier, cartID uuid.UUID) error
	MergeGuestCartIntoUser(ctx context.Context, sessionKey string, userID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetOrCreateCart lazily creates the actor's cart row on first access.
func (r *cartRepository) GetOrCreateCart(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	userID, sessionKey := actorColumns(actor)

	cart := &models.Cart{}

	var query string

	var owner any

	if userID.Valid {
		query = `SELECT id, created_at FROM carts WHERE user_id = $1`
		owner = userID
	} else {
		query = `SELECT id, created_at FROM carts WHERE session_key = $1`
		owner = sessionKey
	}

	err := r.DB.QueryRowContext(dbCtx, query, owner).Scan(&cart.ID, &cart.CreatedAt)
	if err == nil {
		return cart, nil
	}

	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	insert := `
		INSERT INTO carts (user_id, session_key)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.DB.QueryRowContext(dbCtx, insert, userID, sessionKey).Scan(&cart.ID, &cart.CreatedAt); err != nil {
		return nil, fmt.Errorf("creating cart: %w", err)
	}

	return cart, nil
}

// GetCartByActor loads the cart with its lines joined against the catalog for
// the current name and price. Returns sql.ErrNoRows when no cart exists.
func (r *cartRepository) GetCartByActor(ctx context.Context, actor models.Actor) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	userID, sessionKey := actorColumns(actor)

	cart := &models.Cart{}

	var query string

	var owner any

	if userID.Valid {
		query = `SELECT id, created_at FROM carts WHERE user_id = $1`
		owner = userID
	} else {
		query = `SELECT id, created_at FROM carts WHERE session_key = $1`
		owner = sessionKey
	}

	if err := r.DB.QueryRowContext(dbCtx, query, owner).Scan(&cart.ID, &cart.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying cart: %w", err)
	}

	itemsQuery := `
		SELECT ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = $1
		ORDER BY ci.product_id
	`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("querying cart items: %w", err)
	}

	defer rows.Close()

	for rows.Next() {

		var item models.CartItem

		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

// AddItem upserts a cart line, summing quantities when the product is already
// in the cart.
func (r *cartRepository) AddItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.DB.ExecContext(dbCtx, query, cartID, productID, quantity); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ClearItems deletes all lines of the cart. It runs on the caller's Querier so
// order placement can clear the cart inside its own transaction.
func (r *cartRepository) ClearItems(ctx context.Context, q Querier, cartID uuid.UUID) error {

	query := `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := q.ExecContext(ctx, query, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	return nil
}

// MergeGuestCartIntoUser folds the guest cart identified by sessionKey into
// the user's cart, summing quantities for shared products, then deletes the
// guest cart. No-op when the guest has no cart.
func (r *cartRepository) MergeGuestCartIntoUser(ctx context.Context, sessionKey string, userID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	var guestCartID uuid.UUID

	err = tx.QueryRowContext(dbCtx, `SELECT id FROM carts WHERE session_key = $1`, sessionKey).Scan(&guestCartID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}

		return fmt.Errorf("querying guest cart: %w", err)
	}

	var userCartID uuid.UUID

	err = tx.QueryRowContext(dbCtx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id`, userID).Scan(&userCartID)
	if err != nil {
		return fmt.Errorf("resolving user cart: %w", err)
	}

	_, err = tx.ExecContext(dbCtx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		SELECT $1, product_id, quantity FROM cart_items WHERE cart_id = $2
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`, userCartID, guestCartID)
	if err != nil {
		return fmt.Errorf("merging cart items: %w", err)
	}

	if _, err := tx.ExecContext(dbCtx, `DELETE FROM carts WHERE id = $1`, guestCartID); err != nil {
		return fmt.Errorf("deleting guest cart: %w", err)
	}

	return tx.Commit()
}
