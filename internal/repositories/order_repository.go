package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/utils"

	"github.com/google/uuid"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, q Querier, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByActor(ctx context.Context, actor models.Actor, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder inserts the order and its item snapshots on the caller's
// Querier; order placement passes its open transaction so the inserts commit
// or roll back together with the stock decrements.
func (r *orderRepository) CreateOrder(ctx context.Context, q Querier, order *models.Order) error {

	userID, sessionKey := actorColumns(order.Actor())

	query := `
		INSERT INTO orders (id, user_id, session_key, status, total_amount,
			shipping_full_name, shipping_phone, shipping_governorate, shipping_city, shipping_address_detail,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`

	_, err := q.ExecContext(ctx, query, order.ID, userID, sessionKey, order.Status, order.TotalAmount,
		order.Shipping.FullName, order.Shipping.Phone, order.Shipping.Governorate, order.Shipping.City, order.Shipping.AddressDetail)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	for _, item := range order.Items {

		_, err := q.ExecContext(ctx, itemQuery, item.ID, order.ID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}

	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT user_id, session_key, status, total_amount,
		       shipping_full_name, shipping_phone, shipping_governorate, shipping_city, shipping_address_detail,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var userID uuid.NullUUID

	var sessionKey sql.NullString

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&userID, &sessionKey, &order.Status, &order.TotalAmount,
		&order.Shipping.FullName, &order.Shipping.Phone, &order.Shipping.Governorate, &order.Shipping.City, &order.Shipping.AddressDetail,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	order.SetActor(actorFromColumns(userID, sessionKey))

	items, err := r.loadItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {

	query := `
		SELECT id, product_id, name, price, quantity, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {

		var item models.OrderItem

		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.OrderID = orderID

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepository) ListOrdersByActor(ctx context.Context, actor models.Actor, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	userID, sessionKey := actorColumns(actor)

	var ownerClause string

	var owner any

	if userID.Valid {
		ownerClause = `user_id = $1`
		owner = userID
	} else {
		ownerClause = `session_key = $1`
		owner = sessionKey
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE ` + ownerClause

	if err := r.DB.QueryRowContext(dbCtx, countQuery, owner).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, status, total_amount,
		       shipping_full_name, shipping_phone, shipping_governorate, shipping_city, shipping_address_detail,
		       created_at, updated_at
		FROM orders
		WHERE ` + ownerClause + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, owner, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		var order models.Order

		err := rows.Scan(&order.ID, &order.Status, &order.TotalAmount,
			&order.Shipping.FullName, &order.Shipping.Phone, &order.Shipping.Governorate, &order.Shipping.City, &order.Shipping.AddressDetail,
			&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		order.SetActor(actorFromColumns(userID, sessionKey))

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {

		items, err := r.loadItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
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
