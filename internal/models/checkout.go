package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstantCheckout is a short-lived "buy now" intent for a single product.
// TotalAmount is frozen at creation time; expiry is computed on read and the
// row is never mutated to mark it expired.
type InstantCheckout struct {
	ID          uuid.UUID       `json:"id"`
	Actor       Actor           `json:"-"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	IsCompleted bool            `json:"is_completed"`

	// Current product snapshot for display, joined on read.
	ProductName  string          `json:"-"`
	ProductPrice decimal.Decimal `json:"-"`
}

func (c *InstantCheckout) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type CreateInstantCheckoutRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateInstantCheckoutResponse struct {
	CheckoutID uuid.UUID `json:"checkout_id"`
}

type CheckoutProduct struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type InstantCheckoutResponse struct {
	ID          uuid.UUID       `json:"id"`
	Product     CheckoutProduct `json:"product"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ExpiresAt   time.Time       `json:"expires_at"`
	IsCompleted bool            `json:"is_completed"`
}
