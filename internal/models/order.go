package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ShippingAddress is captured at order-creation time and immutable afterward.
type ShippingAddress struct {
	FullName      string `json:"full_name" validate:"required,max=255"`
	Phone         string `json:"phone" validate:"required,max=20"`
	Governorate   string `json:"governorate" validate:"required,max=100"`
	City          string `json:"city" validate:"required,max=100"`
	AddressDetail string `json:"address_detail" validate:"required,max=255"`
}

// OrderItem freezes the product name and unit price at order time; later
// catalog edits never touch it.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	SessionKey  string          `json:"session_key,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	Shipping    ShippingAddress `json:"shipping"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Actor reconstructs the buyer identity snapshot stored on the order.
func (o *Order) Actor() Actor {
	if o.UserID != nil {
		return UserActor(*o.UserID)
	}

	return GuestActor(o.SessionKey)
}

func (o *Order) SetActor(actor Actor) {
	if userID, ok := actor.UserID(); ok {
		o.UserID = &userID
		o.SessionKey = ""

		return
	}

	o.UserID = nil
	o.SessionKey, _ = actor.SessionKey()
}

type PlaceOrderRequest struct {
	Shipping ShippingAddress `json:"shipping" validate:"required"`
}

type PlaceInstantOrderRequest struct {
	CheckoutID uuid.UUID       `json:"checkout_id" validate:"required"`
	Shipping   ShippingAddress `json:"shipping" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending paid cancelled"`
}
