package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   int64           `json:"category_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	IsBestSeller bool            `json:"is_best_seller"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Category     *Category       `json:"category,omitempty"`
}

type CreateProductRequest struct {
	CategoryID   int64           `json:"category_id" validate:"required"`
	Name         string          `json:"name" validate:"required,min=3,max=200"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	Stock        int             `json:"stock" validate:"gte=0"`
	IsBestSeller bool            `json:"is_best_seller,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID   *int64           `json:"category_id,omitempty"`
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Stock        *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsBestSeller *bool            `json:"is_best_seller,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}
