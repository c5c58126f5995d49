package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCode  = errors.New("invalid_code")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrNotFound     = errors.New("product_not_found")
	ErrInvalidID    = errors.New("invalid_id")
)

type CreateRequest struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	VatRate     *decimal.Decimal `json:"vat_rate,omitempty"`
}

type UpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	VatRate     *decimal.Decimal `json:"vat_rate,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Product, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}
