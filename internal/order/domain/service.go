package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order_not_found")
	ErrItemNotFound      = errors.New("order_item_not_found")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrNotEditable       = errors.New("order_not_editable")
	ErrNotDeletable      = errors.New("order_not_deletable")
	ErrInvalidClient     = errors.New("invalid_client")
)

// LineRequest describes one line item to add or update. UnitPrice and VatRate
// may be omitted when ProductID is set; the product's current price and VAT
// rate are then snapshotted onto the line. A missing DiscountRate means 0, a
// missing VatRate (with no product) means the default 20.
type LineRequest struct {
	ProductID    string           `json:"product_id,omitempty"`
	Description  string           `json:"description,omitempty"`
	Quantity     int              `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountRate *decimal.Decimal `json:"discount_rate,omitempty"`
	VatRate      *decimal.Decimal `json:"vat_rate,omitempty"`
}

type CreateOrderRequest struct {
	ClientID        string          `json:"client_id"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	BillingAddress  string          `json:"billing_address,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	DiscountRate    decimal.Decimal `json:"discount_rate"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Items           []LineRequest   `json:"items,omitempty"`
}

type UpdateChargesRequest struct {
	DiscountRate decimal.Decimal `json:"discount_rate"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	AddItem(ctx context.Context, orderID string, req LineRequest) (Order, error)
	UpdateItem(ctx context.Context, orderID, itemID string, req LineRequest) (Order, error)
	RemoveItem(ctx context.Context, orderID, itemID string) (Order, error)
	UpdateCharges(ctx context.Context, orderID string, req UpdateChargesRequest) (Order, error)
	Transition(ctx context.Context, orderID string, to OrderStatus) (Order, error)
	Delete(ctx context.Context, orderID string) error
}
