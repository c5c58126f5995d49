package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("invoice_not_found")
	ErrAlreadyInvoiced   = errors.New("order_already_invoiced")
	ErrNotInvoiceable    = errors.New("order_not_invoiceable")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrInvalidAmount     = errors.New("invalid_amount")
)

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

type Service interface {
	// CreateFromOrder projects an invoice from an invoiceable order,
	// guaranteeing at most one invoice per order.
	CreateFromOrder(ctx context.Context, orderID string) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (Invoice, error)
	MarkSent(ctx context.Context, id string) (Invoice, error)
	Cancel(ctx context.Context, id string) (Invoice, error)
}
