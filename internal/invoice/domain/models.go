// Package domain contains the invoice models, the payment-driven status
// rules and the invoice service contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gescom/internal/document"
)

// Invoice is the billing document spawned from a confirmed order. OrderID is
// unique: an order owns at most one invoice, enforced at the database level.
type Invoice struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceNumber string        `gorm:"type:varchar(50);not null;uniqueIndex" json:"invoice_number"`
	OrderID       snowflake.ID  `gorm:"not null;uniqueIndex" json:"order_id"`
	InvoiceDate   time.Time     `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time     `gorm:"not null" json:"due_date"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`

	DiscountRate   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_rate"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount_amount"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"shipping_cost"`
	NetTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"net_total"`
	TaxTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"tax_total"`
	GrandTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"grand_total"`

	PaidAmount  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"paid_amount"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`

	BillingAddress string `gorm:"type:text" json:"billing_address,omitempty"`
	Notes          string `gorm:"type:text" json:"notes,omitempty"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one line on an invoice, copied from the order line at
// projection time.
type InvoiceItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`

	ProductID   snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	Description string       `gorm:"type:varchar(255)" json:"description,omitempty"`

	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	DiscountRate decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_rate"`
	VatRate      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:20" json:"vat_rate"`

	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount_amount"`
	NetAmount      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"net_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"tax_amount"`
	GrossAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"gross_amount"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// Calculate derives the item's amount fields.
func (i *InvoiceItem) Calculate() error {
	totals, err := document.CalculateLine(i.Quantity, i.UnitPrice, i.DiscountRate, i.VatRate)
	if err != nil {
		return err
	}
	i.DiscountAmount = totals.DiscountAmount
	i.NetAmount = totals.NetAmount
	i.TaxAmount = totals.TaxAmount
	i.GrossAmount = totals.GrossAmount
	return nil
}

// CalculateTotals recomputes the invoice-level totals from the item amounts.
func (inv *Invoice) CalculateTotals() {
	lines := make([]document.LineTotals, 0, len(inv.Items))
	for _, item := range inv.Items {
		lines = append(lines, document.LineTotals{
			NetAmount: item.NetAmount,
			TaxAmount: item.TaxAmount,
		})
	}

	totals := document.CalculateTotals(lines, inv.DiscountRate, inv.ShippingCost)
	inv.DiscountAmount = totals.DiscountAmount
	inv.NetTotal = totals.NetTotal
	inv.TaxTotal = totals.TaxTotal
	inv.GrandTotal = totals.GrandTotal
}

// RemainingAmount is grand total minus what was paid. Negative on
// over-payment; deliberately not clamped.
func (inv *Invoice) RemainingAmount() decimal.Decimal {
	return inv.GrandTotal.Sub(inv.PaidAmount)
}

func (inv *Invoice) IsFullyPaid() bool {
	return inv.PaidAmount.GreaterThanOrEqual(inv.GrandTotal)
}

func (inv *Invoice) IsPartiallyPaid() bool {
	return inv.PaidAmount.IsPositive() && inv.PaidAmount.LessThan(inv.GrandTotal)
}

// IsOverdue reports whether the invoice is past due and still collectible.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status != InvoiceStatusPaid &&
		inv.Status != InvoiceStatusCancelled &&
		inv.DueDate.Before(now)
}

func (inv *Invoice) DaysOverdue(now time.Time) int {
	if !inv.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(inv.DueDate).Hours() / 24)
}
