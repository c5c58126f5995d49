// Package domain contains the order models, the order status machine and the
// order service contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gescom/internal/document"
)

// Order is a customer order. Totals are recomputed by the service on every
// line mutation, never by the caller.
type Order struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderNumber string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"order_number"`
	OrderDate   time.Time    `gorm:"not null" json:"order_date"`
	Status      OrderStatus  `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`

	DiscountRate   decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_rate"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount_amount"`
	ShippingCost   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"shipping_cost"`
	NetTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"net_total"`
	TaxTotal       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"tax_total"`
	GrandTotal     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"grand_total"`

	ShippingAddress string `gorm:"type:text" json:"shipping_address,omitempty"`
	BillingAddress  string `gorm:"type:text" json:"billing_address,omitempty"`
	Notes           string `gorm:"type:text" json:"notes,omitempty"`

	ClientID snowflake.ID `gorm:"not null;index" json:"client_id"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line on an order. The amount fields are derived from
// quantity, unit price and the two rates.
type OrderItem struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID snowflake.ID `gorm:"not null;index" json:"order_id"`

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

func (OrderItem) TableName() string { return "order_items" }

// Calculate derives the item's amount fields. Idempotent: only the four
// computed fields are overwritten.
func (i *OrderItem) Calculate() error {
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

// CalculateTotals recomputes the order-level totals from the item amounts.
func (o *Order) CalculateTotals() {
	lines := make([]document.LineTotals, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, document.LineTotals{
			NetAmount: item.NetAmount,
			TaxAmount: item.TaxAmount,
		})
	}

	totals := document.CalculateTotals(lines, o.DiscountRate, o.ShippingCost)
	o.DiscountAmount = totals.DiscountAmount
	o.NetTotal = totals.NetTotal
	o.TaxTotal = totals.TaxTotal
	o.GrandTotal = totals.GrandTotal
}
