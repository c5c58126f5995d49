// Package document holds the financial arithmetic shared by orders and
// invoices: per-line amounts and document-level totals. All computation uses
// exact decimals; monetary results are rounded to 2 decimal places.
package document

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidUnitPrice = errors.New("invalid_unit_price")
	ErrInvalidRate      = errors.New("invalid_rate")
)

// DefaultVatRate applies when a line carries no explicit VAT rate.
var DefaultVatRate = decimal.NewFromInt(20)

var oneHundred = decimal.NewFromInt(100)

// LineTotals are the computed amounts of a single line item.
type LineTotals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	NetAmount      decimal.Decimal
	TaxAmount      decimal.Decimal
	GrossAmount    decimal.Decimal
}

// Totals are the computed document-level amounts.
type Totals struct {
	DiscountAmount decimal.Decimal
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
}

// CalculateLine computes one line's amounts. The line discount applies before
// VAT, so tax is charged on the discounted net amount.
func CalculateLine(quantity int, unitPrice, discountRate, vatRate decimal.Decimal) (LineTotals, error) {
	if quantity < 1 {
		return LineTotals{}, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() || unitPrice.IsZero() {
		return LineTotals{}, ErrInvalidUnitPrice
	}
	if !validRate(discountRate) || !validRate(vatRate) {
		return LineTotals{}, ErrInvalidRate
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	discountAmount := decimal.Zero
	if discountRate.IsPositive() {
		discountAmount = subtotal.Mul(discountRate).Div(oneHundred).Round(2)
	}

	netAmount := subtotal.Sub(discountAmount)

	taxAmount := decimal.Zero
	if vatRate.IsPositive() {
		taxAmount = netAmount.Mul(vatRate).Div(oneHundred).Round(2)
	}

	return LineTotals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		NetAmount:      netAmount,
		TaxAmount:      taxAmount,
		GrossAmount:    netAmount.Add(taxAmount),
	}, nil
}

// CalculateTotals aggregates line amounts into document totals. The document
// discount is taken from the pre-discount net sum, shipping is added after
// tax and is never taxed. An empty line set yields zero sums, with shipping
// still counted into the grand total.
func CalculateTotals(lines []LineTotals, discountRate, shippingCost decimal.Decimal) Totals {
	rawNet := decimal.Zero
	rawTax := decimal.Zero
	for _, line := range lines {
		rawNet = rawNet.Add(line.NetAmount)
		rawTax = rawTax.Add(line.TaxAmount)
	}

	discountAmount := decimal.Zero
	if discountRate.IsPositive() {
		discountAmount = rawNet.Mul(discountRate).Div(oneHundred).Round(2)
	}

	netTotal := rawNet.Sub(discountAmount)

	return Totals{
		DiscountAmount: discountAmount,
		NetTotal:       netTotal,
		TaxTotal:       rawTax,
		GrandTotal:     netTotal.Add(rawTax).Add(shippingCost),
	}
}

// validRate accepts percentages in [0, 100].
func validRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(oneHundred)
}
