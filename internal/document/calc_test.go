package document

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculateLine(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		unitPrice    string
		discountRate string
		vatRate      string
		wantNet      string
		wantTax      string
		wantGross    string
		wantDiscount string
	}{
		{
			name:     "discount then vat",
			quantity: 3, unitPrice: "100.00", discountRate: "10", vatRate: "20",
			wantDiscount: "30.00", wantNet: "270.00", wantTax: "54.00", wantGross: "324.00",
		},
		{
			name:     "no discount",
			quantity: 2, unitPrice: "49.99", discountRate: "0", vatRate: "20",
			wantDiscount: "0", wantNet: "99.98", wantTax: "20.00", wantGross: "119.98",
		},
		{
			name:     "zero vat",
			quantity: 1, unitPrice: "15.50", discountRate: "5", vatRate: "0",
			wantDiscount: "0.78", wantNet: "14.72", wantTax: "0", wantGross: "14.72",
		},
		{
			name:     "full discount",
			quantity: 4, unitPrice: "25.00", discountRate: "100", vatRate: "20",
			wantDiscount: "100.00", wantNet: "0.00", wantTax: "0.00", wantGross: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateLine(tt.quantity, d(tt.unitPrice), d(tt.discountRate), d(tt.vatRate))
			require.NoError(t, err)

			assert.True(t, d(tt.wantDiscount).Equal(got.DiscountAmount), "discount: got %s", got.DiscountAmount)
			assert.True(t, d(tt.wantNet).Equal(got.NetAmount), "net: got %s", got.NetAmount)
			assert.True(t, d(tt.wantTax).Equal(got.TaxAmount), "tax: got %s", got.TaxAmount)
			assert.True(t, d(tt.wantGross).Equal(got.GrossAmount), "gross: got %s", got.GrossAmount)

			// gross always equals net plus tax
			assert.True(t, got.GrossAmount.Equal(got.NetAmount.Add(got.TaxAmount)))
		})
	}
}

func TestCalculateLineIdempotent(t *testing.T) {
	first, err := CalculateLine(7, d("13.37"), d("2.5"), d("5.5"))
	require.NoError(t, err)
	second, err := CalculateLine(7, d("13.37"), d("2.5"), d("5.5"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculateLineValidation(t *testing.T) {
	_, err := CalculateLine(0, d("10.00"), decimal.Zero, DefaultVatRate)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = CalculateLine(1, decimal.Zero, decimal.Zero, DefaultVatRate)
	assert.ErrorIs(t, err, ErrInvalidUnitPrice)

	_, err = CalculateLine(1, d("10.00"), d("101"), DefaultVatRate)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = CalculateLine(1, d("10.00"), decimal.Zero, d("-1"))
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestCalculateTotals(t *testing.T) {
	lineA, err := CalculateLine(3, d("100.00"), d("10"), d("20"))
	require.NoError(t, err)
	lineB, err := CalculateLine(1, d("50.00"), decimal.Zero, d("20"))
	require.NoError(t, err)

	totals := CalculateTotals([]LineTotals{lineA, lineB}, d("5"), d("9.90"))

	// rawNet = 270 + 50 = 320, document discount = 16.00
	assert.True(t, d("16.00").Equal(totals.DiscountAmount), "discount: got %s", totals.DiscountAmount)
	assert.True(t, d("304.00").Equal(totals.NetTotal), "net: got %s", totals.NetTotal)
	assert.True(t, d("64.00").Equal(totals.TaxTotal), "tax: got %s", totals.TaxTotal)
	assert.True(t, d("377.90").Equal(totals.GrandTotal), "grand: got %s", totals.GrandTotal)

	// grand total identity
	assert.True(t, totals.GrandTotal.Equal(totals.NetTotal.Add(totals.TaxTotal).Add(d("9.90"))))
}

func TestCalculateTotalsEmptyLines(t *testing.T) {
	totals := CalculateTotals(nil, d("5"), d("10.00"))

	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.NetTotal.IsZero())
	assert.True(t, totals.TaxTotal.IsZero())
	assert.True(t, d("10.00").Equal(totals.GrandTotal), "shipping alone: got %s", totals.GrandTotal)
}

func TestCalculateTotalsNoDoubleDiscount(t *testing.T) {
	// Line already discounted 50%: net 50.00. The 10% document discount must
	// come from the 50.00 net sum, not from a twice-discounted figure.
	line, err := CalculateLine(1, d("100.00"), d("50"), d("0"))
	require.NoError(t, err)

	totals := CalculateTotals([]LineTotals{line}, d("10"), decimal.Zero)
	assert.True(t, d("5.00").Equal(totals.DiscountAmount), "discount: got %s", totals.DiscountAmount)
	assert.True(t, d("45.00").Equal(totals.NetTotal), "net: got %s", totals.NetTotal)
}
