package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/document"
	"github.com/smallbiznis/gescom/internal/product/domain"
	"github.com/smallbiznis/gescom/internal/product/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Product{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCreateDefaultsVatRate(t *testing.T) {
	svc := newService(t)

	product, err := svc.Create(context.Background(), domain.CreateRequest{
		Code:      "SKU-1",
		Name:      "Widget",
		UnitPrice: dec("19.99"),
	})
	require.NoError(t, err)

	assert.True(t, document.DefaultVatRate.Equal(product.VatRate))
	assert.True(t, product.Active)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	badRate := dec("101")

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"blank code", domain.CreateRequest{Name: "Widget", UnitPrice: dec("1")}, domain.ErrInvalidCode},
		{"blank name", domain.CreateRequest{Code: "SKU-1", UnitPrice: dec("1")}, domain.ErrInvalidName},
		{"zero price", domain.CreateRequest{Code: "SKU-1", Name: "Widget"}, domain.ErrInvalidPrice},
		{"rate above 100", domain.CreateRequest{Code: "SKU-1", Name: "Widget", UnitPrice: dec("1"), VatRate: &badRate}, document.ErrInvalidRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, domain.CreateRequest{
		Code:      "SKU-1",
		Name:      "Widget",
		UnitPrice: dec("19.99"),
	})
	require.NoError(t, err)

	price := dec("24.50")
	updated, err := svc.Update(ctx, product.ID.String(), domain.UpdateRequest{UnitPrice: &price})
	require.NoError(t, err)

	assert.True(t, dec("24.50").Equal(updated.UnitPrice))
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, product.Code, updated.Code)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetByID(context.Background(), "424242")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
