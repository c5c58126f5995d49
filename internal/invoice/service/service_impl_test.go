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
	clientdomain "github.com/smallbiznis/gescom/internal/client/domain"
	clientrepo "github.com/smallbiznis/gescom/internal/client/repository"
	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/config"
	"github.com/smallbiznis/gescom/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/gescom/internal/invoice/repository"
	"github.com/smallbiznis/gescom/internal/numbering"
	numberingdomain "github.com/smallbiznis/gescom/internal/numbering/domain"
	orderdomain "github.com/smallbiznis/gescom/internal/order/domain"
	orderrepo "github.com/smallbiznis/gescom/internal/order/repository"
	orderservice "github.com/smallbiznis/gescom/internal/order/service"
	productdomain "github.com/smallbiznis/gescom/internal/product/domain"
	productrepo "github.com/smallbiznis/gescom/internal/product/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	orders   orderdomain.Service
	db       *gorm.DB
	clock    *clock.FakeClock
	clientID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&productdomain.Product{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
		&numberingdomain.DocumentNumber{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	cfg := config.Config{PaymentTermsDays: 30, NumberMaxRetries: 5}

	numbers := numbering.New(numbering.Params{Log: log, Clock: fake, Cfg: cfg})
	ordersRepo := orderrepo.Provide()

	f := &fixture{db: db, clock: fake}

	client := clientdomain.Client{
		ID:             node.Generate(),
		Code:           "CLI-001",
		Name:           "Acme",
		Email:          "billing@acme.test",
		BillingAddress: "1 rue de la Paix, Paris",
		Active:         true,
		CreatedAt:      fake.Now(),
		UpdatedAt:      fake.Now(),
	}
	require.NoError(t, db.Create(&client).Error)
	f.clientID = client.ID

	f.orders = orderservice.New(orderservice.Params{
		DB:       db,
		Log:      log,
		GenID:    node,
		Clock:    fake,
		Repo:     ordersRepo,
		Clients:  clientrepo.Provide(),
		Products: productrepo.Provide(),
		Numbers:  numbers,
	})
	f.svc = New(Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   fake,
		Cfg:     cfg,
		Repo:    invoicerepo.Provide(),
		Orders:  ordersRepo,
		Numbers: numbers,
	})
	return f
}

func dec(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// confirmedOrder creates an order totalling 500.00 gross and moves it to
// CONFIRMED so it can be invoiced.
func (f *fixture) confirmedOrder(t *testing.T) orderdomain.Order {
	t.Helper()
	ctx := context.Background()

	price := dec("250.00")
	vat := dec("0")
	order, err := f.orders.Create(ctx, orderdomain.CreateOrderRequest{
		ClientID: f.clientID.String(),
		Items: []orderdomain.LineRequest{{
			Description: "consulting",
			Quantity:    2,
			UnitPrice:   &price,
			VatRate:     &vat,
		}},
	})
	require.NoError(t, err)

	order, err = f.orders.Transition(ctx, order.ID.String(), orderdomain.OrderStatusConfirmed)
	require.NoError(t, err)
	return order
}

func TestCreateFromOrder(t *testing.T) {
	f := newFixture(t)
	order := f.confirmedOrder(t)

	inv, err := f.svc.CreateFromOrder(context.Background(), order.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "FACT-202501-0001", inv.InvoiceNumber)
	assert.Equal(t, order.ID, inv.OrderID)
	assert.Equal(t, domain.InvoiceStatusDraft, inv.Status)
	assert.True(t, order.GrandTotal.Equal(inv.GrandTotal), "grand: %s vs %s", order.GrandTotal, inv.GrandTotal)
	assert.Equal(t, order.BillingAddress, inv.BillingAddress)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "consulting", inv.Items[0].Description)

	// due date follows the configured payment terms
	assert.Equal(t, inv.InvoiceDate.Add(30*24*time.Hour), inv.DueDate)
}

func TestCreateFromOrderTwiceRejected(t *testing.T) {
	f := newFixture(t)
	order := f.confirmedOrder(t)
	ctx := context.Background()

	_, err := f.svc.CreateFromOrder(ctx, order.ID.String())
	require.NoError(t, err)

	_, err = f.svc.CreateFromOrder(ctx, order.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyInvoiced)
}

func TestCreateFromDraftOrderRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.Create(ctx, orderdomain.CreateOrderRequest{
		ClientID: f.clientID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.CreateFromOrder(ctx, order.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotInvoiceable)
}

func TestCreateFromUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateFromOrder(context.Background(), "12345")
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
}

func TestRecordFullPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	paid, err := f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{
		Amount: dec("500.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.True(t, paid.RemainingAmount().IsZero(), "remaining: %s", paid.RemainingAmount())
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, f.clock.Now(), *paid.PaymentDate)
}

func TestRecordPartialPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	paid, err := f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{
		Amount: dec("200.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPartial, paid.Status)
	assert.True(t, dec("300.00").Equal(paid.RemainingAmount()), "remaining: %s", paid.RemainingAmount())
}

func TestPaymentReplacesPreviousAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("200.00")})
	require.NoError(t, err)

	// a second payment records the new cumulative figure, it does not add
	paid, err := f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("500.00")})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.True(t, dec("500.00").Equal(paid.PaidAmount))
}

func TestOverPaymentMarksPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	paid, err := f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("600.00")})
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.True(t, dec("-100.00").Equal(paid.RemainingAmount()), "remaining: %s", paid.RemainingAmount())
}

func TestRecordPaymentRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("-10")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestOverdueDerivedOnRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	sent, err := f.svc.MarkSent(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, sent.Status)

	// past the due date, reading the invoice flips and persists OVERDUE
	f.clock.Advance(31 * 24 * time.Hour)

	got, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOverdue, got.Status)

	var stored domain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", inv.ID).Error)
	assert.Equal(t, domain.InvoiceStatusOverdue, stored.Status)
}

func TestOverdueStillPayable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	_, err = f.svc.MarkSent(ctx, inv.ID.String())
	require.NoError(t, err)
	f.clock.Advance(31 * 24 * time.Hour)

	paid, err := f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("500.00")})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)

	// once paid, the overdue rule no longer applies on read
	got, err := f.svc.GetByID(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
}

func TestMarkSentOnlyFromDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	_, err = f.svc.MarkSent(ctx, inv.ID.String())
	require.NoError(t, err)

	_, err = f.svc.MarkSent(ctx, inv.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelPaidRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("500.00")})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, inv.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelledRejectsPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.svc.CreateFromOrder(ctx, f.confirmedOrder(t).ID.String())
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusCancelled, cancelled.Status)

	_, err = f.svc.RecordPayment(ctx, inv.ID.String(), domain.RecordPaymentRequest{Amount: dec("100.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetByOrderID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.confirmedOrder(t)
	inv, err := f.svc.CreateFromOrder(ctx, order.ID.String())
	require.NoError(t, err)

	got, err := f.svc.GetByOrderID(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)

	_, err = f.svc.GetByOrderID(ctx, "987654")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
