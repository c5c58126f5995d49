package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/config"
	"github.com/smallbiznis/gescom/internal/invoice/domain"
	numberingdomain "github.com/smallbiznis/gescom/internal/numbering/domain"
	"github.com/smallbiznis/gescom/internal/observability"
	orderdomain "github.com/smallbiznis/gescom/internal/order/domain"
	"github.com/smallbiznis/gescom/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Cfg     config.Config
	Repo    domain.Repository
	Orders  orderdomain.Repository
	Numbers numberingdomain.Generator
	Metrics *observability.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	orders       orderdomain.Repository
	numbers      numberingdomain.Generator
	metrics      *observability.Metrics
	paymentTerms time.Duration
}

func New(p Params) domain.Service {
	days := p.Cfg.PaymentTermsDays
	if days <= 0 {
		days = 30
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("invoice.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		orders:       p.Orders,
		numbers:      p.Numbers,
		metrics:      p.Metrics,
		paymentTerms: time.Duration(days) * 24 * time.Hour,
	}
}

func (s *Service) CreateFromOrder(ctx context.Context, orderID string) (domain.Invoice, error) {
	parsed, err := snowflake.ParseString(orderID)
	if err != nil {
		return domain.Invoice{}, orderdomain.ErrNotFound
	}

	order, err := s.orders.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Invoice{}, err
	}
	if order == nil {
		return domain.Invoice{}, orderdomain.ErrNotFound
	}

	existing, err := s.repo.FindByOrderID(ctx, s.db, order.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if existing != nil {
		return domain.Invoice{}, domain.ErrAlreadyInvoiced
	}

	if !order.Status.Invoiceable() {
		return domain.Invoice{}, domain.ErrNotInvoiceable
	}

	now := s.clock.Now()
	invoice := domain.Invoice{
		ID:             s.genID.Generate(),
		OrderID:        order.ID,
		InvoiceDate:    now,
		DueDate:        now.Add(s.paymentTerms),
		Status:         domain.InvoiceStatusDraft,
		DiscountRate:   order.DiscountRate,
		DiscountAmount: order.DiscountAmount,
		ShippingCost:   order.ShippingCost,
		NetTotal:       order.NetTotal,
		TaxTotal:       order.TaxTotal,
		GrandTotal:     order.GrandTotal,
		BillingAddress: order.BillingAddress,
		Notes:          fmt.Sprintf("Generated from order %s", order.OrderNumber),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, line := range order.Items {
		item := domain.InvoiceItem{
			ID:           s.genID.Generate(),
			InvoiceID:    invoice.ID,
			ProductID:    line.ProductID,
			Description:  line.Description,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			DiscountRate: line.DiscountRate,
			VatRate:      line.VatRate,
		}
		if err := item.Calculate(); err != nil {
			return domain.Invoice{}, err
		}
		invoice.Items = append(invoice.Items, item)
	}
	// The invoice carries its own line copies, so totals are re-aggregated
	// rather than trusted from the order; both paths yield the same figures.
	invoice.CalculateTotals()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.numbers.Next(ctx, tx, numberingdomain.PrefixInvoice)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		// A concurrent projection of the same order trips the unique index
		// on order_id.
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrAlreadyInvoiced
		}
		return domain.Invoice{}, err
	}

	if s.metrics != nil {
		s.metrics.InvoicesCreated.Inc()
	}
	s.log.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("order_number", order.OrderNumber),
		zap.String("grand_total", invoice.GrandTotal.StringFixed(2)),
	)
	return invoice, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := s.refresh(ctx, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) GetByOrderID(ctx context.Context, orderID string) (domain.Invoice, error) {
	parsed, err := snowflake.ParseString(orderID)
	if err != nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	invoice, err := s.repo.FindByOrderID(ctx, s.db, parsed)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if err := s.refresh(ctx, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if err := s.refresh(ctx, &invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (s *Service) RecordPayment(ctx context.Context, id string, req domain.RecordPaymentRequest) (domain.Invoice, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}
	if err := invoice.ApplyPayment(req.Amount, date); err != nil {
		return domain.Invoice{}, err
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
	}
	s.log.Info("payment recorded",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("paid_amount", invoice.PaidAmount.StringFixed(2)),
		zap.String("status", string(invoice.Status)),
	)
	return *invoice, nil
}

func (s *Service) MarkSent(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := invoice.MarkSent(); err != nil {
		return domain.Invoice{}, err
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := invoice.Cancel(); err != nil {
		return domain.Invoice{}, err
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice cancelled", zap.String("invoice_number", invoice.InvoiceNumber))
	return *invoice, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Invoice, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	invoice, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

// refresh applies the lazy overdue rule and persists a status change.
func (s *Service) refresh(ctx context.Context, invoice *domain.Invoice) error {
	if !invoice.RefreshStatus(s.clock.Now()) {
		return nil
	}
	invoice.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, s.db, invoice)
}
