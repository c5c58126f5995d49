package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	clientdomain "github.com/smallbiznis/gescom/internal/client/domain"
	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/document"
	numberingdomain "github.com/smallbiznis/gescom/internal/numbering/domain"
	"github.com/smallbiznis/gescom/internal/observability"
	"github.com/smallbiznis/gescom/internal/order/domain"
	productdomain "github.com/smallbiznis/gescom/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Clients  clientdomain.Repository
	Products productdomain.Repository
	Numbers  numberingdomain.Generator
	Metrics  *observability.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	clients  clientdomain.Repository
	products productdomain.Repository
	numbers  numberingdomain.Generator
	metrics  *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		clients:  p.Clients,
		products: p.Products,
		numbers:  p.Numbers,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	clientID, err := snowflake.ParseString(req.ClientID)
	if err != nil {
		return domain.Order{}, domain.ErrInvalidClient
	}
	client, err := s.clients.FindByID(ctx, s.db, clientID)
	if err != nil {
		return domain.Order{}, err
	}
	if client == nil {
		return domain.Order{}, domain.ErrInvalidClient
	}

	if !validOptionalRate(req.DiscountRate) || req.ShippingCost.IsNegative() {
		return domain.Order{}, document.ErrInvalidRate
	}

	now := s.clock.Now()
	order := domain.Order{
		ID:              s.genID.Generate(),
		OrderDate:       now,
		Status:          domain.OrderStatusDraft,
		DiscountRate:    req.DiscountRate,
		ShippingCost:    req.ShippingCost.Round(2),
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		ClientID:        clientID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.BillingAddress == "" {
		order.BillingAddress = client.BillingAddress
	}
	if order.ShippingAddress == "" {
		order.ShippingAddress = client.ShippingAddress
	}

	for _, line := range req.Items {
		item, err := s.buildItem(ctx, order.ID, line)
		if err != nil {
			return domain.Order{}, err
		}
		order.Items = append(order.Items, item)
	}
	order.CalculateTotals()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.numbers.Next(ctx, tx, numberingdomain.PrefixOrder)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return s.repo.Insert(ctx, tx, &order)
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	s.log.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("grand_total", order.GrandTotal.StringFixed(2)),
	)
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) AddItem(ctx context.Context, orderID string, req domain.LineRequest) (domain.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.CanBeModified() {
		return domain.Order{}, domain.ErrNotEditable
	}

	item, err := s.buildItem(ctx, order.ID, req)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = append(order.Items, item)
	order.CalculateTotals()
	order.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertItem(ctx, tx, &item); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) UpdateItem(ctx context.Context, orderID, itemID string, req domain.LineRequest) (domain.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.CanBeModified() {
		return domain.Order{}, domain.ErrNotEditable
	}

	parsedItemID, err := snowflake.ParseString(itemID)
	if err != nil {
		return domain.Order{}, domain.ErrItemNotFound
	}

	index := -1
	for i := range order.Items {
		if order.Items[i].ID == parsedItemID {
			index = i
			break
		}
	}
	if index < 0 {
		return domain.Order{}, domain.ErrItemNotFound
	}

	item := &order.Items[index]
	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.DiscountRate != nil {
		item.DiscountRate = *req.DiscountRate
	}
	if req.VatRate != nil {
		item.VatRate = *req.VatRate
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if err := item.Calculate(); err != nil {
		return domain.Order{}, err
	}
	order.CalculateTotals()
	order.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) RemoveItem(ctx context.Context, orderID, itemID string) (domain.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.CanBeModified() {
		return domain.Order{}, domain.ErrNotEditable
	}

	parsedItemID, err := snowflake.ParseString(itemID)
	if err != nil {
		return domain.Order{}, domain.ErrItemNotFound
	}

	remaining := order.Items[:0]
	found := false
	for _, item := range order.Items {
		if item.ID == parsedItemID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return domain.Order{}, domain.ErrItemNotFound
	}
	order.Items = remaining
	order.CalculateTotals()
	order.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteItem(ctx, tx, order.ID, parsedItemID); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) UpdateCharges(ctx context.Context, orderID string, req domain.UpdateChargesRequest) (domain.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !order.CanBeModified() {
		return domain.Order{}, domain.ErrNotEditable
	}
	if !validOptionalRate(req.DiscountRate) || req.ShippingCost.IsNegative() {
		return domain.Order{}, document.ErrInvalidRate
	}

	order.DiscountRate = req.DiscountRate
	order.ShippingCost = req.ShippingCost.Round(2)
	order.CalculateTotals()
	order.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, order); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) Transition(ctx context.Context, orderID string, to domain.OrderStatus) (domain.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if err := order.TransitionTo(to); err != nil {
		return domain.Order{}, err
	}
	order.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, order); err != nil {
		return domain.Order{}, err
	}

	s.log.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
	)
	return *order, nil
}

func (s *Service) Delete(ctx context.Context, orderID string) error {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.CanBeDeleted() {
		return domain.ErrNotDeletable
	}
	return s.repo.Delete(ctx, s.db, order.ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Order, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	order, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// buildItem resolves a line request into a computed OrderItem, snapshotting
// the product's price and VAT rate when the request leaves them out.
func (s *Service) buildItem(ctx context.Context, orderID snowflake.ID, req domain.LineRequest) (domain.OrderItem, error) {
	item := domain.OrderItem{
		ID:           s.genID.Generate(),
		OrderID:      orderID,
		Description:  req.Description,
		Quantity:     req.Quantity,
		DiscountRate: decimal.Zero,
		VatRate:      document.DefaultVatRate,
	}

	if req.ProductID != "" {
		productID, err := snowflake.ParseString(req.ProductID)
		if err != nil {
			return domain.OrderItem{}, productdomain.ErrInvalidID
		}
		product, err := s.products.FindByID(ctx, s.db, productID)
		if err != nil {
			return domain.OrderItem{}, err
		}
		if product == nil {
			return domain.OrderItem{}, productdomain.ErrNotFound
		}
		item.ProductID = product.ID
		item.UnitPrice = product.UnitPrice
		item.VatRate = product.VatRate
		if item.Description == "" {
			item.Description = product.Name
		}
	}

	if req.UnitPrice != nil {
		item.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.DiscountRate != nil {
		item.DiscountRate = *req.DiscountRate
	}
	if req.VatRate != nil {
		item.VatRate = *req.VatRate
	}

	if err := item.Calculate(); err != nil {
		return domain.OrderItem{}, err
	}
	return item, nil
}

func validOptionalRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(100))
}
