package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gescom/internal/clock"
	"github.com/smallbiznis/gescom/internal/document"
	"github.com/smallbiznis/gescom/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Product, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.Product{}, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	if !req.UnitPrice.IsPositive() {
		return domain.Product{}, domain.ErrInvalidPrice
	}

	vatRate := document.DefaultVatRate
	if req.VatRate != nil {
		vatRate = *req.VatRate
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Product{}, document.ErrInvalidRate
	}

	now := s.clock.Now()
	product := domain.Product{
		ID:          s.genID.Generate(),
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		UnitPrice:   req.UnitPrice.Round(2),
		VatRate:     vatRate,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.UnitPrice != nil {
		if !req.UnitPrice.IsPositive() {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.UnitPrice = req.UnitPrice.Round(2)
	}
	if req.VatRate != nil {
		if req.VatRate.IsNegative() || req.VatRate.GreaterThan(decimal.NewFromInt(100)) {
			return domain.Product{}, document.ErrInvalidRate
		}
		product.VatRate = *req.VatRate
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Product, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	product, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
