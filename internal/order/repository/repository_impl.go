package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gescom/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var orders []domain.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":           order.Status,
			"discount_rate":    order.DiscountRate,
			"discount_amount":  order.DiscountAmount,
			"shipping_cost":    order.ShippingCost,
			"net_total":        order.NetTotal,
			"tax_total":        order.TaxTotal,
			"grand_total":      order.GrandTotal,
			"shipping_address": order.ShippingAddress,
			"billing_address":  order.BillingAddress,
			"notes":            order.Notes,
			"updated_at":       order.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.OrderItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Order{}, "id = ?", id).Error
	})
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *domain.OrderItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) UpdateItem(ctx context.Context, db *gorm.DB, item *domain.OrderItem) error {
	return db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Where("id = ? AND order_id = ?", item.ID, item.OrderID).
		Updates(map[string]any{
			"product_id":      item.ProductID,
			"description":     item.Description,
			"quantity":        item.Quantity,
			"unit_price":      item.UnitPrice,
			"discount_rate":   item.DiscountRate,
			"vat_rate":        item.VatRate,
			"discount_amount": item.DiscountAmount,
			"net_amount":      item.NetAmount,
			"tax_amount":      item.TaxAmount,
			"gross_amount":    item.GrossAmount,
		}).Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, orderID, itemID snowflake.ID) error {
	return db.WithContext(ctx).
		Delete(&domain.OrderItem{}, "id = ? AND order_id = ?", itemID, orderID).Error
}
