package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB) ([]Order, error)
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	InsertItem(ctx context.Context, db *gorm.DB, item *OrderItem) error
	UpdateItem(ctx context.Context, db *gorm.DB, item *OrderItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, orderID, itemID snowflake.ID) error
}
