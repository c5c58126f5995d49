// Package domain contains the product catalog models and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	Code        string          `json:"code" gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `json:"name" gorm:"type:text;not null"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
	VatRate     decimal.Decimal `json:"vat_rate" gorm:"type:numeric(5,2);not null;default:20"`
	Active      bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }
