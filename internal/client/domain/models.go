// Package domain contains the client catalog models and contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Client struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	Code            string       `json:"code" gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string       `json:"name" gorm:"type:text;not null"`
	Email           string       `json:"email" gorm:"type:text;not null"`
	Phone           string       `json:"phone,omitempty" gorm:"type:varchar(30)"`
	BillingAddress  string       `json:"billing_address,omitempty" gorm:"type:text"`
	ShippingAddress string       `json:"shipping_address,omitempty" gorm:"type:text"`
	Active          bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null"`
}

func (Client) TableName() string { return "clients" }
