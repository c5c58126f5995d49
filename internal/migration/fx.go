// Package migration keeps the schema in sync at startup so the service is
// usable out of the box for local and self-hosted environments.
package migration

import (
	clientdomain "github.com/smallbiznis/gescom/internal/client/domain"
	invoicedomain "github.com/smallbiznis/gescom/internal/invoice/domain"
	numberingdomain "github.com/smallbiznis/gescom/internal/numbering/domain"
	orderdomain "github.com/smallbiznis/gescom/internal/order/domain"
	productdomain "github.com/smallbiznis/gescom/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Migrate creates or updates all gescom tables.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&clientdomain.Client{},
		&productdomain.Product{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&numberingdomain.DocumentNumber{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(Migrate),
)
