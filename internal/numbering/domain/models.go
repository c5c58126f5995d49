// Package domain contains the document numbering model and contract.
package domain

import "time"

// Prefixes for the two document families.
const (
	PrefixOrder   = "CMD"
	PrefixInvoice = "FACT"
)

// DocumentNumber registers every assigned number. The primary key on Number
// is what turns a concurrent sequence race into a detectable duplicate-key
// insert instead of two documents sharing a number.
type DocumentNumber struct {
	Number    string    `gorm:"primaryKey;type:varchar(50)"`
	Prefix    string    `gorm:"type:varchar(10);not null;index:ix_document_numbers_prefix_period"`
	Period    string    `gorm:"type:char(6);not null;index:ix_document_numbers_prefix_period"`
	Sequence  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (DocumentNumber) TableName() string { return "document_numbers" }
