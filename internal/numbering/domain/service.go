package domain

import (
	"context"

	"gorm.io/gorm"
)

// Generator hands out human-readable document numbers. The db argument lets a
// caller run the assignment inside its own transaction.
type Generator interface {
	Next(ctx context.Context, db *gorm.DB, prefix string) (string, error)
}
