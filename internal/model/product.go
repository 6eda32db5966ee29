package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is the ledger entity. The whole record — current quotation plus its
// history trail — lives in one row, so every ledger operation is a single
// read-modify-write against one document.
//
// Version backs optimistic locking: SaveVersioned compares and bumps it, and
// a stale save affects zero rows. That gives per-record serializability for
// concurrent supersede/restore/delete-history calls on the same product.
type Product struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductName string      `gorm:"uniqueIndex;not null"`
	Unit        string      `gorm:"not null"`
	CurrentRate Rate        `gorm:"type:jsonb;not null"`
	RateHistory RateHistory `gorm:"type:jsonb;not null;default:'[]'"`
	Version     int         `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
