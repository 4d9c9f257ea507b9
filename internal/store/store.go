// Package store persists stock records keyed by product id.
package store

import (
	"context"
	"errors"

	"github.com/AndresCespedes/inventory-service/internal/model"
)

// ErrNotFound is returned when no stock record exists for a product id.
var ErrNotFound = errors.New("stock record not found")

// UpsertResult reports the outcome of an atomic upsert.
type UpsertResult struct {
	Record model.StockRecord
	// PreviousQuantity is nil when the record was created by this call.
	PreviousQuantity *int64
	Created          bool
}

// Store is the keyed record store for stock records. Upsert is a single
// atomic create-or-replace so that concurrent writers on the same product
// id cannot interleave a check-then-write sequence.
type Store interface {
	FindByProductID(ctx context.Context, productID int64) (model.StockRecord, error)
	Upsert(ctx context.Context, productID, quantity int64) (UpsertResult, error)
}
