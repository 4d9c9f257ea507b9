// Package model defines domain types used by the service.
package model

// StockRecord is the persisted available quantity for a single product.
// At most one record exists per product id; the store enforces uniqueness.
type StockRecord struct {
	ID        int64 `json:"id" db:"id"`
	ProductID int64 `json:"product_id" db:"product_id"`
	Quantity  int64 `json:"quantity" db:"quantity"`
}

// Action describes the kind of stock transition a change event reports.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// ChangeEvent describes a quantity transition on a stock record. It has no
// persisted identity; it exists only for the duration of the notification.
type ChangeEvent struct {
	ProductID        int64  `json:"product_id"`
	Quantity         int64  `json:"quantity"`
	PreviousQuantity *int64 `json:"previous_quantity,omitempty"`
	Action           Action `json:"action"`
}
