package domain

import "time"

// ProductKey is one sellable unit of a product: an opaque payload that moves
// from unsold to sold exactly once and is never un-sold afterwards.
type ProductKey struct {
	ID        string
	ProductID string
	Payload   string
	Sold      bool
	CreatedAt time.Time
}
