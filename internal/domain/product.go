package domain

import "time"

// Product is a sellable digital good. Stock is never stored independently; it
// is the count of unsold keys belonging to the product at read time.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Stock       int
	CreatedAt   time.Time
}
