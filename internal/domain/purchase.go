package domain

import "time"

// Purchase is one row of the append-only sales ledger. Price is captured at
// sale time and does not change with later catalog edits. ProductName is
// joined in on reads and is empty once the product has been deleted.
type Purchase struct {
	ID          string
	UserID      string
	ProductID   string
	KeyID       string
	ProductName string
	Price       int64
	CreatedAt   time.Time
}
