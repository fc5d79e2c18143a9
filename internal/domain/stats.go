package domain

// Stats is a read-only rollup over users and the purchase ledger.
type Stats struct {
	UserCount     int64
	PurchaseCount int64
	RevenueSum    int64
}
