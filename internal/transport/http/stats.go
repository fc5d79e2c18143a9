package http

import (
	"context"
	"net/http"

	"github.com/nyckye/keyshop/internal/domain"
)

// StatsReader is the minimal interface needed by the stats endpoint.
type StatsReader interface {
	Totals(ctx context.Context) (domain.Stats, error)
}

// HandleStats returns an HTTP handler for the shop-wide rollup.
func HandleStats(svc StatsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Totals(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			UserCount:     stats.UserCount,
			PurchaseCount: stats.PurchaseCount,
			RevenueSum:    stats.RevenueSum,
		})
	}
}

type statsResponse struct {
	UserCount     int64 `json:"user_count"`
	PurchaseCount int64 `json:"purchase_count"`
	RevenueSum    int64 `json:"revenue_sum"`
}
