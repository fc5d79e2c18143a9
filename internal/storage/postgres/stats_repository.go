package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nyckye/keyshop/internal/domain"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) Totals(ctx context.Context) (domain.Stats, error) {
	const query = `
SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM purchases),
	(SELECT COALESCE(SUM(price), 0) FROM purchases)`

	var s domain.Stats
	if err := r.pool.QueryRow(ctx, query).Scan(&s.UserCount, &s.PurchaseCount, &s.RevenueSum); err != nil {
		return domain.Stats{}, fmt.Errorf("totals: %w", err)
	}
	return s, nil
}
