package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nyckye/keyshop/internal/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// EnsureUser inserts the user if absent. Existing rows are left untouched, so
// first-contact name and creation time win.
func (r *UserRepository) EnsureUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, name, balance, created_at)
VALUES ($1, $2, 0, $3)
ON CONFLICT (id) DO NOTHING`

	_, err := r.pool.Exec(ctx, stmt, user.ID, user.Name, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}
