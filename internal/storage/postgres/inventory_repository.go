package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nyckye/keyshop/internal/domain"
)

type InventoryRepository struct {
	pool *pgxpool.Pool
	cfg  repoConfig
}

func NewInventoryRepository(pool *pgxpool.Pool, opts ...RepositoryOption) *InventoryRepository {
	r := &InventoryRepository{pool: pool}
	for _, opt := range opts {
		opt(&r.cfg)
	}
	return r
}

func (r *InventoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return mapTxErr(withTx(ctx, r.pool, r.cfg.lockTimeoutMS, fn))
}

func (r *InventoryRepository) GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	const query = `
SELECT id, name, description, price, created_at
FROM products
WHERE id = $1
FOR UPDATE`

	var p domain.Product
	err := r.queryRow(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrInvalidID
		}
		if isLockTimeout(err) {
			return domain.Product{}, domain.ErrStoreBusy
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("lock product: %w", err)
	}
	return p, nil
}

func (r *InventoryRepository) InsertKey(ctx context.Context, key domain.ProductKey) error {
	const stmt = `
INSERT INTO product_keys (id, product_id, payload, sold, created_at)
VALUES ($1, $2, $3, FALSE, $4)`

	_, err := r.exec(ctx, stmt, key.ID, key.ProductID, key.Payload, key.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert key: %w", err)
	}
	return nil
}

func (r *InventoryRepository) CountAvailable(ctx context.Context, productID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM product_keys
WHERE product_id = $1 AND NOT sold`

	var count int
	if err := r.queryRow(ctx, query, productID).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count available keys: %w", err)
	}
	return count, nil
}

func (r *InventoryRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InventoryRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
