package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nyckye/keyshop/internal/domain"
)

type PurchaseRepository struct {
	pool *pgxpool.Pool
	cfg  repoConfig
}

func NewPurchaseRepository(pool *pgxpool.Pool, opts ...RepositoryOption) *PurchaseRepository {
	r := &PurchaseRepository{pool: pool}
	for _, opt := range opts {
		opt(&r.cfg)
	}
	return r
}

func (r *PurchaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return mapTxErr(withTx(ctx, r.pool, r.cfg.lockTimeoutMS, fn))
}

func (r *PurchaseRepository) GetProductForUpdate(ctx context.Context, productID string) (domain.Product, error) {
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

func (r *PurchaseRepository) EnsureUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, name, balance, created_at)
VALUES ($1, $2, 0, $3)
ON CONFLICT (id) DO NOTHING`

	_, err := r.exec(ctx, stmt, user.ID, user.Name, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// ReserveKey flips the oldest unsold key of a product to sold and returns it.
// Selection and update are one statement and the inner SELECT takes the row
// lock with SKIP LOCKED, so two transactions can never both claim the same
// key: a competitor moves on to the next unsold row instead of re-reading a
// row that is about to become sold.
func (r *PurchaseRepository) ReserveKey(ctx context.Context, productID string) (domain.ProductKey, error) {
	const stmt = `
UPDATE product_keys
SET sold = TRUE
WHERE id = (
	SELECT id
	FROM product_keys
	WHERE product_id = $1 AND NOT sold
	ORDER BY seq ASC
	LIMIT 1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, product_id, payload, sold, created_at`

	var k domain.ProductKey
	err := r.queryRow(ctx, stmt, productID).
		Scan(&k.ID, &k.ProductID, &k.Payload, &k.Sold, &k.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ProductKey{}, domain.ErrInvalidID
		}
		if isLockTimeout(err) {
			return domain.ProductKey{}, domain.ErrStoreBusy
		}
		if err == pgx.ErrNoRows {
			return domain.ProductKey{}, domain.ErrOutOfStock
		}
		return domain.ProductKey{}, fmt.Errorf("reserve key: %w", err)
	}
	return k, nil
}

func (r *PurchaseRepository) CreatePurchase(ctx context.Context, purchase domain.Purchase) error {
	const stmt = `
INSERT INTO purchases (id, user_id, product_id, key_id, price, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		purchase.ID,
		purchase.UserID,
		purchase.ProductID,
		purchase.KeyID,
		purchase.Price,
		purchase.CreatedAt,
	)
	if err != nil {
		// Two ledger rows for one key means a double-sale slipped past the
		// row lock; surface it as the bug it is.
		if isUniqueViolation(err) {
			return fmt.Errorf("purchase for key %s: %w", purchase.KeyID, domain.ErrInvariantViolation)
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) ListPurchasesByUser(ctx context.Context, userID string) ([]domain.Purchase, error) {
	const query = `
SELECT pur.id, pur.user_id, pur.product_id, pur.key_id, COALESCE(p.name, ''), pur.price, pur.created_at
FROM purchases pur
LEFT JOIN products p ON p.id = pur.product_id
WHERE pur.user_id = $1
ORDER BY pur.created_at DESC, pur.id DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		var pur domain.Purchase
		if err := rows.Scan(&pur.ID, &pur.UserID, &pur.ProductID, &pur.KeyID, &pur.ProductName, &pur.Price, &pur.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, pur)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate purchases: %w", rows.Err())
	}
	return purchases, nil
}

func (r *PurchaseRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PurchaseRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *PurchaseRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
