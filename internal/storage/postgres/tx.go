package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nyckye/keyshop/internal/domain"
)

type txKey struct{}

type repoConfig struct {
	lockTimeoutMS int
}

// RepositoryOption configures behavior shared by the repositories in this
// package.
type RepositoryOption func(*repoConfig)

// WithLockTimeout bounds how long a write transaction waits on a row lock.
func WithLockTimeout(d time.Duration) RepositoryOption {
	return func(c *repoConfig) {
		if d > 0 {
			c.lockTimeoutMS = int(d.Milliseconds())
		}
	}
}

// defaultLockTimeoutMS bounds how long a transaction waits on a row lock
// before failing with a retryable error instead of hanging.
const defaultLockTimeoutMS = 250

func withTx(ctx context.Context, pool *pgxpool.Pool, lockTimeoutMS int, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	if lockTimeoutMS <= 0 {
		lockTimeoutMS = defaultLockTimeoutMS
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeoutMS)); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("set lock timeout: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

// mapTxErr catches lock-timeout failures that surface at commit rather than
// from a statement inside the transaction body.
func mapTxErr(err error) error {
	if err == nil {
		return nil
	}
	if isLockTimeout(err) {
		return domain.ErrStoreBusy
	}
	return err
}
