package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxTxAttempts = 5
	txBackoffBase = 25 * time.Millisecond
)

// ErrTxRetriesExhausted is returned when a transaction could not commit after
// the bounded number of conflict retries. The failed attempt left no writes
// behind; the caller decides whether to retry the business operation.
var ErrTxRetriesExhausted = errors.New("transaction could not commit after retries")

// WithTx runs fn inside a single transaction against the pool. Serialization
// failures and deadlocks are retried with exponential backoff, up to
// maxTxAttempts; any other error aborts immediately. Business-level retries
// are never performed here.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	var lastErr error

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if attempt > 0 {
			backoff := txBackoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		lastErr = pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{}, fn)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w: %v", ErrTxRetriesExhausted, lastErr)
}

// retryable reports whether the error is a transient conflict worth retrying:
// serialization_failure (40001) or deadlock_detected (40P01).
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
