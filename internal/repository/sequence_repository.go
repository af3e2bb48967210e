package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/scholark/scholark-backend/internal/studentid"
)

// SequenceRepository allocates sequence numbers from the durable per-scope
// counters backing student ID issuance.
//
// The counter is only ever advanced inside the same transaction as the writes
// that depend on the allocated numbers — never pre-fetched and reused across
// transactions. Deriving "next number" by counting learner rows is racy under
// concurrent inserts and deliberately has no code path here.
type SequenceRepository struct{}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

// Reserve atomically advances the counter for scope by count and returns the
// first sequence number of the reserved contiguous range [first, first+count).
// The upsert either creates the counter row or bumps it; either way the
// RETURNING value is this caller's allocation, invisible to concurrent
// reservations.
func (r *SequenceRepository) Reserve(ctx context.Context, q Querier, scope studentid.Scope, count int) (int64, error) {
	var last int64
	err := q.QueryRow(ctx,
		`INSERT INTO sequence_counters (year, class_type, level, section, last_value)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (year, class_type, level, section)
		 DO UPDATE SET last_value = sequence_counters.last_value + $5, updated_at = CURRENT_TIMESTAMP
		 RETURNING last_value`,
		scope.Year, scope.Type, scope.Level, scope.Section, count,
	).Scan(&last)
	if err != nil {
		return 0, err
	}
	return last - int64(count) + 1, nil
}

// Current returns the last issued sequence number for a scope, or zero when
// nothing has been issued yet. Read-only; used by diagnostics.
func (r *SequenceRepository) Current(ctx context.Context, q Querier, scope studentid.Scope) (int64, error) {
	var last int64
	err := q.QueryRow(ctx,
		`SELECT last_value FROM sequence_counters
		 WHERE year = $1 AND class_type = $2 AND level = $3 AND section = $4`,
		scope.Year, scope.Type, scope.Level, scope.Section,
	).Scan(&last)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last, nil
}
