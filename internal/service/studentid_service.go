package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholark/scholark-backend/internal/classname"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/studentid"
)

// ErrCounterUnavailable is returned when the sequence counter's atomic
// increment could not commit within the bounded retry budget. The operation
// was not partially applied; there is no non-atomic fallback.
var ErrCounterUnavailable = errors.New("student id counter unavailable")

// StudentIDService issues student identifiers from the durable per-scope
// counters. Both the enrollment paths and the transfer protocol allocate
// through it.
type StudentIDService struct {
	pool    *pgxpool.Pool
	seqRepo *repository.SequenceRepository
}

// NewStudentIDService creates a new StudentIDService.
func NewStudentIDService(pool *pgxpool.Pool, seqRepo *repository.SequenceRepository) *StudentIDService {
	return &StudentIDService{pool: pool, seqRepo: seqRepo}
}

// Issue allocates the next identifier for a class descriptor and cohort year.
func (s *StudentIDService) Issue(ctx context.Context, d classname.Descriptor, year int) (string, error) {
	ids, err := s.IssueBatch(ctx, d, year, 1)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// IssueBatch reserves a contiguous range of count sequence numbers in one
// atomic operation and returns the formatted identifiers in order.
func (s *StudentIDService) IssueBatch(ctx context.Context, d classname.Descriptor, year, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("issue batch: count must be positive, got %d", count)
	}

	scope := studentid.ScopeFor(d, year)

	var first int64
	err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		first, err = s.seqRepo.Reserve(ctx, tx, scope, count)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrTxRetriesExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
		}
		return nil, err
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = studentid.Format(scope, first+int64(i))
	}
	return ids, nil
}

// ReserveIn allocates a range inside an existing transaction, so the counter
// moves atomically with the writes that depend on the numbers. Returns the
// first sequence number of the range.
func (s *StudentIDService) ReserveIn(ctx context.Context, tx pgx.Tx, scope studentid.Scope, count int) (int64, error) {
	return s.seqRepo.Reserve(ctx, tx, scope, count)
}
