package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholark/scholark-backend/internal/model"
)

// TransferRepository handles the immutable transfer audit trail. Records are
// inserted once and never updated or deleted.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Insert writes the audit record. Runs inside the transfer transaction so the
// record exists exactly when the move is observable.
func (r *TransferRepository) Insert(ctx context.Context, q Querier, t *model.TransferRecord) error {
	return q.QueryRow(ctx,
		`INSERT INTO transfer_records (learner_id, from_class_id, to_class_id, old_student_id, new_student_id, performed_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		t.LearnerID, t.FromClassID, t.ToClassID, t.OldStudentID, t.NewStudentID, t.PerformedBy,
	).Scan(&t.ID, &t.CreatedAt)
}

// ListByLearner retrieves a learner's transfer history, oldest first.
func (r *TransferRepository) ListByLearner(ctx context.Context, learnerID int) ([]model.TransferRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, learner_id, from_class_id, to_class_id, old_student_id, new_student_id, performed_by, created_at
		 FROM transfer_records WHERE learner_id = $1 ORDER BY created_at, id`, learnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.TransferRecord
	for rows.Next() {
		var t model.TransferRecord
		if err := rows.Scan(&t.ID, &t.LearnerID, &t.FromClassID, &t.ToClassID,
			&t.OldStudentID, &t.NewStudentID, &t.PerformedBy, &t.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, t)
	}
	return records, rows.Err()
}
