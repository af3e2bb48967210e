package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholark/scholark-backend/internal/model"
)

// ErrDuplicateStudentID is returned when an insert collides on the unique
// student_id column. With counter-backed issuance this indicates a bug or a
// manually tampered row, so it is surfaced rather than swallowed.
var ErrDuplicateStudentID = errors.New("learner with this student id already exists")

const learnerColumns = `id, student_id, class_id, status, name, guardian, contact, age, enrollment_date, created_at, updated_at`

// LearnerRepository handles learner data access.
type LearnerRepository struct {
	pool *pgxpool.Pool
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(pool *pgxpool.Pool) *LearnerRepository {
	return &LearnerRepository{pool: pool}
}

func scanLearner(row interface{ Scan(...any) error }) (*model.Learner, error) {
	l := &model.Learner{}
	err := row.Scan(&l.ID, &l.StudentID, &l.ClassID, &l.Status, &l.Name,
		&l.Guardian, &l.Contact, &l.Age, &l.EnrollmentDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetByID retrieves a learner by its opaque record ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id int) (*model.Learner, error) {
	return scanLearner(r.pool.QueryRow(ctx,
		`SELECT `+learnerColumns+` FROM learners WHERE id = $1`, id))
}

// GetByStudentID retrieves a learner by the external student identifier.
func (r *LearnerRepository) GetByStudentID(ctx context.Context, studentID string) (*model.Learner, error) {
	return scanLearner(r.pool.QueryRow(ctx,
		`SELECT `+learnerColumns+` FROM learners WHERE student_id = $1`, studentID))
}

// GetForUpdate retrieves a learner inside a transaction with a row lock, so a
// concurrent transfer or removal cannot slip between read and write.
func (r *LearnerRepository) GetForUpdate(ctx context.Context, q Querier, id int) (*model.Learner, error) {
	return scanLearner(q.QueryRow(ctx,
		`SELECT `+learnerColumns+` FROM learners WHERE id = $1 FOR UPDATE`, id))
}

// ListByClass retrieves learners of a class with pagination and an optional
// status filter.
func (r *LearnerRepository) ListByClass(ctx context.Context, classID int, status *model.LearnerStatus, limit, offset int) ([]model.Learner, int, error) {
	countQuery := `SELECT COUNT(*) FROM learners WHERE class_id = $1`
	countArgs := []any{classID}
	if status != nil {
		countQuery += ` AND status = $2`
		countArgs = append(countArgs, *status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + learnerColumns + ` FROM learners WHERE class_id = $1`
	args := []any{classID}
	argIdx := 2
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
		argIdx++
	}
	query += ` ORDER BY student_id LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var learners []model.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, 0, err
		}
		learners = append(learners, *l)
	}
	return learners, total, rows.Err()
}

// Insert writes a new learner row. Runs inside the enroll transaction.
func (r *LearnerRepository) Insert(ctx context.Context, q Querier, l *model.Learner) error {
	err := q.QueryRow(ctx,
		`INSERT INTO learners (student_id, class_id, status, name, guardian, contact, age, enrollment_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		l.StudentID, l.ClassID, l.Status, l.Name, l.Guardian, l.Contact, l.Age, l.EnrollmentDate,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentID
		}
		return err
	}
	return nil
}

// BulkInsert writes a batch of learner rows in one statement via UNNEST.
// All rows land or none do; runs inside the import transaction.
func (r *LearnerRepository) BulkInsert(ctx context.Context, q Querier, learners []model.Learner) error {
	n := len(learners)
	if n == 0 {
		return nil
	}

	studentIDs := make([]string, n)
	classIDs := make([]int, n)
	names := make([]string, n)
	guardians := make([]string, n)
	contacts := make([]string, n)
	ages := make([]*int, n)
	enrollDates := make([]time.Time, n)

	for i, l := range learners {
		studentIDs[i] = l.StudentID
		classIDs[i] = l.ClassID
		names[i] = l.Name
		guardians[i] = l.Guardian
		contacts[i] = l.Contact
		ages[i] = l.Age
		enrollDates[i] = l.EnrollmentDate
	}

	rows, err := q.Query(ctx,
		`INSERT INTO learners (student_id, class_id, status, name, guardian, contact, age, enrollment_date)
		 SELECT u.student_id, u.class_id, 'active', u.name, u.guardian, u.contact, u.age, u.enrollment_date
		 FROM UNNEST(
		     $1::text[],
		     $2::int[],
		     $3::text[],
		     $4::text[],
		     $5::text[],
		     $6::int[],
		     $7::date[]
		 ) AS u (student_id, class_id, name, guardian, contact, age, enrollment_date)
		 ORDER BY u.student_id
		 RETURNING id, created_at, updated_at`,
		studentIDs, classIDs, names, guardians, contacts, ages, enrollDates,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&learners[i].ID, &learners[i].CreatedAt, &learners[i].UpdatedAt); err != nil {
			return err
		}
		learners[i].Status = model.StatusActive
	}
	return rows.Err()
}

// SetStatus transitions a learner's lifecycle state. Runs inside the remove
// transaction.
func (r *LearnerRepository) SetStatus(ctx context.Context, q Querier, id int, status model.LearnerStatus) error {
	_, err := q.Exec(ctx,
		`UPDATE learners SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id)
	return err
}

// Move reassigns a learner to a new class, guarded by the expected current
// class. Returns false when the guard did not match (the learner was moved
// concurrently). When newStudentID is non-nil the identifier is re-issued in
// the same statement.
func (r *LearnerRepository) Move(ctx context.Context, q Querier, id, fromClassID, toClassID int, newStudentID *string) (bool, error) {
	tag, err := q.Exec(ctx,
		`UPDATE learners
		 SET class_id = $1,
		     student_id = COALESCE($2, student_id),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3 AND class_id = $4`,
		toClassID, newStudentID, id, fromClassID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateDescriptive patches descriptive fields only. Identity fields have no
// parameters in this statement by construction.
func (r *LearnerRepository) UpdateDescriptive(ctx context.Context, id int, p model.LearnerPatch) (*model.Learner, error) {
	return scanLearner(r.pool.QueryRow(ctx,
		`UPDATE learners
		 SET name     = COALESCE($1, name),
		     guardian = COALESCE($2, guardian),
		     contact  = COALESCE($3, contact),
		     age      = COALESCE($4, age),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING `+learnerColumns,
		p.Name, p.Guardian, p.Contact, p.Age, id))
}
