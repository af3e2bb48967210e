package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scholark/scholark-backend/internal/model"
)

// ErrDuplicateClass is returned when a class with the same (year, type,
// level, section) already exists.
var ErrDuplicateClass = errors.New("class with this name and year already exists")

const classColumns = `id, name, year, class_type, level, section, is_active, student_count, teacher_ids, created_at, updated_at`

// ClassRepository handles class data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row interface{ Scan(...any) error }) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Year, &c.Type, &c.Level, &c.Section,
		&c.IsActive, &c.StudentCount, &c.TeacherIDs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// GetForUpdate retrieves a class inside a transaction, taking a row lock so
// concurrent count adjustments serialize.
func (r *ClassRepository) GetForUpdate(ctx context.Context, q Querier, id int) (*model.Class, error) {
	return scanClass(q.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1 FOR UPDATE`, id))
}

// List retrieves all classes, newest cohorts first.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes ORDER BY year DESC, class_type, level, section`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, year, class_type, level, section, teacher_ids)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, is_active, student_count, created_at, updated_at`,
		c.Name, c.Year, c.Type, c.Level, c.Section, c.TeacherIDs,
	).Scan(&c.ID, &c.IsActive, &c.StudentCount, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClass
		}
		return err
	}
	return nil
}

// Update modifies a class's name parts, year, teachers and active flag.
// Student counts are never written through this path.
func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE classes
		 SET name = $1, year = $2, class_type = $3, level = $4, section = $5,
		     teacher_ids = $6, is_active = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		c.Name, c.Year, c.Type, c.Level, c.Section, c.TeacherIDs, c.IsActive, c.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClass
		}
	}
	return err
}

// AdjustCount moves the denormalized student count by delta. Must run inside
// the same transaction as the learner write it accounts for; the CHECK
// constraint on the column rejects drops below zero.
func (r *ClassRepository) AdjustCount(ctx context.Context, q Querier, classID, delta int) error {
	tag, err := q.Exec(ctx,
		`UPDATE classes SET student_count = student_count + $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2`, delta, classID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("class not found for count adjustment")
	}
	return nil
}

// RecountActive recomputes the active-learner count from scratch. Used by the
// recount worker and tests to verify the denormalized counter, never to
// maintain it.
func (r *ClassRepository) RecountActive(ctx context.Context, q Querier, classID int) (int, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM learners WHERE class_id = $1 AND status = 'active'`, classID,
	).Scan(&n)
	return n, err
}
