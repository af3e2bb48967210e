package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/events"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/response"
	"github.com/scholark/scholark-backend/internal/studentid"
)

// Common learner-path errors.
var (
	ErrClassInactive    = errors.New("class is not active")
	ErrLearnerNotActive = errors.New("learner is not active")
)

// ImmutableFieldError reports an attempt to change an identity field through
// a descriptive update. Identity fields move only through enroll, remove and
// transfer; this is a programming-contract violation, never retried.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %q cannot be changed through a descriptive update", e.Field)
}

// immutableFields are the JSON keys a descriptive patch must not carry, in
// reporting order.
var immutableFields = []string{"id", "student_id", "class_id", "status", "enrollment_date"}

// ParsePatch decodes a raw descriptive-update payload, rejecting any attempt
// to set an identity field. The returned LearnerPatch cannot represent
// identity fields at all; this check exists so such attempts fail loudly
// instead of being silently dropped.
func ParsePatch(raw []byte) (model.LearnerPatch, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return model.LearnerPatch{}, fmt.Errorf("decode patch: %w", err)
	}

	for _, f := range immutableFields {
		if _, ok := keys[f]; ok {
			return model.LearnerPatch{}, &ImmutableFieldError{Field: f}
		}
	}

	var patch model.LearnerPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return model.LearnerPatch{}, fmt.Errorf("decode patch: %w", err)
	}
	return patch, nil
}

// LearnerService is the transactional boundary for learner records: it issues
// student IDs, writes learner rows, and keeps the class aggregate counts in
// step — all inside single atomic transactions.
type LearnerService struct {
	pool        *pgxpool.Pool
	learnerRepo *repository.LearnerRepository
	classRepo   *repository.ClassRepository
	ids         *StudentIDService
	stats       *StatsService
	hub         *events.Hub
	log         zerolog.Logger
}

// NewLearnerService creates a new LearnerService.
func NewLearnerService(
	pool *pgxpool.Pool,
	learnerRepo *repository.LearnerRepository,
	classRepo *repository.ClassRepository,
	ids *StudentIDService,
	stats *StatsService,
	hub *events.Hub,
	log zerolog.Logger,
) *LearnerService {
	return &LearnerService{
		pool:        pool,
		learnerRepo: learnerRepo,
		classRepo:   classRepo,
		ids:         ids,
		stats:       stats,
		hub:         hub,
		log:         log.With().Str("component", "learner_service").Logger(),
	}
}

// GetByID retrieves a learner by its opaque record ID.
func (s *LearnerService) GetByID(ctx context.Context, id int) (*model.Learner, error) {
	return s.learnerRepo.GetByID(ctx, id)
}

// GetByStudentID retrieves a learner by the printed student identifier.
func (s *LearnerService) GetByStudentID(ctx context.Context, studentID string) (*model.Learner, error) {
	return s.learnerRepo.GetByStudentID(ctx, studentID)
}

// ListByClass retrieves a class roster with pagination and optional status
// filter.
func (s *LearnerService) ListByClass(ctx context.Context, classID int, status *model.LearnerStatus, page, perPage int) ([]model.Learner, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	learners, total, err := s.learnerRepo.ListByClass(ctx, classID, status, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if learners == nil {
		learners = []model.Learner{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return learners, pagination, nil
}

// Enroll creates a learner in a class: one transaction issues the student ID,
// writes the record with status=active, and increments the class count. If
// any step fails the whole transaction rolls back — no learner without a
// count bump, no count bump without a learner.
func (s *LearnerService) Enroll(ctx context.Context, classID int, req model.EnrollLearnerRequest) (*model.Learner, error) {
	var learner *model.Learner

	err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		class, err := s.classRepo.GetForUpdate(ctx, tx, classID)
		if err != nil {
			return err
		}
		if !class.IsActive {
			return ErrClassInactive
		}

		scope := studentid.ScopeFor(class.Descriptor(), class.Year)
		seq, err := s.ids.ReserveIn(ctx, tx, scope, 1)
		if err != nil {
			return err
		}

		learner = &model.Learner{
			StudentID:      studentid.Format(scope, seq),
			ClassID:        classID,
			Status:         model.StatusActive,
			Name:           req.Name,
			Guardian:       req.Guardian,
			Contact:        req.Contact,
			Age:            req.Age,
			EnrollmentDate: time.Now().UTC(),
		}
		if err := s.learnerRepo.Insert(ctx, tx, learner); err != nil {
			return err
		}
		return s.classRepo.AdjustCount(ctx, tx, classID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	s.hub.Publish(events.LearnerEnrolled, map[string]any{
		"learner_id": learner.ID,
		"student_id": learner.StudentID,
		"class_id":   learner.ClassID,
	})
	s.log.Info().Int("learner_id", learner.ID).Str("student_id", learner.StudentID).Msg("Learner enrolled")
	return learner, nil
}

// Remove transitions a learner out of active status and decrements the class
// count atomically. Records are never physically deleted.
func (s *LearnerService) Remove(ctx context.Context, learnerID int, to model.LearnerStatus) error {
	if to == model.StatusActive || !to.Valid() {
		return fmt.Errorf("invalid removal status %q", to)
	}

	var classID int
	err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		l, err := s.learnerRepo.GetForUpdate(ctx, tx, learnerID)
		if err != nil {
			return err
		}
		if l.Status != model.StatusActive {
			return ErrLearnerNotActive
		}
		classID = l.ClassID

		if err := s.learnerRepo.SetStatus(ctx, tx, learnerID, to); err != nil {
			return err
		}
		return s.classRepo.AdjustCount(ctx, tx, l.ClassID, -1)
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx)
	s.hub.Publish(events.LearnerRemoved, map[string]any{
		"learner_id": learnerID,
		"class_id":   classID,
		"status":     to,
	})
	s.log.Info().Int("learner_id", learnerID).Str("status", string(to)).Msg("Learner removed")
	return nil
}

// UpdateDescriptive patches descriptive fields only. The raw payload is
// inspected first so attempts to set student_id or class_id fail with
// ImmutableFieldError instead of being ignored.
func (s *LearnerService) UpdateDescriptive(ctx context.Context, learnerID int, raw []byte) (*model.Learner, error) {
	patch, err := ParsePatch(raw)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.learnerRepo.GetByID(ctx, learnerID)
	}
	return s.learnerRepo.UpdateDescriptive(ctx, learnerID, patch)
}
