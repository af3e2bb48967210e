package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/events"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/studentid"
)

// Transfer precondition failures.
var (
	ErrNoOpTransfer        = errors.New("source and destination class are the same")
	ErrTargetClassInactive = errors.New("destination class is not active")
)

// StaleClassReferenceError reports that the learner is not in the class the
// caller thinks it is — usually because a concurrent operation already moved
// it. The caller should refresh its view and decide deliberately whether to
// retry.
type StaleClassReferenceError struct {
	LearnerID       int
	ExpectedClassID int
	ActualClassID   int
}

func (e *StaleClassReferenceError) Error() string {
	return fmt.Sprintf("learner %d is in class %d, not the expected class %d",
		e.LearnerID, e.ActualClassID, e.ExpectedClassID)
}

// TransferService moves learners between classes. Each transfer runs
// Requested -> Validating -> Committing -> Committed|Aborted; the commit is a
// single transaction, and an aborted transfer leaves no partial count
// adjustment behind. The service never retries a failed transfer on its own:
// after an ambiguous failure an automatic retry could double-count.
type TransferService struct {
	pool         *pgxpool.Pool
	learnerRepo  *repository.LearnerRepository
	classRepo    *repository.ClassRepository
	transferRepo *repository.TransferRepository
	ids          *StudentIDService
	stats        *StatsService
	hub          *events.Hub
	log          zerolog.Logger
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	pool *pgxpool.Pool,
	learnerRepo *repository.LearnerRepository,
	classRepo *repository.ClassRepository,
	transferRepo *repository.TransferRepository,
	ids *StudentIDService,
	stats *StatsService,
	hub *events.Hub,
	log zerolog.Logger,
) *TransferService {
	return &TransferService{
		pool:         pool,
		learnerRepo:  learnerRepo,
		classRepo:    classRepo,
		transferRepo: transferRepo,
		ids:          ids,
		stats:        stats,
		hub:          hub,
		log:          log.With().Str("component", "transfer_service").Logger(),
	}
}

// validateTransfer checks the transfer preconditions against the locked rows.
func validateTransfer(l *model.Learner, expectedFromID int, to *model.Class) error {
	if l.ClassID != expectedFromID {
		return &StaleClassReferenceError{
			LearnerID:       l.ID,
			ExpectedClassID: expectedFromID,
			ActualClassID:   l.ClassID,
		}
	}
	if l.Status != model.StatusActive {
		return ErrLearnerNotActive
	}
	if !to.IsActive {
		return ErrTargetClassInactive
	}
	return nil
}

// Transfer moves a learner from one class to another. Under policy=reissue a
// fresh student ID is allocated in the destination class's scope inside the
// same transaction; under policy=preserve the ID is untouched. Exactly one
// immutable TransferRecord is written per committed transfer.
func (s *TransferService) Transfer(ctx context.Context, learnerID int, req model.TransferRequest, performedBy string) (*model.TransferRecord, error) {
	if req.ToClassID == req.FromClassID {
		return nil, ErrNoOpTransfer
	}

	var rec *model.TransferRecord

	err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		l, err := s.learnerRepo.GetForUpdate(ctx, tx, learnerID)
		if err != nil {
			return err
		}

		// Lock both classes in ascending ID order so crossing transfers
		// cannot deadlock.
		firstID, secondID := req.FromClassID, req.ToClassID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.classRepo.GetForUpdate(ctx, tx, firstID)
		if err != nil {
			return err
		}
		second, err := s.classRepo.GetForUpdate(ctx, tx, secondID)
		if err != nil {
			return err
		}
		from, to := first, second
		if from.ID != req.FromClassID {
			from, to = second, first
		}

		if err := validateTransfer(l, req.FromClassID, to); err != nil {
			return err
		}

		if err := s.classRepo.AdjustCount(ctx, tx, from.ID, -1); err != nil {
			return err
		}
		if err := s.classRepo.AdjustCount(ctx, tx, to.ID, 1); err != nil {
			return err
		}

		var newID *string
		if req.Policy == model.PolicyReissue {
			scope := studentid.ScopeFor(to.Descriptor(), to.Year)
			seq, err := s.ids.ReserveIn(ctx, tx, scope, 1)
			if err != nil {
				return err
			}
			id := studentid.Format(scope, seq)
			newID = &id
		}

		moved, err := s.learnerRepo.Move(ctx, tx, l.ID, req.FromClassID, req.ToClassID, newID)
		if err != nil {
			return err
		}
		if !moved {
			// Unreachable while we hold the learner row lock; kept as a
			// guard against the lock being loosened later.
			return &StaleClassReferenceError{
				LearnerID:       l.ID,
				ExpectedClassID: req.FromClassID,
				ActualClassID:   l.ClassID,
			}
		}

		rec = &model.TransferRecord{
			LearnerID:    l.ID,
			FromClassID:  req.FromClassID,
			ToClassID:    req.ToClassID,
			OldStudentID: l.StudentID,
			NewStudentID: newID,
			PerformedBy:  performedBy,
		}
		return s.transferRepo.Insert(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	s.hub.Publish(events.LearnerTransferred, map[string]any{
		"learner_id":    rec.LearnerID,
		"from_class_id": rec.FromClassID,
		"to_class_id":   rec.ToClassID,
		"reissued":      rec.NewStudentID != nil,
	})
	s.log.Info().
		Int("learner_id", rec.LearnerID).
		Int("from_class_id", rec.FromClassID).
		Int("to_class_id", rec.ToClassID).
		Str("policy", string(req.Policy)).
		Str("performed_by", performedBy).
		Msg("Learner transferred")
	return rec, nil
}

// History retrieves the audit trail for one learner, oldest first.
func (s *TransferService) History(ctx context.Context, learnerID int) ([]model.TransferRecord, error) {
	records, err := s.transferRepo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.TransferRecord{}
	}
	return records, nil
}
