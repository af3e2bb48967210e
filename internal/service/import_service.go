package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/events"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/studentid"
)

// RowFailure is one rejected import row. Row numbers are 1-based so they line
// up with how staff count lines in their spreadsheet.
type RowFailure struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult is what a bulk import hands back: everything persisted plus a
// parallel account of every row that was not.
type ImportResult struct {
	Issued     []model.Learner `json:"issued"`
	StudentIDs []string        `json:"student_ids"`
	Failures   []RowFailure    `json:"failures"`
}

// ImportService applies the ID generator across a batch of externally-parsed
// rows. Rows that fail validation never consume a sequence number; the valid
// subset commits in one transaction or not at all, so the returned StudentIDs
// list is exactly what was persisted.
type ImportService struct {
	pool        *pgxpool.Pool
	learnerRepo *repository.LearnerRepository
	classRepo   *repository.ClassRepository
	ids         *StudentIDService
	validate    *govalidator.Validate
	stats       *StatsService
	hub         *events.Hub
	log         zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	pool *pgxpool.Pool,
	learnerRepo *repository.LearnerRepository,
	classRepo *repository.ClassRepository,
	ids *StudentIDService,
	stats *StatsService,
	hub *events.Hub,
	log zerolog.Logger,
) *ImportService {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ImportService{
		pool:        pool,
		learnerRepo: learnerRepo,
		classRepo:   classRepo,
		ids:         ids,
		validate:    v,
		stats:       stats,
		hub:         hub,
		log:         log.With().Str("component", "import_service").Logger(),
	}
}

const (
	importMinAge = 4
	importMaxAge = 30
)

// validateRows checks every row and coerces types before any sequence number
// is touched. Returns learner prototypes for the valid rows (in input order)
// and failures for the rest.
func (s *ImportService) validateRows(rows []model.ImportRow) ([]model.Learner, []RowFailure) {
	protos := make([]model.Learner, 0, len(rows))
	failures := []RowFailure{}

	for i, row := range rows {
		rowNum := i + 1

		if err := s.validate.Struct(row); err != nil {
			failures = append(failures, RowFailure{Row: rowNum, Error: rowError(err)})
			continue
		}

		var age *int
		if row.Age != "" {
			n, err := row.Age.Int64()
			if err != nil {
				failures = append(failures, RowFailure{Row: rowNum, Error: fmt.Sprintf("age: %q is not an integer", row.Age.String())})
				continue
			}
			if n < importMinAge || n > importMaxAge {
				failures = append(failures, RowFailure{Row: rowNum, Error: fmt.Sprintf("age: %d is outside %d-%d", n, importMinAge, importMaxAge)})
				continue
			}
			v := int(n)
			age = &v
		}

		protos = append(protos, model.Learner{
			Name:     strings.TrimSpace(row.Name),
			Guardian: strings.TrimSpace(row.Guardian),
			Contact:  strings.TrimSpace(row.Contact),
			Age:      age,
		})
	}

	return protos, failures
}

// rowError flattens a validation error into one human-readable line.
func rowError(err error) string {
	ve, ok := err.(govalidator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// ImportBatch enrolls the valid subset of rows into a class. One contiguous
// sequence range covers the whole subset; the learner rows and the single
// count increment commit together or not at all.
func (s *ImportService) ImportBatch(ctx context.Context, classID int, rows []model.ImportRow, performedBy string) (*ImportResult, error) {
	protos, failures := s.validateRows(rows)

	result := &ImportResult{
		Issued:     []model.Learner{},
		StudentIDs: []string{},
		Failures:   failures,
	}
	if len(protos) == 0 {
		return result, nil
	}

	now := time.Now().UTC()
	err := repository.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		class, err := s.classRepo.GetForUpdate(ctx, tx, classID)
		if err != nil {
			return err
		}
		if !class.IsActive {
			return ErrClassInactive
		}

		scope := studentid.ScopeFor(class.Descriptor(), class.Year)
		first, err := s.ids.ReserveIn(ctx, tx, scope, len(protos))
		if err != nil {
			return err
		}

		for i := range protos {
			protos[i].StudentID = studentid.Format(scope, first+int64(i))
			protos[i].ClassID = classID
			protos[i].Status = model.StatusActive
			protos[i].EnrollmentDate = now
		}

		if err := s.learnerRepo.BulkInsert(ctx, tx, protos); err != nil {
			return err
		}
		return s.classRepo.AdjustCount(ctx, tx, classID, len(protos))
	})
	if err != nil {
		return nil, err
	}

	result.Issued = protos
	for _, l := range protos {
		result.StudentIDs = append(result.StudentIDs, l.StudentID)
	}

	s.stats.Invalidate(ctx)
	s.hub.Publish(events.ImportCompleted, map[string]any{
		"class_id": classID,
		"imported": len(protos),
		"rejected": len(failures),
	})
	s.log.Info().
		Int("class_id", classID).
		Int("imported", len(protos)).
		Int("rejected", len(failures)).
		Str("performed_by", performedBy).
		Msg("Bulk import committed")
	return result, nil
}
