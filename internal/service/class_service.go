package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/scholark/scholark-backend/internal/classname"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
)

// ClassService handles class management.
type ClassService struct {
	classRepo *repository.ClassRepository
	stats     *StatsService
	log       zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classRepo *repository.ClassRepository, stats *StatsService, log zerolog.Logger) *ClassService {
	return &ClassService{
		classRepo: classRepo,
		stats:     stats,
		log:       log.With().Str("component", "class_service").Logger(),
	}
}

// GetByID retrieves a class by its ID.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return s.classRepo.GetByID(ctx, id)
}

// List retrieves all classes.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	return s.classRepo.List(ctx)
}

// Create parses the human-entered name, canonicalizes it, and persists the
// class with its structured descriptor. The request validator has already
// checked the name format and level band.
func (s *ClassService) Create(ctx context.Context, req model.CreateClassRequest) (*model.Class, error) {
	d, err := classname.Parse(req.Name)
	if err != nil {
		return nil, err
	}

	teacherIDs := req.TeacherIDs
	if teacherIDs == nil {
		teacherIDs = []int64{}
	}

	class := &model.Class{
		Name:       d.Canonical(),
		Year:       req.Year,
		Type:       d.Type,
		Level:      d.Level,
		Section:    d.Section,
		TeacherIDs: teacherIDs,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	s.log.Info().Int("class_id", class.ID).Str("name", class.Name).Int("year", class.Year).Msg("Class created")
	return class, nil
}

// Update modifies an existing class. Deactivating a class only blocks future
// enrollments and transfers into it; learners already in it are untouched.
func (s *ClassService) Update(ctx context.Context, id int, req model.UpdateClassRequest) (*model.Class, error) {
	d, err := classname.Parse(req.Name)
	if err != nil {
		return nil, err
	}

	current, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = d.Canonical()
	current.Year = req.Year
	current.Type = d.Type
	current.Level = d.Level
	current.Section = d.Section
	if req.TeacherIDs != nil {
		current.TeacherIDs = req.TeacherIDs
	}
	current.IsActive = *req.IsActive

	if err := s.classRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx)
	return s.classRepo.GetByID(ctx, id)
}
