package service

import (
	"errors"
	"testing"

	"github.com/scholark/scholark-backend/internal/classname"
	"github.com/scholark/scholark-backend/internal/model"
)

func activeLearner(id, classID int) *model.Learner {
	return &model.Learner{
		ID:        id,
		StudentID: "Y2025-G8A-0001",
		ClassID:   classID,
		Status:    model.StatusActive,
	}
}

func testClass(id int, active bool) *model.Class {
	return &model.Class{
		ID:       id,
		Name:     "Grade 8B",
		Year:     2025,
		Type:     classname.TypeGrade,
		Level:    8,
		Section:  "B",
		IsActive: active,
	}
}

func TestValidateTransferPasses(t *testing.T) {
	if err := validateTransfer(activeLearner(1, 10), 10, testClass(11, true)); err != nil {
		t.Errorf("valid transfer rejected: %v", err)
	}
}

func TestValidateTransferStaleClassReference(t *testing.T) {
	// The learner was already moved to class 12 by someone else.
	err := validateTransfer(activeLearner(1, 12), 10, testClass(11, true))

	var stale *StaleClassReferenceError
	if !errors.As(err, &stale) {
		t.Fatalf("want StaleClassReferenceError, got %v", err)
	}
	if stale.ExpectedClassID != 10 || stale.ActualClassID != 12 {
		t.Errorf("stale reference context wrong: %+v", stale)
	}
}

func TestValidateTransferInactiveTarget(t *testing.T) {
	err := validateTransfer(activeLearner(1, 10), 10, testClass(11, false))
	if !errors.Is(err, ErrTargetClassInactive) {
		t.Errorf("want ErrTargetClassInactive, got %v", err)
	}
}

func TestValidateTransferInactiveLearner(t *testing.T) {
	l := activeLearner(1, 10)
	l.Status = model.StatusGraduated

	err := validateTransfer(l, 10, testClass(11, true))
	if !errors.Is(err, ErrLearnerNotActive) {
		t.Errorf("want ErrLearnerNotActive, got %v", err)
	}
}

func TestValidateTransferChecksStalenessBeforeTarget(t *testing.T) {
	// Both preconditions fail; staleness wins so the caller refreshes its
	// view before worrying about the target class.
	err := validateTransfer(activeLearner(1, 12), 10, testClass(11, false))

	var stale *StaleClassReferenceError
	if !errors.As(err, &stale) {
		t.Errorf("want StaleClassReferenceError first, got %v", err)
	}
}
