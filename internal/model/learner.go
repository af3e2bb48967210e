package model

import (
	"encoding/json"
	"time"
)

// LearnerStatus is the lifecycle state of a learner record.
// Learners are never hard-deleted; they leave a class by status transition.
type LearnerStatus string

const (
	StatusActive      LearnerStatus = "active"
	StatusTransferred LearnerStatus = "transferred"
	StatusGraduated   LearnerStatus = "graduated"
	StatusArchived    LearnerStatus = "archived"
)

// Valid reports whether s is one of the recognized lifecycle states.
func (s LearnerStatus) Valid() bool {
	switch s {
	case StatusActive, StatusTransferred, StatusGraduated, StatusArchived:
		return true
	}
	return false
}

// Learner represents an enrolled learner.
//
// StudentID is the external, printed identifier (see the studentid package);
// it and ClassID are identity fields: only enroll, remove and transfer may
// touch them, never a descriptive update.
type Learner struct {
	ID             int           `json:"id"`
	StudentID      string        `json:"student_id"`
	ClassID        int           `json:"class_id"`
	Status         LearnerStatus `json:"status"`
	Name           string        `json:"name"`
	Guardian       string        `json:"guardian"`
	Contact        string        `json:"contact"`
	Age            *int          `json:"age,omitempty"`
	EnrollmentDate time.Time     `json:"enrollment_date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// EnrollLearnerRequest is the payload for enrolling a single learner.
type EnrollLearnerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Guardian string `json:"guardian" binding:"omitempty,max=100"`
	Contact  string `json:"contact" binding:"omitempty,max=50"`
	Age      *int   `json:"age" binding:"omitempty,gte=4,lte=30"`
}

// RemoveLearnerRequest is the payload for removing a learner from its class.
type RemoveLearnerRequest struct {
	Status LearnerStatus `json:"status" binding:"required,oneof=transferred graduated archived"`
}

// LearnerPatch carries a descriptive-fields-only update. Identity fields
// (student_id, class_id, status) are not representable here; the service
// additionally rejects raw payloads that try to smuggle them in.
type LearnerPatch struct {
	Name     *string `json:"name"`
	Guardian *string `json:"guardian"`
	Contact  *string `json:"contact"`
	Age      *int    `json:"age"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LearnerPatch) IsEmpty() bool {
	return p.Name == nil && p.Guardian == nil && p.Contact == nil && p.Age == nil
}

// ImportRow is one externally-parsed row of a bulk import. The CSV has
// already been split by the caller; only the semantic contract matters here.
// Age arrives as a JSON number or numeric string and is coerced to an integer
// during row validation.
type ImportRow struct {
	Name     string      `json:"name" validate:"required,min=2,max=100"`
	Guardian string      `json:"guardian" validate:"omitempty,max=100"`
	Contact  string      `json:"contact" validate:"omitempty,max=50"`
	Age      json.Number `json:"age" validate:"omitempty"`
}
