package model

import (
	"time"

	"github.com/scholark/scholark-backend/internal/classname"
)

// Class represents a school class group for one cohort year.
// StudentCount is denormalized: it always equals the number of learners with
// status=active referencing this class, maintained transactionally by the
// enrollment and transfer paths rather than recomputed by scanning.
type Class struct {
	ID           int            `json:"id"`
	Name         string         `json:"name"` // canonical, e.g. "Grade 8A"
	Year         int            `json:"year"`
	Type         classname.Type `json:"type"`
	Level        int            `json:"level"`
	Section      string         `json:"section"`
	IsActive     bool           `json:"is_active"`
	StudentCount int            `json:"student_count"`
	TeacherIDs   []int64        `json:"teacher_ids"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Descriptor returns the structured class-name parts.
func (c *Class) Descriptor() classname.Descriptor {
	return classname.Descriptor{Type: c.Type, Level: c.Level, Section: c.Section}
}

// CreateClassRequest is the payload for creating a new class.
type CreateClassRequest struct {
	Name       string  `json:"name" binding:"required,classname"`
	Year       int     `json:"year" binding:"required,schoolyear"`
	TeacherIDs []int64 `json:"teacher_ids" binding:"omitempty,max=10"`
}

// UpdateClassRequest is the payload for updating an existing class.
type UpdateClassRequest struct {
	Name       string  `json:"name" binding:"required,classname"`
	Year       int     `json:"year" binding:"required,schoolyear"`
	TeacherIDs []int64 `json:"teacher_ids" binding:"omitempty,max=10"`
	IsActive   *bool   `json:"is_active" binding:"required"`
}
