package model

import "time"

// TransferPolicy decides what happens to the student ID when a learner
// changes class.
type TransferPolicy string

const (
	// PolicyPreserve keeps the original student ID.
	PolicyPreserve TransferPolicy = "preserve"
	// PolicyReissue allocates a fresh ID in the destination class's scope.
	PolicyReissue TransferPolicy = "reissue"
)

// TransferRecord is the immutable audit row written once per committed
// transfer. NewStudentID is nil when the ID was preserved.
type TransferRecord struct {
	ID           int       `json:"id"`
	LearnerID    int       `json:"learner_id"`
	FromClassID  int       `json:"from_class_id"`
	ToClassID    int       `json:"to_class_id"`
	OldStudentID string    `json:"old_student_id"`
	NewStudentID *string   `json:"new_student_id,omitempty"`
	PerformedBy  string    `json:"performed_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransferRequest is the payload for moving a learner between classes.
// FromClassID is the class the caller believes the learner is in; a mismatch
// with the stored class fails the transfer instead of silently moving a
// learner someone else already moved.
type TransferRequest struct {
	FromClassID int            `json:"from_class_id" binding:"required"`
	ToClassID   int            `json:"to_class_id" binding:"required"`
	Policy      TransferPolicy `json:"policy" binding:"required,oneof=preserve reissue"`
}
