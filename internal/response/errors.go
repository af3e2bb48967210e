package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication / Authorization ────────────────────────────────
	ErrTokenRequired   ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid    ErrCode = "TOKEN_INVALID"
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation       ErrCode = "VALIDATION_ERROR"
	ErrInvalidID        ErrCode = "INVALID_ID"
	ErrInvalidPayload   ErrCode = "INVALID_PAYLOAD"
	ErrInvalidClassName ErrCode = "INVALID_CLASS_NAME"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Enrollment / identifier issuance ──────────────────────────────
	ErrCounterUnavailable ErrCode = "COUNTER_UNAVAILABLE"
	ErrImmutableField     ErrCode = "IMMUTABLE_FIELD"
	ErrClassInactive      ErrCode = "CLASS_INACTIVE"
	ErrLearnerNotActive   ErrCode = "LEARNER_NOT_ACTIVE"

	// ─── Transfers ─────────────────────────────────────────────────────
	ErrNoOpTransfer        ErrCode = "NO_OP_TRANSFER"
	ErrTargetClassInactive ErrCode = "TARGET_CLASS_INACTIVE"
	ErrStaleClassReference ErrCode = "STALE_CLASS_REFERENCE"

	// ─── Bulk import ───────────────────────────────────────────────────
	ErrRowValidation ErrCode = "ROW_VALIDATION"

	// ─── Transactions ──────────────────────────────────────────────────
	ErrTransactionAborted ErrCode = "TRANSACTION_ABORTED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidClassName:
		return `Class names must look like "Grade 8A" or "Form 3B" within the allowed bands (Grade 8-12, Form 1-5).`

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	case ErrCounterUnavailable:
		return "The student ID counter is temporarily unavailable. Nothing was saved; please try again."
	case ErrImmutableField:
		return "Student ID and class assignment cannot be changed through an edit. Use a transfer instead."
	case ErrClassInactive:
		return "This class is inactive and cannot take enrollments."
	case ErrLearnerNotActive:
		return "This learner is no longer active."

	case ErrNoOpTransfer:
		return "The source and destination class are the same."
	case ErrTargetClassInactive:
		return "The destination class is inactive."
	case ErrStaleClassReference:
		return "The learner is no longer in the class you expected. Refresh and try again."

	case ErrRowValidation:
		return "Some rows failed validation and were not imported."

	case ErrTransactionAborted:
		return "The operation could not be completed and no changes were saved."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
