package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/response"
	"github.com/scholark/scholark-backend/internal/service"
	"github.com/scholark/scholark-backend/internal/validator"
)

// LearnerHandler handles learner enrollment and record management.
type LearnerHandler struct {
	learnerService *service.LearnerService
}

// NewLearnerHandler creates a new LearnerHandler.
func NewLearnerHandler(learnerService *service.LearnerService) *LearnerHandler {
	return &LearnerHandler{learnerService: learnerService}
}

// EnrollLearner godoc
// POST /api/v1/classes/:id/learners
// Enrolls a learner into a class, issuing the student ID atomically.
func (h *LearnerHandler) EnrollLearner(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EnrollLearnerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	learner, err := h.learnerService.Enroll(c.Request.Context(), classID, req)
	if err != nil {
		failEnrollError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"learner": learner})
}

// GetLearner godoc
// GET /api/v1/learners/:id
func (h *LearnerHandler) GetLearner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	learner, err := h.learnerService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learner": learner})
}

// LookupByStudentID godoc
// GET /api/v1/learners/by-student-id/:student_id
func (h *LearnerHandler) LookupByStudentID(c *gin.Context) {
	learner, err := h.learnerService.GetByStudentID(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learner": learner})
}

// ListRoster godoc
// GET /api/v1/classes/:id/learners?status=active&page=1&per_page=20
func (h *LearnerHandler) ListRoster(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var status *model.LearnerStatus
	if raw := c.Query("status"); raw != "" {
		s := model.LearnerStatus(raw)
		if !s.Valid() {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		status = &s
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	learners, pagination, err := h.learnerService.ListByClass(c.Request.Context(), classID, status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"learners": learners}, pagination)
}

// UpdateLearner godoc
// PATCH /api/v1/learners/:id
// Updates descriptive fields. Attempts to set student_id, class_id or status
// fail instead of being silently dropped.
func (h *LearnerHandler) UpdateLearner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	learner, err := h.learnerService.UpdateDescriptive(c.Request.Context(), id, raw)
	if err != nil {
		var (
			ife     *service.ImmutableFieldError
			synErr  *json.SyntaxError
			typeErr *json.UnmarshalTypeError
		)
		switch {
		case errors.As(err, &ife):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrImmutableField,
				map[string]string{ife.Field: "immutable"})
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.As(err, &synErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"learner": learner})
}

// RemoveLearner godoc
// POST /api/v1/learners/:id/remove
// Transitions a learner out of active status; the record itself is kept.
func (h *LearnerHandler) RemoveLearner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RemoveLearnerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.learnerService.Remove(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrLearnerNotActive):
			response.Fail(c, http.StatusConflict, response.ErrLearnerNotActive)
		case errors.Is(err, repository.ErrTxRetriesExhausted):
			response.Fail(c, http.StatusConflict, response.ErrTransactionAborted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "learner removed from class"})
}

// failEnrollError maps enrollment-path errors shared by the single and bulk
// paths onto API error codes.
func failEnrollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrClassInactive):
		response.Fail(c, http.StatusConflict, response.ErrClassInactive)
	case errors.Is(err, service.ErrCounterUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrCounterUnavailable)
	case errors.Is(err, repository.ErrDuplicateStudentID):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrTxRetriesExhausted):
		response.Fail(c, http.StatusConflict, response.ErrTransactionAborted)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
