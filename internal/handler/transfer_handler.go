package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/scholark/scholark-backend/internal/middleware"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/repository"
	"github.com/scholark/scholark-backend/internal/response"
	"github.com/scholark/scholark-backend/internal/service"
	"github.com/scholark/scholark-backend/internal/validator"
)

// TransferHandler handles moving learners between classes.
type TransferHandler struct {
	transferService *service.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService *service.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// TransferLearner godoc
// POST /api/v1/learners/:id/transfer
// Moves a learner to another class. Policy decides whether the student ID is
// preserved or reissued in the destination scope.
func (h *TransferHandler) TransferLearner(c *gin.Context) {
	learnerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.TransferRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rec, err := h.transferService.Transfer(c.Request.Context(), learnerID, req, middleware.ActorName(c))
	if err != nil {
		var stale *service.StaleClassReferenceError
		switch {
		case errors.Is(err, service.ErrNoOpTransfer):
			response.Fail(c, http.StatusBadRequest, response.ErrNoOpTransfer)
		case errors.As(err, &stale):
			response.FailWithDetails(c, http.StatusConflict, response.ErrStaleClassReference, gin.H{
				"learner_id":        stale.LearnerID,
				"expected_class_id": stale.ExpectedClassID,
				"actual_class_id":   stale.ActualClassID,
			})
		case errors.Is(err, service.ErrTargetClassInactive):
			response.Fail(c, http.StatusConflict, response.ErrTargetClassInactive)
		case errors.Is(err, service.ErrLearnerNotActive):
			response.Fail(c, http.StatusConflict, response.ErrLearnerNotActive)
		case errors.Is(err, service.ErrCounterUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, response.ErrCounterUnavailable)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrTxRetriesExhausted):
			response.Fail(c, http.StatusConflict, response.ErrTransactionAborted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transfer": rec})
}

// TransferHistory godoc
// GET /api/v1/learners/:id/transfers
// Returns the audit trail for one learner, oldest first.
func (h *TransferHandler) TransferHistory(c *gin.Context) {
	learnerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.transferService.History(c.Request.Context(), learnerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"transfers": records})
}
