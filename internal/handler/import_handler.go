package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scholark/scholark-backend/internal/middleware"
	"github.com/scholark/scholark-backend/internal/model"
	"github.com/scholark/scholark-backend/internal/response"
	"github.com/scholark/scholark-backend/internal/service"
	"github.com/scholark/scholark-backend/internal/validator"
)

const importMaxRows = 1000

// ImportHandler handles bulk learner imports.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportRowsRequest is the payload for a bulk import. Rows arrive already
// parsed out of whatever file the client accepted.
type ImportRowsRequest struct {
	Rows []model.ImportRow `json:"rows" binding:"required,min=1"`
}

// ImportLearners godoc
// POST /api/v1/classes/:id/import
// Validates every row first, then enrolls the valid subset in one
// transaction. Invalid rows are reported back with 1-based row numbers and
// never consume a student ID.
func (h *ImportHandler) ImportLearners(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req ImportRowsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if len(req.Rows) > importMaxRows {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"rows": "at most " + strconv.Itoa(importMaxRows) + " rows per import"})
		return
	}

	result, err := h.importService.ImportBatch(c.Request.Context(), classID, req.Rows, middleware.ActorName(c))
	if err != nil {
		failEnrollError(c, err)
		return
	}

	status := http.StatusCreated
	if len(result.Issued) == 0 {
		// Nothing persisted; every row was rejected.
		status = http.StatusUnprocessableEntity
	}
	response.Success(c, status, gin.H{"import": result})
}
