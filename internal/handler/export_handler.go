package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/service"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type exportService interface {
	Schedule(ctx context.Context, studentID, term string, format service.ExportFormat) (*service.ExportFile, error)
	Cohort(ctx context.Context, term string, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler streams schedules and cohort reports as CSV or PDF files.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Schedule godoc
// @Summary Export a student's planned schedule
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param term query string false "Catalog term"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/schedule/export [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Schedule(c.Request.Context(), c.Param("id"), termQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Cohort godoc
// @Summary Export the cohort conflict report
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param term query string false "Catalog term"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /cohort/conflicts/export [get]
func (h *ExportHandler) Cohort(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Cohort(c.Request.Context(), termQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
