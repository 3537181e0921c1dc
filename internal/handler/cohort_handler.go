package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/middleware"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type cohortService interface {
	ReportCached(ctx context.Context, term string) (*dto.CohortReport, bool, error)
	Summary(ctx context.Context, term string, top int) (*models.ConflictSummary, error)
	StudentConflicts(ctx context.Context, term, studentID string) (*dto.StudentCohortConflicts, error)
	Invalidate(ctx context.Context, term string) error
}

// CohortHandler exposes the cross-student conflict report.
type CohortHandler struct {
	cohort cohortService
}

// NewCohortHandler constructs CohortHandler.
func NewCohortHandler(cohort cohortService) *CohortHandler {
	return &CohortHandler{cohort: cohort}
}

// Conflicts godoc
// @Summary Detect conflicts between pre-scheduled students
// @Tags Cohort
// @Produce json
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Router /cohort/conflicts [get]
func (h *CohortHandler) Conflicts(c *gin.Context) {
	report, cacheHit, err := h.cohort.ReportCached(c.Request.Context(), termQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "report_id", report.ID)
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

// Summary godoc
// @Summary Summarize cohort conflicts
// @Tags Cohort
// @Produce json
// @Param term query string false "Catalog term"
// @Param top query int false "Number of most conflicted students"
// @Success 200 {object} response.Envelope
// @Router /cohort/conflicts/summary [get]
func (h *CohortHandler) Summary(c *gin.Context) {
	top, err := intQuery(c, "top", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.cohort.Summary(c.Request.Context(), termQuery(c), top)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// StudentConflicts godoc
// @Summary Cohort conflicts involving one student
// @Tags Cohort
// @Produce json
// @Param id path string true "Student ID"
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/cohort-conflicts [get]
func (h *CohortHandler) StudentConflicts(c *gin.Context) {
	res, err := h.cohort.StudentConflicts(c.Request.Context(), termQuery(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// InvalidateCache godoc
// @Summary Drop cached cohort reports
// @Tags Cohort
// @Param term query string false "Catalog term, * for every term"
// @Success 204
// @Router /cohort/cache [delete]
func (h *CohortHandler) InvalidateCache(c *gin.Context) {
	term := strings.TrimSpace(c.DefaultQuery("term", "*"))
	if err := h.cohort.Invalidate(c.Request.Context(), term); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
