package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type plannerService interface {
	Plan(ctx context.Context, studentID, term string) (*dto.PlanResponse, error)
	Classify(ctx context.Context, studentID, term, sectionCode string) (*dto.EligibilityResponse, error)
}

// PlannerHandler serves catalog partitions and single-section eligibility checks.
type PlannerHandler struct {
	planner plannerService
}

// NewPlannerHandler constructs PlannerHandler.
func NewPlannerHandler(planner plannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// Plan godoc
// @Summary Partition the catalog for a student
// @Description Returns available, conflicting, taken and transcript-only buckets for the current selection state
// @Tags Planner
// @Produce json
// @Param id path string true "Student ID"
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/plan [get]
func (h *PlannerHandler) Plan(c *gin.Context) {
	plan, err := h.planner.Plan(c.Request.Context(), c.Param("id"), termQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Eligibility godoc
// @Summary Classify one section for a student
// @Tags Planner
// @Produce json
// @Param id path string true "Student ID"
// @Param sectionCode path string true "Section code"
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/sections/{sectionCode}/eligibility [get]
func (h *PlannerHandler) Eligibility(c *gin.Context) {
	result, err := h.planner.Classify(c.Request.Context(), c.Param("id"), termQuery(c), c.Param("sectionCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
