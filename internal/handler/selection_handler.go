package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type selectionService interface {
	List(ctx context.Context, studentID, term string) ([]models.SelectedClass, error)
	Select(ctx context.Context, studentID string, req dto.SelectSectionRequest) (*dto.PlanResponse, error)
	Unselect(ctx context.Context, studentID, term, sectionCode string) (*dto.PlanResponse, error)
	Reset(ctx context.Context, studentID, term string) (*dto.PlanResponse, error)
}

// SelectionHandler manages the manual selection session of a student.
type SelectionHandler struct {
	selections selectionService
}

// NewSelectionHandler constructs SelectionHandler.
func NewSelectionHandler(selections selectionService) *SelectionHandler {
	return &SelectionHandler{selections: selections}
}

// List godoc
// @Summary List manually selected classes
// @Tags Selections
// @Produce json
// @Param id path string true "Student ID"
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/selections [get]
func (h *SelectionHandler) List(c *gin.Context) {
	items, err := h.selections.List(c.Request.Context(), c.Param("id"), termQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Select godoc
// @Summary Add an available section to the schedule
// @Tags Selections
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.SelectSectionRequest true "Section"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/selections [post]
func (h *SelectionHandler) Select(c *gin.Context) {
	var req dto.SelectSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	if req.Term == "" {
		req.Term = termQuery(c)
	}
	plan, err := h.selections.Select(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Unselect godoc
// @Summary Remove a manually selected section
// @Tags Selections
// @Produce json
// @Param id path string true "Student ID"
// @Param sectionCode path string true "Section code"
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/selections/{sectionCode} [delete]
func (h *SelectionHandler) Unselect(c *gin.Context) {
	plan, err := h.selections.Unselect(c.Request.Context(), c.Param("id"), termQuery(c), c.Param("sectionCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Reset godoc
// @Summary Clear every manual selection
// @Tags Selections
// @Produce json
// @Param id path string true "Student ID"
// @Param term query string false "Catalog term"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/selections [delete]
func (h *SelectionHandler) Reset(c *gin.Context) {
	plan, err := h.selections.Reset(c.Request.Context(), c.Param("id"), termQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}
