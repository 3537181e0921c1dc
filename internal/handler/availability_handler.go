package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type availabilityService interface {
	Get(ctx context.Context, studentID string) (*dto.AvailabilityResponse, error)
	Replace(ctx context.Context, studentID string, req dto.ReplaceAvailabilityRequest) (*dto.AvailabilityResponse, error)
	Toggle(ctx context.Context, studentID string, req dto.ToggleAvailabilityRequest) (*dto.AvailabilityResponse, error)
	Clear(ctx context.Context, studentID string) error
}

// AvailabilityHandler exposes the weekly availability grid of a student.
type AvailabilityHandler struct {
	availability availabilityService
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(availability availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get godoc
// @Summary Get availability grid
// @Tags Availability
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	res, err := h.availability.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Replace godoc
// @Summary Replace availability grid
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.ReplaceAvailabilityRequest true "Slots keyed by slot id then day"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/availability [put]
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	var req dto.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	res, err := h.availability.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Toggle godoc
// @Summary Mark one slot open or closed on a day
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.ToggleAvailabilityRequest true "Slot toggle"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/availability [patch]
func (h *AvailabilityHandler) Toggle(c *gin.Context) {
	var req dto.ToggleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	res, err := h.availability.Toggle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Clear godoc
// @Summary Clear availability so every slot is open again
// @Tags Availability
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id}/availability [delete]
func (h *AvailabilityHandler) Clear(c *gin.Context) {
	if err := h.availability.Clear(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
