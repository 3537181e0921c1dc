package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/middleware"
	"github.com/noah-isme/class-planner-api/internal/models"
)

type cohortServiceMock struct {
	cacheHit        bool
	lastTop         int
	lastTerm        string
	invalidatedTerm string
}

func (m *cohortServiceMock) ReportCached(ctx context.Context, term string) (*dto.CohortReport, bool, error) {
	m.lastTerm = term
	return &dto.CohortReport{ID: "report-1", Term: term, Conflicts: []models.CohortConflict{}}, m.cacheHit, nil
}

func (m *cohortServiceMock) Summary(ctx context.Context, term string, top int) (*models.ConflictSummary, error) {
	m.lastTop = top
	return &models.ConflictSummary{TotalConflicts: 3}, nil
}

func (m *cohortServiceMock) StudentConflicts(ctx context.Context, term, studentID string) (*dto.StudentCohortConflicts, error) {
	return &dto.StudentCohortConflicts{StudentID: studentID}, nil
}

func (m *cohortServiceMock) Invalidate(ctx context.Context, term string) error {
	m.invalidatedTerm = term
	return nil
}

func TestCohortHandlerConflictsReportsCacheHit(t *testing.T) {
	mockSvc := &cohortServiceMock{cacheHit: true}
	handler := NewCohortHandler(mockSvc)

	c, w := newTestContext(t, http.MethodGet, "/cohort/conflicts?term=2024FA", nil, nil)
	middleware.WithResponseMeta()(c)
	handler.Conflicts(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024FA", mockSvc.lastTerm)

	var body struct {
		Data dto.CohortReport       `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "report-1", body.Data.ID)
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.Equal(t, "report-1", body.Meta["report_id"])
	assert.Contains(t, body.Meta, "processing_time_ms")
}

func TestCohortHandlerSummaryTop(t *testing.T) {
	mockSvc := &cohortServiceMock{}
	handler := NewCohortHandler(mockSvc)

	c, w := newTestContext(t, http.MethodGet, "/cohort/conflicts/summary?top=3", nil, nil)
	handler.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, mockSvc.lastTop)

	c, w = newTestContext(t, http.MethodGet, "/cohort/conflicts/summary?top=-1", nil, nil)
	handler.Summary(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCohortHandlerStudentConflicts(t *testing.T) {
	handler := NewCohortHandler(&cohortServiceMock{})

	c, w := newTestContext(t, http.MethodGet, "/students/s2/cohort-conflicts", nil, studentParam("s2"))
	handler.StudentConflicts(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"studentId":"s2"`)
}

func TestCohortHandlerInvalidateDefaultsToEveryTerm(t *testing.T) {
	mockSvc := &cohortServiceMock{}
	handler := NewCohortHandler(mockSvc)

	c, _ := newTestContext(t, http.MethodDelete, "/cohort/cache", nil, nil)
	handler.InvalidateCache(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "*", mockSvc.invalidatedTerm)
}
