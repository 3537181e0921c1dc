package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type studentServiceMock struct {
	lastFilter     models.StudentFilter
	listCalled     bool
	getErr         error
	transcriptResp *dto.TranscriptResponse
}

func (m *studentServiceMock) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	m.listCalled = true
	m.lastFilter = filter
	return []models.Student{{ID: "s1"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (m *studentServiceMock) Get(ctx context.Context, id string) (*models.Student, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &models.Student{ID: id}, nil
}

func (m *studentServiceMock) Transcript(ctx context.Context, id string) (*dto.TranscriptResponse, error) {
	return m.transcriptResp, nil
}

func TestStudentHandlerList(t *testing.T) {
	mockSvc := &studentServiceMock{}
	handler := NewStudentHandler(mockSvc)

	c, w := newTestContext(t, http.MethodGet, "/students?search=ada&coach=Kim&page=2&limit=5", nil, nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listCalled)
	assert.Equal(t, models.StudentFilter{Search: "ada", CoachName: "Kim", Page: 2, PageSize: 5}, mockSvc.lastFilter)

	var body struct {
		Data       []models.Student  `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 2, body.Pagination.Page)
}

func TestStudentHandlerListInvalidPage(t *testing.T) {
	mockSvc := &studentServiceMock{}
	handler := NewStudentHandler(mockSvc)

	c, w := newTestContext(t, http.MethodGet, "/students?page=abc", nil, nil)
	handler.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.listCalled)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	handler := NewStudentHandler(&studentServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "student not found")})

	c, w := newTestContext(t, http.MethodGet, "/students/zz", nil, studentParam("zz"))
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "student not found")
}

func TestStudentHandlerTranscript(t *testing.T) {
	handler := NewStudentHandler(&studentServiceMock{transcriptResp: &dto.TranscriptResponse{StudentID: "s1"}})

	c, w := newTestContext(t, http.MethodGet, "/students/s1/transcript", nil, studentParam("s1"))
	handler.Transcript(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"studentId":"s1"`)
}
