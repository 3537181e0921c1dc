package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

func newCohortFixture(cache reportCache) (*stubCatalog, *stubPreSchedules, *CohortService) {
	catalog := &stubCatalog{sections: sampleCatalog()}
	rows := &stubPreSchedules{rows: []models.PreScheduleEntry{
		{StudentID: "s1", SectionCode: "A1"},
		{StudentID: "s2", SectionCode: "B1"},
		{StudentID: "s3", SectionCode: "A1"},
		{StudentID: "s3", SectionCode: "D1"},
		{StudentID: "ghost", SectionCode: "A1"},
		{StudentID: "s2", SectionCode: "ZZ9"},
	}}
	svc := NewCohortService(catalog, sampleStudents(), rows, cache, NewMetricsService(), zap.NewNop(),
		CohortConfig{DefaultTerm: "2024FA", TopConflicted: 2})
	return catalog, rows, svc
}

func TestCohortServiceReport(t *testing.T) {
	_, _, svc := newCohortFixture(nil)

	report, err := svc.Report(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "2024FA", report.Term)

	// s1-A1 vs s2-B1 on Monday and Wednesday, s1-A1 vs s3-A1 twice, s2-B1 vs s3-A1 twice.
	assert.Equal(t, 6, report.Summary.TotalConflicts)
	assert.Equal(t, 3, report.Summary.StudentsWithConflicts)
	assert.Equal(t, 6, report.Summary.ConflictTypes[models.ConflictLecture])
	require.Len(t, report.Summary.MostConflicted, 2)
	assert.Equal(t, "s1", report.Summary.MostConflicted[0].Student.ID)
	assert.Equal(t, 4, report.Summary.MostConflicted[0].ConflictCount)

	require.Len(t, report.Dropped, 2)
	assert.Equal(t, models.MissingStudent, report.Dropped[0].Kind)
	assert.Equal(t, models.MissingSection, report.Dropped[1].Kind)
}

func TestCohortServiceUsesCache(t *testing.T) {
	cache := newMemoryCache()
	catalog, _, svc := newCohortFixture(cache)
	ctx := context.Background()

	first, err := svc.Report(ctx, "2024FA")
	require.NoError(t, err)
	catalog.sections = nil

	second, err := svc.Report(ctx, "2024FA")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, cache.hits)
	assert.Len(t, second.Conflicts, 6)

	require.NoError(t, svc.Invalidate(ctx, ""))
	assert.Equal(t, []string{"cohort:report:2024FA"}, cache.deleted)

	third, err := svc.Report(ctx, "2024FA")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Empty(t, third.Conflicts)

	require.NoError(t, svc.Invalidate(ctx, "*"))
	assert.Equal(t, "cohort:report:*", cache.pattern)
}

func TestCohortServiceSummaryTop(t *testing.T) {
	_, _, svc := newCohortFixture(nil)

	summary, err := svc.Summary(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, summary.MostConflicted, 1)
	assert.Equal(t, "s1", summary.MostConflicted[0].Student.ID)

	summary, err = svc.Summary(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, summary.MostConflicted, 2)
}

func TestCohortServiceStudentConflicts(t *testing.T) {
	_, _, svc := newCohortFixture(nil)
	ctx := context.Background()

	mine, err := svc.StudentConflicts(ctx, "", "s2")
	require.NoError(t, err)
	assert.Len(t, mine.Conflicts, 4)
	require.Len(t, mine.Dropped, 1)
	assert.Equal(t, "ZZ9", mine.Dropped[0].Reference)

	_, err = svc.StudentConflicts(ctx, "", "ghost")
	assert.True(t, isCode(err, appErrors.ErrNotFound))
}

func TestCohortServiceRejectsOversizedCatalog(t *testing.T) {
	catalog, _, svc := newCohortFixture(nil)
	catalog.err = appErrors.Clone(appErrors.ErrCatalogTooLarge, "catalog for term \"2024FA\" has more than 2000 sections")

	_, err := svc.Report(context.Background(), "")
	require.Error(t, err)
	assert.True(t, isCode(err, appErrors.ErrCatalogTooLarge))
}

type recordingWarmer struct {
	keys []string
}

func (w *recordingWarmer) Enqueue(key string) error {
	w.keys = append(w.keys, key)
	return nil
}

func TestCohortServiceInvalidateSchedulesWarmUp(t *testing.T) {
	cache := newMemoryCache()
	_, _, svc := newCohortFixture(cache)
	warmer := &recordingWarmer{}
	svc.SetWarmer(warmer)
	ctx := context.Background()

	require.NoError(t, svc.Invalidate(ctx, ""))
	require.NoError(t, svc.Invalidate(ctx, "*"))
	assert.Equal(t, []string{"2024FA"}, warmer.keys)

	require.NoError(t, svc.WarmReport(ctx, warmer.keys[0]))
	_, hit, err := svc.ReportCached(ctx, "2024FA")
	require.NoError(t, err)
	assert.True(t, hit)
}
