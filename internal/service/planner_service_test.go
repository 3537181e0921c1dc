package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/planner"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type plannerFixture struct {
	catalog      *stubCatalog
	students     *stubStudents
	transcripts  *stubTranscripts
	preSchedules *stubPreSchedules
	store        *SelectionStore
	availability *AvailabilityService
	svc          *PlannerService
}

func newPlannerFixture() *plannerFixture {
	f := &plannerFixture{
		catalog:  &stubCatalog{sections: sampleCatalog()},
		students: sampleStudents(),
		transcripts: &stubTranscripts{entries: map[string][]models.TranscriptEntry{
			"s1": {{StudentID: "s1", CourseCode: "HIS100", CourseName: "History", Grade: "A"}},
		}},
		preSchedules: &stubPreSchedules{rows: []models.PreScheduleEntry{
			{StudentID: "s1", SectionCode: "A1", Term: "2024FA"},
			{StudentID: "s1", SectionCode: "ZZ9", Term: "2024FA"},
		}},
		store: NewSelectionStore(0),
	}
	f.availability = NewAvailabilityService(f.students, nil, zap.NewNop(), 0)
	f.svc = NewPlannerService(f.catalog, f.students, f.transcripts, f.preSchedules, f.store, f.availability,
		NewMetricsService(), zap.NewNop(), PlannerConfig{DefaultTerm: "2024FA", MaxCatalogEntries: 100})
	return f
}

func sectionCodes(sections []models.ClassSection) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.SectionCode)
	}
	return out
}

func TestPlannerServicePlan(t *testing.T) {
	f := newPlannerFixture()

	plan, err := f.svc.Plan(context.Background(), "s1", "")
	require.NoError(t, err)

	assert.Equal(t, "2024FA", f.catalog.lastTerm)
	assert.Equal(t, 100, f.catalog.lastLimit)
	assert.Equal(t, "2024FA", plan.Term)
	assert.Equal(t, []string{"D1"}, sectionCodes(plan.Available))

	reasons := map[string]string{}
	for _, c := range plan.Conflicting {
		reasons[c.Section.SectionCode] = c.Reason
	}
	assert.Equal(t, models.ReasonSameCourse, reasons["A2"])
	assert.Equal(t, "lecture time overlap", reasons["B1"])
	assert.Equal(t, planner.ReasonPrerequisite, reasons["C1"])

	require.Len(t, plan.Selected, 1)
	assert.Equal(t, "ENG101-A1", plan.Selected[0].ID)
	assert.Equal(t, models.SelectionPreScheduled, plan.Selected[0].Source)

	require.Len(t, plan.TranscriptOnly, 1)
	assert.Equal(t, "HIS100", plan.TranscriptOnly[0].CourseCode)

	require.Len(t, plan.Dropped, 1)
	assert.Equal(t, models.MissingReference{Kind: models.MissingSection, StudentID: "s1", Reference: "ZZ9"}, plan.Dropped[0])
}

func TestPlannerServicePlanMergesManualSelections(t *testing.T) {
	f := newPlannerFixture()
	f.store.Add("s1", "2024FA", models.NewSelectedClass(sampleCatalog()[4], models.SelectionManual))

	plan, err := f.svc.Plan(context.Background(), "s1", "2024FA")
	require.NoError(t, err)
	require.Len(t, plan.Selected, 2)
	assert.Equal(t, models.SelectionManual, plan.Selected[1].Source)
	assert.Empty(t, plan.Available)
}

func TestPlannerServicePlanHonoursAvailability(t *testing.T) {
	f := newPlannerFixture()
	f.preSchedules.rows = nil
	open := true
	_, err := f.availability.Toggle(context.Background(), "s1", toggle("afternoon-14:00-15:00", "tue", open))
	require.NoError(t, err)

	plan, err := f.svc.Plan(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"D1"}, sectionCodes(plan.Available))
	for _, c := range plan.Conflicting {
		if c.Section.SectionCode == "A1" {
			assert.Equal(t, planner.ReasonUnavailable, c.Reason)
		}
	}
}

func TestPlannerServicePlanErrors(t *testing.T) {
	f := newPlannerFixture()
	_, err := f.svc.Plan(context.Background(), "ghost", "")
	assert.True(t, isCode(err, appErrors.ErrNotFound))

	f.catalog.err = errors.New("db down")
	_, err = f.svc.Plan(context.Background(), "s1", "")
	assert.True(t, isCode(err, appErrors.ErrInternal))

	f.catalog.err = appErrors.Clone(appErrors.ErrCatalogTooLarge, "catalog for term \"2024FA\" has more than 100 sections")
	_, err = f.svc.Plan(context.Background(), "s1", "")
	assert.True(t, isCode(err, appErrors.ErrCatalogTooLarge))
	assert.Equal(t, 100, f.catalog.lastLimit)
}

func TestPlannerServicePlanKeepsDomainErrors(t *testing.T) {
	f := newPlannerFixture()
	broken := section("X1", "BAD100", []string{"Monday"}, "9am to 10am")
	f.catalog.sections = append(f.catalog.sections, broken)

	_, err := f.svc.Plan(context.Background(), "s1", "")
	require.Error(t, err)
	assert.True(t, isCode(err, appErrors.ErrMalformedRange))
}

func TestPlannerServiceClassify(t *testing.T) {
	f := newPlannerFixture()
	ctx := context.Background()

	verdict, err := f.svc.Classify(ctx, "s1", "", "B1")
	require.NoError(t, err)
	assert.True(t, verdict.Eligibility.Eligible())
	assert.False(t, verdict.Selectable)
	require.NotEmpty(t, verdict.Conflicts)
	assert.Equal(t, models.ConflictLecture, verdict.Conflicts[0].Kind)

	verdict, err = f.svc.Classify(ctx, "s1", "", "C1")
	require.NoError(t, err)
	assert.Equal(t, planner.ReasonPrerequisite, verdict.Eligibility.Reason)

	verdict, err = f.svc.Classify(ctx, "s1", "", "A1")
	require.NoError(t, err)
	require.Len(t, verdict.Conflicts, 1)
	assert.Equal(t, ReasonAlreadySelected, verdict.Conflicts[0].Reason)

	verdict, err = f.svc.Classify(ctx, "s1", "", "D1")
	require.NoError(t, err)
	assert.True(t, verdict.Selectable)
	assert.Empty(t, verdict.Conflicts)

	_, err = f.svc.Classify(ctx, "s1", "", "NOPE")
	assert.True(t, isCode(err, appErrors.ErrNotFound))
}
