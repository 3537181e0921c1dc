package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
)

func cohortFixture() ([]models.ClassSection, []models.Student, []models.PreScheduleEntry) {
	catalog := []models.ClassSection{
		section("ENG101", "A1", []string{"Monday"}, "09:00 - 10:00"),
		section("BUS101", "B1", []string{"Monday"}, "09:30 - 10:30"),
		withDiscussion(section("HIS101", "H1", []string{"Tuesday"}, "13:00 - 14:00"), "Friday", "09:00 - 10:00"),
		section("ART101", "R1", []string{"Friday"}, "09:30 - 10:30"),
		section("MUS101", "M1", []string{"Thursday"}, "18:00 - 19:00"),
	}
	students := []models.Student{
		{ID: "s1", Name: "Student One"},
		{ID: "s2", Name: "Student Two"},
		{ID: "s3", Name: "Student Three"},
		{ID: "s4", Name: "Student Four"},
	}
	pre := []models.PreScheduleEntry{
		{StudentID: "s1", SectionCode: "A1"},
		{StudentID: "s1", SectionCode: "H1"},
		{StudentID: "s2", SectionCode: "B1"},
		{StudentID: "s3", SectionCode: "R1"},
		{StudentID: "s4", SectionCode: "M1"},
		{StudentID: "s4", SectionCode: "ZZ9"},
		{StudentID: "ghost", SectionCode: "A1"},
	}
	return catalog, students, pre
}

func TestCohortDetectAll(t *testing.T) {
	catalog, students, pre := cohortFixture()
	result, err := NewCohortDetector().DetectAll(catalog, students, pre)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 2)
	first := result.Conflicts[0]
	assert.Equal(t, "s1", first.StudentA.ID)
	assert.Equal(t, "s2", first.StudentB.ID)
	assert.Equal(t, models.ConflictLecture, first.Conflict.Kind)

	second := result.Conflicts[1]
	assert.Equal(t, "s1", second.StudentA.ID)
	assert.Equal(t, "s3", second.StudentB.ID)
	assert.Equal(t, models.ConflictLectureDiscussion, second.Conflict.Kind)

	require.Len(t, result.Dropped, 2)
	assert.Equal(t, models.MissingSection, result.Dropped[0].Kind)
	assert.Equal(t, "ZZ9", result.Dropped[0].Reference)
	assert.Equal(t, models.MissingStudent, result.Dropped[1].Kind)
}

func TestCohortRepeatedPreScheduleRowCountsOnce(t *testing.T) {
	catalog, students, pre := cohortFixture()
	pre = append(pre,
		models.PreScheduleEntry{StudentID: "s2", SectionCode: "B1"},
		models.PreScheduleEntry{StudentID: " s1 ", SectionCode: " A1 "},
	)

	result, err := NewCohortDetector().DetectAll(catalog, students, pre)
	require.NoError(t, err)
	assert.Len(t, result.Conflicts, 2)
	assert.Equal(t, 2, Summarize(result.Conflicts, 0).TotalConflicts)
}

func TestCohortNoMirroredPairs(t *testing.T) {
	catalog, students, pre := cohortFixture()
	result, err := NewCohortDetector().DetectAll(catalog, students, pre)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range result.Conflicts {
		key := c.StudentA.ID + "|" + c.StudentB.ID + "|" + c.Conflict.SectionA + "|" + c.Conflict.SectionB + "|" + c.Conflict.Day
		mirror := c.StudentB.ID + "|" + c.StudentA.ID + "|" + c.Conflict.SectionB + "|" + c.Conflict.SectionA + "|" + c.Conflict.Day
		assert.False(t, seen[mirror], "mirrored conflict reported: %s", key)
		seen[key] = true
	}
}

func TestCohortSameSectionIsTimeConflictNotDuplicateCourse(t *testing.T) {
	catalog, students, _ := cohortFixture()
	pre := []models.PreScheduleEntry{{StudentID: "s1", SectionCode: "A1"}, {StudentID: "s2", SectionCode: "A1"}}

	result, err := NewCohortDetector().DetectAll(catalog, students, pre)
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictLecture, result.Conflicts[0].Conflict.Kind)
}

func TestCohortStudentConflictsConsistentWithAll(t *testing.T) {
	catalog, students, pre := cohortFixture()
	detector := NewCohortDetector()

	all, err := detector.DetectAll(catalog, students, pre)
	require.NoError(t, err)
	mine, err := detector.DetectStudentConflicts("s2", catalog, students, pre)
	require.NoError(t, err)

	require.Len(t, mine.Conflicts, 1)
	assert.Equal(t, all.Conflicts[0], mine.Conflicts[0])

	none, err := detector.DetectStudentConflicts("s4", catalog, students, pre)
	require.NoError(t, err)
	assert.Empty(t, none.Conflicts)
	require.Len(t, none.Dropped, 1)
}

func TestSummarize(t *testing.T) {
	catalog, students, pre := cohortFixture()
	result, err := NewCohortDetector().DetectAll(catalog, students, pre)
	require.NoError(t, err)

	summary := Summarize(result.Conflicts, 0)
	assert.Equal(t, 2, summary.TotalConflicts)
	assert.Equal(t, 3, summary.StudentsWithConflicts)
	assert.Equal(t, 1, summary.ConflictTypes[models.ConflictLecture])
	assert.Equal(t, 1, summary.ConflictTypes[models.ConflictLectureDiscussion])
	require.Len(t, summary.MostConflicted, 3)
	assert.Equal(t, "s1", summary.MostConflicted[0].Student.ID)
	assert.Equal(t, 2, summary.MostConflicted[0].ConflictCount)
	assert.Equal(t, "s2", summary.MostConflicted[1].Student.ID)

	limited := Summarize(result.Conflicts, 1)
	assert.Len(t, limited.MostConflicted, 1)

	empty := Summarize(nil, 10)
	assert.Zero(t, empty.TotalConflicts)
	assert.Empty(t, empty.MostConflicted)
}
