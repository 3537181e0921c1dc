package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-planner-api/internal/models"
)

func sampleCatalog() []models.ClassSection {
	return []models.ClassSection{
		section("ENG101", "A1", []string{"Monday"}, "09:00 - 10:00"),
		section("ENG101", "A2", []string{"Tuesday"}, "09:00 - 10:00"),
		section("BUS101", "B1", []string{"Monday"}, "09:30 - 10:30"),
		section("BUS101", "B2", []string{"Thursday"}, "18:00 - 19:00"),
		withPrereq(section("MAT200", "C1", []string{"Wednesday"}, "09:00 - 10:00"), "MAT100"),
		withDiscussion(section("HIS101", "H1", []string{"Monday", "Wednesday"}, "13:00 - 14:00"), "Friday", "09:00 - 10:00"),
	}
}

func defaultPartitioner() *Partitioner {
	return NewPartitioner(defaultClassifier())
}

func codes(sections []models.ClassSection) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.SectionCode)
	}
	return out
}

func conflictingByCode(p *Partition) map[string]ConflictingSection {
	out := map[string]ConflictingSection{}
	for _, c := range p.Conflicting {
		out[c.Section.SectionCode] = c
	}
	return out
}

func TestPartitionBasicConflict(t *testing.T) {
	catalog := sampleCatalog()
	result, err := defaultPartitioner().Partition(catalog, nil, nil, placed(catalog[0]))
	require.NoError(t, err)

	conflicting := conflictingByCode(result)
	b1, ok := conflicting["B1"]
	require.True(t, ok)
	require.Len(t, b1.Conflicts, 1)
	assert.Equal(t, models.ConflictLecture, b1.Conflicts[0].Kind)
	assert.Equal(t, "Monday", b1.Conflicts[0].Day)

	a2, ok := conflicting["A2"]
	require.True(t, ok)
	assert.Equal(t, models.ReasonSameCourse, a2.Reason)

	assert.Equal(t, ReasonPrerequisite, conflicting["C1"].Reason)
	assert.ElementsMatch(t, []string{"B2", "H1"}, codes(result.Available))
	assert.NotContains(t, codes(result.Available), "A1")
	assert.NotContains(t, conflicting, "A1")
}

func TestPartitionPassedCourseListedOnceAsTaken(t *testing.T) {
	catalog := sampleCatalog()
	transcript := []models.TranscriptEntry{grade("ENG101", "A"), grade("ENG101", "A")}

	result, err := defaultPartitioner().Partition(catalog, transcript, nil, nil)
	require.NoError(t, err)

	require.Len(t, result.Taken, 1)
	assert.Equal(t, "ENG101", result.Taken[0].CourseCode)
	assert.Equal(t, models.CourseStatusPassed, result.Taken[0].Status)
	require.NotNil(t, result.Taken[0].Section)
	assert.Equal(t, "A1", result.Taken[0].Section.SectionCode)
	for _, s := range result.Available {
		assert.NotEqual(t, "ENG101", s.CourseCode)
	}
	for _, c := range result.Conflicting {
		assert.NotEqual(t, "ENG101", c.Section.CourseCode)
	}
}

func TestPartitionTranscriptOnly(t *testing.T) {
	transcript := []models.TranscriptEntry{grade("PHI100", "B"), grade("ART100", "IP"), grade("CHE100", "F")}
	result, err := defaultPartitioner().Partition(sampleCatalog(), transcript, nil, nil)
	require.NoError(t, err)

	require.Len(t, result.TranscriptOnly, 2)
	assert.Equal(t, "PHI100", result.TranscriptOnly[0].CourseCode)
	assert.Equal(t, "ART100", result.TranscriptOnly[1].CourseCode)
	assert.Empty(t, result.Taken)
}

func TestPartitionPrerequisiteSatisfied(t *testing.T) {
	result, err := defaultPartitioner().Partition(sampleCatalog(), []models.TranscriptEntry{grade("MAT100", "C")}, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, codes(result.Available), "C1")
	require.Len(t, result.TranscriptOnly, 1)
	assert.Equal(t, "MAT100", result.TranscriptOnly[0].CourseCode)
}

func TestPartitionInProgressWhenPlaced(t *testing.T) {
	catalog := sampleCatalog()
	transcript := []models.TranscriptEntry{grade("ENG101", "IP")}

	result, err := defaultPartitioner().Partition(catalog, transcript, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Taken)
	assert.Contains(t, codes(result.Available), "A1")

	result, err = defaultPartitioner().Partition(catalog, transcript, nil, placed(catalog[0]))
	require.NoError(t, err)
	require.Len(t, result.Taken, 1)
	assert.Equal(t, models.CourseStatusInProgress, result.Taken[0].Status)
	require.NotNil(t, result.Taken[0].Section)
	assert.Equal(t, "A2", result.Taken[0].Section.SectionCode, "placed section is never the representative")
}

func TestPartitionAvailabilityBlocks(t *testing.T) {
	availability := models.Availability{
		"morning-09:00-10:00": {"Monday": true, "Tuesday": false, "Wednesday": true, "Friday": true},
		"evening-18:00-19:00": {"Thursday": true},
	}
	result, err := defaultPartitioner().Partition(sampleCatalog(), nil, availability, nil)
	require.NoError(t, err)

	conflicting := conflictingByCode(result)
	assert.Equal(t, ReasonUnavailable, conflicting["A2"].Reason)
	assert.Equal(t, ReasonUnavailable, conflicting["B1"].Reason)
	assert.Equal(t, ReasonUnavailable, conflicting["H1"].Reason)
	assert.ElementsMatch(t, []string{"A1", "B2"}, codes(result.Available))
}

func TestPartitionIdempotent(t *testing.T) {
	catalog := sampleCatalog()
	transcript := []models.TranscriptEntry{grade("ENG101", "IP"), grade("PHI100", "A")}
	availability := models.Availability{"09:00-10:00": {"Monday": true}}
	current := placed(catalog[3])

	first, err := defaultPartitioner().Partition(catalog, transcript, availability, current)
	require.NoError(t, err)
	second, err := defaultPartitioner().Partition(catalog, transcript, availability, current)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPartitionBucketsAreDisjoint(t *testing.T) {
	catalog := sampleCatalog()
	transcript := []models.TranscriptEntry{grade("BUS101", "A"), grade("ENG101", "IP"), grade("PHI100", "A")}
	current := placed(catalog[0])

	result, err := defaultPartitioner().Partition(catalog, transcript, nil, current)
	require.NoError(t, err)

	bucketOf := map[string]string{}
	mark := func(code, bucket string) {
		if prev, ok := bucketOf[code]; ok && prev != bucket {
			t.Fatalf("course %s in both %s and %s", code, prev, bucket)
		}
		bucketOf[code] = bucket
	}
	for _, s := range result.Available {
		mark(s.CourseCode, "available")
	}
	for _, c := range result.Conflicting {
		mark(c.Section.CourseCode, "conflicting")
	}
	for _, c := range result.Taken {
		mark(c.CourseCode, "taken")
	}
	for _, c := range result.TranscriptOnly {
		mark(c.CourseCode, "transcriptOnly")
	}

	seen := map[string]int{}
	for _, s := range result.Available {
		seen[s.SectionCode]++
	}
	for _, c := range result.Conflicting {
		seen[c.Section.SectionCode]++
	}
	for code, n := range seen {
		assert.Equal(t, 1, n, code)
	}
	assert.NotContains(t, seen, "A1")
}

func TestPartitionSurfacesMalformedCatalog(t *testing.T) {
	catalog := append(sampleCatalog(), section("BAD100", "X1", []string{"Monday"}, "morning"))
	_, err := defaultPartitioner().Partition(catalog, nil, nil, nil)
	require.Error(t, err)
}

func TestPartitionLateNightOverlap(t *testing.T) {
	late := section("PHI101", "L1", []string{"Monday"}, "23:30 - 00:30")
	catalog := []models.ClassSection{
		late,
		section("ART101", "E1", []string{"Monday"}, "00:00 - 01:00"),
		section("MUS101", "E2", []string{"Tuesday"}, "00:00 - 01:00"),
	}

	result, err := defaultPartitioner().Partition(catalog, nil, nil, placed(late))
	require.NoError(t, err)

	conflicting := conflictingByCode(result)
	require.Contains(t, conflicting, "E1")
	assert.Equal(t, models.ConflictLecture, conflicting["E1"].Conflicts[0].Kind)
	assert.Equal(t, []string{"E2"}, codes(result.Available))
}
