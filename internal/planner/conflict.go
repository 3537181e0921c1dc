package planner

import (
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// FindConflicts compares a candidate with every placed section of the same schedule.
// A placed section of the same course is always a conflict and is reported once with
// the same-course kind instead of any time overlap.
func FindConflicts(candidate models.ClassSection, placed []models.ClassSection) ([]models.Conflict, error) {
	candidatePlacements, err := Placements(candidate)
	if err != nil {
		return nil, err
	}

	var conflicts []models.Conflict
	for _, other := range placed {
		if sameCourse(candidate, other) {
			conflicts = append(conflicts, models.Conflict{
				SectionA: candidate.SectionCode,
				CourseA:  candidate.CourseCode,
				SectionB: other.SectionCode,
				CourseB:  other.CourseCode,
				Kind:     models.ConflictSameCourse,
				Reason:   models.ReasonSameCourse,
			})
			continue
		}
		otherPlacements, err := Placements(other)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, placementConflicts(candidatePlacements, otherPlacements)...)
	}
	return conflicts, nil
}

// SectionsConflict reports time overlaps between two sections without the duplicate-course rule.
// The cohort detector uses it to compare sections belonging to different students.
func SectionsConflict(a, b models.ClassSection) ([]models.Conflict, error) {
	left, err := Placements(a)
	if err != nil {
		return nil, err
	}
	right, err := Placements(b)
	if err != nil {
		return nil, err
	}
	return placementConflicts(left, right), nil
}

func placementConflicts(left, right []Placement) []models.Conflict {
	var conflicts []models.Conflict
	for _, a := range left {
		for _, b := range right {
			if a.Day != b.Day || !Overlaps(a.Interval, b.Interval) {
				continue
			}
			kind := conflictKind(a.Meeting, b.Meeting)
			conflicts = append(conflicts, models.Conflict{
				SectionA:  a.SectionCode,
				CourseA:   a.CourseCode,
				SectionB:  b.SectionCode,
				CourseB:   b.CourseCode,
				Kind:      kind,
				Day:       a.Day,
				IntervalA: a.Interval.String(),
				IntervalB: b.Interval.String(),
				Reason:    string(kind) + " time overlap",
			})
		}
	}
	return conflicts
}

func conflictKind(a, b models.Meeting) models.ConflictKind {
	switch {
	case a == models.MeetingLecture && b == models.MeetingLecture:
		return models.ConflictLecture
	case a == models.MeetingDiscussion && b == models.MeetingDiscussion:
		return models.ConflictDiscussion
	default:
		return models.ConflictLectureDiscussion
	}
}

func sameCourse(a, b models.ClassSection) bool {
	return strings.TrimSpace(a.CourseCode) == strings.TrimSpace(b.CourseCode)
}
