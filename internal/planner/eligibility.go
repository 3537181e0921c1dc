package planner

import (
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// Blocking reasons reported by the classifier.
const (
	ReasonCompleted    = "already completed"
	ReasonInProgress   = "already in progress"
	ReasonUnavailable  = "outside selected availability"
	ReasonPrerequisite = "prerequisite not met"
)

// EligibilityStatus is the outcome of classifying one section.
type EligibilityStatus string

const (
	StatusEligible EligibilityStatus = "eligible"
	StatusBlocked  EligibilityStatus = "blocked"
)

// Eligibility is a classification result. Reason is set when Status is blocked.
type Eligibility struct {
	Status EligibilityStatus `json:"status"`
	Reason string            `json:"reason,omitempty"`
}

// Eligible reports whether the section may proceed to conflict checking.
func (e Eligibility) Eligible() bool {
	return e.Status == StatusEligible
}

func blocked(reason string) Eligibility {
	return Eligibility{Status: StatusBlocked, Reason: reason}
}

// DefaultPassingGrades are used when no grade policy is configured.
var DefaultPassingGrades = []string{"A", "B", "C", "CR", "P"}

// GradePolicy decides which grades count as passed.
type GradePolicy struct {
	passing map[string]struct{}
}

// NewGradePolicy builds a policy from a list of passing grades (case-insensitive).
func NewGradePolicy(passing []string) GradePolicy {
	if len(passing) == 0 {
		passing = DefaultPassingGrades
	}
	set := make(map[string]struct{}, len(passing))
	for _, grade := range passing {
		grade = strings.ToUpper(strings.TrimSpace(grade))
		if grade != "" {
			set[grade] = struct{}{}
		}
	}
	return GradePolicy{passing: set}
}

// Status derives the course status for a single grade.
func (p GradePolicy) Status(grade string) models.CourseStatus {
	grade = strings.ToUpper(strings.TrimSpace(grade))
	if grade == models.GradeInProgress {
		return models.CourseStatusInProgress
	}
	passing := p.passing
	if passing == nil {
		passing = NewGradePolicy(nil).passing
	}
	if _, ok := passing[grade]; ok {
		return models.CourseStatusPassed
	}
	return models.CourseStatusFailed
}

// CourseRecord is the resolved transcript status for one course code.
type CourseRecord struct {
	CourseCode string              `json:"courseCode"`
	CourseName string              `json:"courseName"`
	Grade      string              `json:"grade"`
	Status     models.CourseStatus `json:"status"`
}

// TranscriptIndex resolves course statuses from a student's transcript entries.
// When a course appears several times the best outcome wins: Passed, then In Progress, then Failed.
type TranscriptIndex struct {
	order   []string
	records map[string]CourseRecord
}

// NewTranscriptIndex indexes entries by course code.
func NewTranscriptIndex(entries []models.TranscriptEntry, grades GradePolicy) TranscriptIndex {
	idx := TranscriptIndex{records: make(map[string]CourseRecord, len(entries))}
	for _, entry := range entries {
		code := strings.TrimSpace(entry.CourseCode)
		if code == "" {
			continue
		}
		record := CourseRecord{
			CourseCode: code,
			CourseName: entry.CourseName,
			Grade:      strings.TrimSpace(entry.Grade),
			Status:     grades.Status(entry.Grade),
		}
		existing, ok := idx.records[code]
		if !ok {
			idx.order = append(idx.order, code)
			idx.records[code] = record
			continue
		}
		if statusRank(record.Status) > statusRank(existing.Status) {
			idx.records[code] = record
		}
	}
	return idx
}

func statusRank(status models.CourseStatus) int {
	switch status {
	case models.CourseStatusPassed:
		return 2
	case models.CourseStatusInProgress:
		return 1
	default:
		return 0
	}
}

// Lookup returns the record for a course code.
func (t TranscriptIndex) Lookup(courseCode string) (CourseRecord, bool) {
	record, ok := t.records[strings.TrimSpace(courseCode)]
	return record, ok
}

// Passed reports whether the course has a passing entry.
func (t TranscriptIndex) Passed(courseCode string) bool {
	record, ok := t.Lookup(courseCode)
	return ok && record.Status == models.CourseStatusPassed
}

// Records returns resolved records in first-seen transcript order.
func (t TranscriptIndex) Records() []CourseRecord {
	out := make([]CourseRecord, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, t.records[code])
	}
	return out
}

// InProgressPolicy decides when an in-progress course blocks re-offering its sections.
type InProgressPolicy string

const (
	InProgressWhenPlaced InProgressPolicy = "when-placed"
	InProgressAlways     InProgressPolicy = "always"
	InProgressNever      InProgressPolicy = "never"
)

// ParseInProgressPolicy falls back to when-placed for unknown values.
func ParseInProgressPolicy(raw string) InProgressPolicy {
	switch InProgressPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case InProgressAlways:
		return InProgressAlways
	case InProgressNever:
		return InProgressNever
	default:
		return InProgressWhenPlaced
	}
}

// Classifier decides whether a single section may be added to a schedule.
type Classifier struct {
	Grades     GradePolicy
	InProgress InProgressPolicy
}

// NewClassifier returns a classifier with the given grade and in-progress policies.
func NewClassifier(grades GradePolicy, inProgress InProgressPolicy) Classifier {
	return Classifier{Grades: grades, InProgress: inProgress}
}

// Classify evaluates the transcript, availability and prerequisite rules in order.
// No placed classes are known here, so an in-progress course only blocks under the always policy.
func (c Classifier) Classify(candidate models.ClassSection, transcript []models.TranscriptEntry, availability models.Availability) (Eligibility, error) {
	return c.classify(candidate, NewTranscriptIndex(transcript, c.Grades), availability, nil)
}

// ClassifyWithPlaced is Classify aware of the classes currently occupying the schedule,
// which resolves the in-progress rule under the when-placed policy.
func (c Classifier) ClassifyWithPlaced(candidate models.ClassSection, transcript []models.TranscriptEntry, availability models.Availability, placed []models.SelectedClass) (Eligibility, error) {
	return c.classify(candidate, NewTranscriptIndex(transcript, c.Grades), availability, placedCourseSet(placed))
}

func (c Classifier) classify(candidate models.ClassSection, transcript TranscriptIndex, availability models.Availability, placedCourses map[string]struct{}) (Eligibility, error) {
	if err := ValidateSection(candidate); err != nil {
		return Eligibility{}, err
	}
	if reason, ok := c.transcriptBlock(candidate.CourseCode, transcript, placedCourses); ok {
		return blocked(reason), nil
	}

	open, err := withinAvailability(candidate, availability)
	if err != nil {
		return Eligibility{}, err
	}
	if !open {
		return blocked(ReasonUnavailable), nil
	}

	prereq := strings.TrimSpace(candidate.PrerequisiteCourseCode)
	if prereq != "" && !transcript.Passed(prereq) {
		return blocked(ReasonPrerequisite), nil
	}
	return Eligibility{Status: StatusEligible}, nil
}

func placedCourseSet(placed []models.SelectedClass) map[string]struct{} {
	set := make(map[string]struct{}, len(placed))
	for _, item := range placed {
		set[strings.TrimSpace(item.Class.CourseCode)] = struct{}{}
	}
	return set
}

func (c Classifier) transcriptBlock(courseCode string, transcript TranscriptIndex, placedCourses map[string]struct{}) (string, bool) {
	record, ok := transcript.Lookup(courseCode)
	if !ok {
		return "", false
	}
	switch record.Status {
	case models.CourseStatusPassed:
		return ReasonCompleted, true
	case models.CourseStatusInProgress:
		if c.inProgressBlocks(courseCode, placedCourses) {
			return ReasonInProgress, true
		}
	}
	return "", false
}

func (c Classifier) inProgressBlocks(courseCode string, placedCourses map[string]struct{}) bool {
	switch c.InProgress {
	case InProgressAlways:
		return true
	case InProgressNever:
		return false
	default:
		_, placed := placedCourses[strings.TrimSpace(courseCode)]
		return placed
	}
}

// withinAvailability checks every meeting against the declared availability.
// An empty availability is open; otherwise each meeting needs a slot with the same
// range that is explicitly marked available on the meeting's day.
func withinAvailability(candidate models.ClassSection, availability models.Availability) (bool, error) {
	if len(availability) == 0 {
		return true, nil
	}
	placements, err := Placements(candidate)
	if err != nil {
		return false, err
	}
	slots, err := indexSlots(availability)
	if err != nil {
		return false, err
	}
	for _, p := range placements {
		days, ok := slots[p.Interval]
		if !ok || !days[p.Day] {
			return false, nil
		}
	}
	return true, nil
}

// SlotInterval parses the range at the end of an availability slot id.
func SlotInterval(slotID string) (TimeInterval, error) {
	start, end, ok := models.SlotRange(slotID)
	if !ok {
		return TimeInterval{}, appErrors.NewMalformedRange(slotID, "slot id must end with HH:MM-HH:MM")
	}
	return ParseRange(start + "-" + end)
}

// indexSlots keys availability by parsed interval with canonical day names.
// Several slot ids may share a range; a day is open if any of them opens it.
func indexSlots(availability models.Availability) (map[TimeInterval]map[string]bool, error) {
	out := make(map[TimeInterval]map[string]bool, len(availability))
	for slotID, days := range availability {
		interval, err := SlotInterval(slotID)
		if err != nil {
			return nil, err
		}
		bucket := out[interval]
		if bucket == nil {
			bucket = make(map[string]bool, len(days))
			out[interval] = bucket
		}
		for rawDay, open := range days {
			day, ok := NormalizeDay(rawDay)
			if !ok {
				continue
			}
			bucket[day] = bucket[day] || open
		}
	}
	return out, nil
}
