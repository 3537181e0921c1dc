package models

// ConflictKind classifies why two sections collide.
type ConflictKind string

const (
	ConflictLecture           ConflictKind = "lecture"
	ConflictDiscussion        ConflictKind = "discussion"
	ConflictLectureDiscussion ConflictKind = "lecture-discussion"
	ConflictSameCourse        ConflictKind = "same-course"
)

// ReasonSameCourse is reported for the duplicate-course rule.
const ReasonSameCourse = "same course already selected"

// Conflict describes one colliding pair of meetings (or a duplicate course).
type Conflict struct {
	SectionA  string       `json:"sectionA"`
	CourseA   string       `json:"courseA"`
	SectionB  string       `json:"sectionB"`
	CourseB   string       `json:"courseB"`
	Kind      ConflictKind `json:"kind"`
	Day       string       `json:"day,omitempty"`
	IntervalA string       `json:"intervalA,omitempty"`
	IntervalB string       `json:"intervalB,omitempty"`
	Reason    string       `json:"reason"`
}

// CohortConflict attaches the two students whose pre-schedules collide.
type CohortConflict struct {
	StudentA Student  `json:"studentA"`
	StudentB Student  `json:"studentB"`
	Conflict Conflict `json:"conflict"`
}

// StudentConflictCount ranks students by the number of conflicts they are part of.
type StudentConflictCount struct {
	Student       Student `json:"student"`
	ConflictCount int     `json:"conflictCount"`
}

// ConflictSummary aggregates cohort conflicts.
type ConflictSummary struct {
	TotalConflicts        int                    `json:"totalConflicts"`
	StudentsWithConflicts int                    `json:"studentsWithConflicts"`
	ConflictTypes         map[ConflictKind]int   `json:"conflictTypes"`
	MostConflicted        []StudentConflictCount `json:"mostConflictedStudents"`
}

// MissingReference records an input row dropped because it points at unknown data.
type MissingReference struct {
	Kind      string `json:"kind"`
	StudentID string `json:"studentId,omitempty"`
	Reference string `json:"reference"`
}

// Missing reference kinds.
const (
	MissingSection = "section"
	MissingStudent = "student"
	MissingCourse  = "course"
)
