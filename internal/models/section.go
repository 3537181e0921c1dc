package models

import "strings"

// Meeting identifies which component of a section a placement belongs to.
type Meeting string

const (
	MeetingLecture    Meeting = "lecture"
	MeetingDiscussion Meeting = "discussion"
)

// ClassSection is one offered instance of a course with its own meeting times.
type ClassSection struct {
	Term                   string   `db:"term" json:"term,omitempty"`
	SectionCode            string   `db:"section_code" json:"sectionCode"`
	CourseCode             string   `db:"course_code" json:"courseCode"`
	CourseName             string   `db:"course_name" json:"courseName"`
	TimeSlot               string   `db:"time_slot" json:"timeSlot,omitempty"`
	LectureDays            []string `db:"-" json:"lectureDays"`
	LectureTime            string   `db:"lecture_time" json:"lectureTime"`
	DiscussionDay          string   `db:"-" json:"discussionDay,omitempty"`
	DiscussionTime         string   `db:"-" json:"discussionTime,omitempty"`
	PrerequisiteCourseCode string   `db:"-" json:"prerequisiteCourseCode,omitempty"`
}

// HasDiscussion reports whether the section carries a discussion meeting.
func (c ClassSection) HasDiscussion() bool {
	return strings.TrimSpace(c.DiscussionDay) != "" || strings.TrimSpace(c.DiscussionTime) != ""
}

// SelectionSource tells where a selected class came from.
type SelectionSource string

const (
	SelectionManual       SelectionSource = "manual"
	SelectionPreScheduled SelectionSource = "pre-scheduled"
)

// SelectedClass is a section the user added or that was pre-scheduled externally.
type SelectedClass struct {
	ID     string          `json:"id"`
	Class  ClassSection    `json:"class"`
	Source SelectionSource `json:"source"`
}

// SelectedClassID builds the uniqueness key of a selected class.
func SelectedClassID(section ClassSection) string {
	return section.CourseCode + "-" + section.SectionCode
}

// NewSelectedClass wraps a section as a selection.
func NewSelectedClass(section ClassSection, source SelectionSource) SelectedClass {
	return SelectedClass{ID: SelectedClassID(section), Class: section, Source: source}
}

// PreScheduleEntry is an externally committed placement for a student.
type PreScheduleEntry struct {
	StudentID   string `db:"student_id" json:"studentId" csv:"student_id"`
	SectionCode string `db:"section_code" json:"sectionCode" csv:"section_code"`
	Term        string `db:"term" json:"term,omitempty" csv:"term"`
}
