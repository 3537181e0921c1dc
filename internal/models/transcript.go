package models

// GradeInProgress marks a course the student is currently taking.
const GradeInProgress = "IP"

// CourseStatus is derived from a transcript grade.
type CourseStatus string

const (
	CourseStatusPassed     CourseStatus = "Passed"
	CourseStatusInProgress CourseStatus = "In Progress"
	CourseStatusFailed     CourseStatus = "Failed"
)

// TranscriptEntry is one graded (or in-progress) course on a student's record.
type TranscriptEntry struct {
	StudentID  string `db:"student_id" json:"studentId" csv:"student_id"`
	CourseCode string `db:"course_code" json:"courseCode" csv:"course_code"`
	CourseName string `db:"course_name" json:"courseName" csv:"course_name"`
	Grade      string `db:"grade" json:"grade" csv:"grade"`
	Term       string `db:"term" json:"term" csv:"term"`
}
