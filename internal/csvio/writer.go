package csvio

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// ConflictCSVRow is one line of a cohort conflict report.
type ConflictCSVRow struct {
	StudentA  string `csv:"student_a"`
	StudentB  string `csv:"student_b"`
	SectionA  string `csv:"section_a"`
	SectionB  string `csv:"section_b"`
	Kind      string `csv:"kind"`
	Day       string `csv:"day"`
	IntervalA string `csv:"interval_a"`
	IntervalB string `csv:"interval_b"`
}

// SectionCSVRow is one line of a student's partition listing.
type SectionCSVRow struct {
	Bucket      string `csv:"bucket"`
	SectionCode string `csv:"section_code"`
	CourseCode  string `csv:"course_code"`
	LectureDays string `csv:"lecture_days"`
	LectureTime string `csv:"lecture_time"`
	Reason      string `csv:"reason"`
}

func writer(out io.Writer, delim rune) *gocsv.SafeCSVWriter {
	w := csv.NewWriter(out)
	if delim != 0 {
		w.Comma = delim
	}
	return gocsv.NewSafeCSVWriter(w)
}

// WriteConflicts writes cohort conflicts in detection order.
func WriteConflicts(out io.Writer, delim rune, conflicts []models.CohortConflict) error {
	rows := make([]*ConflictCSVRow, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, &ConflictCSVRow{
			StudentA:  c.StudentA.ID,
			StudentB:  c.StudentB.ID,
			SectionA:  c.Conflict.SectionA,
			SectionB:  c.Conflict.SectionB,
			Kind:      string(c.Conflict.Kind),
			Day:       c.Conflict.Day,
			IntervalA: c.Conflict.IntervalA,
			IntervalB: c.Conflict.IntervalB,
		})
	}
	return gocsv.MarshalCSV(&rows, writer(out, delim))
}

// WriteSections writes rows produced by SectionRow.
func WriteSections(out io.Writer, delim rune, rows []*SectionCSVRow) error {
	return gocsv.MarshalCSV(&rows, writer(out, delim))
}

// SectionRow flattens a section for WriteSections.
func SectionRow(bucket string, section models.ClassSection, reason string) *SectionCSVRow {
	return &SectionCSVRow{
		Bucket:      bucket,
		SectionCode: section.SectionCode,
		CourseCode:  section.CourseCode,
		LectureDays: strings.Join(section.LectureDays, "/"),
		LectureTime: section.LectureTime,
		Reason:      reason,
	}
}
