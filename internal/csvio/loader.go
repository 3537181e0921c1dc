// Package csvio reads offline planner feeds and writes conflict reports as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// catalogRow uses the column headers of the registrar's catalog export.
type catalogRow struct {
	Term           string `csv:"Term"`
	SectionCode    string `csv:"Section Code"`
	CourseCode     string `csv:"Course Code"`
	CourseName     string `csv:"Course Name"`
	TimeSlot       string `csv:"Time Slot"`
	LectureDay1    string `csv:"Lecture Day 1"`
	LectureDay2    string `csv:"Lecture Day 2"`
	LectureTime    string `csv:"Lecture Time"`
	DiscussionDay  string `csv:"DS Day"`
	DiscussionTime string `csv:"DS Time"`
	Prerequisite   string `csv:"Prerequisite"`
}

type studentRow struct {
	ID         string `csv:"id"`
	Name       string `csv:"name"`
	Email      string `csv:"email"`
	CoachName  string `csv:"coach_name"`
	TermStatus string `csv:"term_status"`
	TermNumber string `csv:"term_number"`
}

// transcriptRow carries the student columns repeated on every transcript line.
type transcriptRow struct {
	models.TranscriptEntry
	StudentName string `csv:"student_name"`
	Email       string `csv:"email"`
}

// Loader parses CSV feeds split by Delimiter (',' when zero).
type Loader struct {
	Delimiter rune
}

// NewLoader returns a loader for the given delimiter.
func NewLoader(delim rune) *Loader {
	return &Loader{Delimiter: delim}
}

func (l *Loader) reader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	if l.Delimiter != 0 {
		r.Comma = l.Delimiter
	}
	r.TrimLeadingSpace = true
	return r
}

func (l *Loader) unmarshal(in io.Reader, out interface{}, name string) error {
	if err := gocsv.UnmarshalCSV(l.reader(in), out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// ReadCatalog parses catalog rows into sections. Rows without a section code are skipped.
func (l *Loader) ReadCatalog(in io.Reader) ([]models.ClassSection, error) {
	var rows []*catalogRow
	if err := l.unmarshal(in, &rows, "catalog"); err != nil {
		return nil, err
	}
	sections := make([]models.ClassSection, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.SectionCode) == "" {
			continue
		}
		days := []string{}
		for _, day := range []string{row.LectureDay1, row.LectureDay2} {
			if day = strings.TrimSpace(day); day != "" {
				days = append(days, day)
			}
		}
		sections = append(sections, models.ClassSection{
			Term:                   strings.TrimSpace(row.Term),
			SectionCode:            strings.TrimSpace(row.SectionCode),
			CourseCode:             strings.TrimSpace(row.CourseCode),
			CourseName:             strings.TrimSpace(row.CourseName),
			TimeSlot:               strings.TrimSpace(row.TimeSlot),
			LectureDays:            days,
			LectureTime:            strings.TrimSpace(row.LectureTime),
			DiscussionDay:          strings.TrimSpace(row.DiscussionDay),
			DiscussionTime:         strings.TrimSpace(row.DiscussionTime),
			PrerequisiteCourseCode: strings.TrimSpace(row.Prerequisite),
		})
	}
	return sections, nil
}

// ReadStudents parses a student roster.
func (l *Loader) ReadStudents(in io.Reader) ([]models.Student, error) {
	var rows []*studentRow
	if err := l.unmarshal(in, &rows, "students"); err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		id := strings.TrimSpace(row.ID)
		if id == "" {
			continue
		}
		students = append(students, models.Student{
			ID:         id,
			Name:       strings.TrimSpace(row.Name),
			Email:      strings.TrimSpace(row.Email),
			CoachName:  strings.TrimSpace(row.CoachName),
			TermStatus: strings.TrimSpace(row.TermStatus),
			TermNumber: strings.TrimSpace(row.TermNumber),
		})
	}
	return students, nil
}

// ReadTranscripts parses transcript lines. It also returns the students named on those
// lines in first-seen order, for feeds that come without a separate roster.
func (l *Loader) ReadTranscripts(in io.Reader) ([]models.TranscriptEntry, []models.Student, error) {
	var rows []*transcriptRow
	if err := l.unmarshal(in, &rows, "transcripts"); err != nil {
		return nil, nil, err
	}
	entries := make([]models.TranscriptEntry, 0, len(rows))
	var students []models.Student
	seen := make(map[string]struct{})
	for _, row := range rows {
		entry := row.TranscriptEntry
		entry.StudentID = strings.TrimSpace(entry.StudentID)
		entry.CourseCode = strings.TrimSpace(entry.CourseCode)
		if entry.StudentID == "" || entry.CourseCode == "" {
			continue
		}
		entries = append(entries, entry)
		if _, ok := seen[entry.StudentID]; ok {
			continue
		}
		seen[entry.StudentID] = struct{}{}
		students = append(students, models.Student{
			ID:    entry.StudentID,
			Name:  strings.TrimSpace(row.StudentName),
			Email: strings.TrimSpace(row.Email),
		})
	}
	return entries, students, nil
}

// ReadPreSchedules parses externally committed placements.
func (l *Loader) ReadPreSchedules(in io.Reader) ([]models.PreScheduleEntry, error) {
	var rows []*models.PreScheduleEntry
	if err := l.unmarshal(in, &rows, "pre-schedules"); err != nil {
		return nil, err
	}
	entries := make([]models.PreScheduleEntry, 0, len(rows))
	for _, row := range rows {
		entry := models.PreScheduleEntry{
			StudentID:   strings.TrimSpace(row.StudentID),
			SectionCode: strings.TrimSpace(row.SectionCode),
			Term:        strings.TrimSpace(row.Term),
		}
		if entry.StudentID == "" || entry.SectionCode == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ReadFile opens path and hands it to read.
func ReadFile(path string, read func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return read(file)
}
