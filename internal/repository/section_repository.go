package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

const sectionColumns = `term, section_code, course_code, course_name, time_slot,
        lecture_day_1, lecture_day_2, lecture_time, ds_day, ds_time, prerequisite_course_code`

// sectionRow mirrors the class_sections table; optional meetings are nullable.
type sectionRow struct {
	Term           string         `db:"term"`
	SectionCode    string         `db:"section_code"`
	CourseCode     string         `db:"course_code"`
	CourseName     string         `db:"course_name"`
	TimeSlot       sql.NullString `db:"time_slot"`
	LectureDay1    string         `db:"lecture_day_1"`
	LectureDay2    sql.NullString `db:"lecture_day_2"`
	LectureTime    string         `db:"lecture_time"`
	DiscussionDay  sql.NullString `db:"ds_day"`
	DiscussionTime sql.NullString `db:"ds_time"`
	Prerequisite   sql.NullString `db:"prerequisite_course_code"`
}

func (r sectionRow) toModel() models.ClassSection {
	days := []string{strings.TrimSpace(r.LectureDay1)}
	if second := strings.TrimSpace(r.LectureDay2.String); r.LectureDay2.Valid && second != "" {
		days = append(days, second)
	}
	return models.ClassSection{
		Term:                   r.Term,
		SectionCode:            strings.TrimSpace(r.SectionCode),
		CourseCode:             strings.TrimSpace(r.CourseCode),
		CourseName:             r.CourseName,
		TimeSlot:               r.TimeSlot.String,
		LectureDays:            days,
		LectureTime:            r.LectureTime,
		DiscussionDay:          r.DiscussionDay.String,
		DiscussionTime:         r.DiscussionTime.String,
		PrerequisiteCourseCode: strings.TrimSpace(r.Prerequisite.String),
	}
}

// SectionRepository reads the class catalog.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListByTerm returns the catalog of a term in catalog order. An empty term lists every term.
// A catalog larger than limit fails with ErrCatalogTooLarge instead of being truncated;
// limit <= 0 disables the cap.
func (r *SectionRepository) ListByTerm(ctx context.Context, term string, limit int) ([]models.ClassSection, error) {
	query := fmt.Sprintf("SELECT %s FROM class_sections", sectionColumns)
	var args []interface{}
	if term != "" {
		query += " WHERE term = $1"
		args = append(args, term)
	}
	query += " ORDER BY course_code ASC, section_code ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit+1)
	}

	var rows []sectionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list class sections: %w", err)
	}
	if limit > 0 && len(rows) > limit {
		return nil, appErrors.Clone(appErrors.ErrCatalogTooLarge,
			fmt.Sprintf("catalog for term %q has more than %d sections", term, limit))
	}
	sections := make([]models.ClassSection, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, row.toModel())
	}
	return sections, nil
}
