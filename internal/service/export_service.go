package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/export"
)

// ExportFormat names a rendered document type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ParseExportFormat defaults to CSV when raw is empty.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

// ExportFile is a rendered document ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

type cohortReporter interface {
	Report(ctx context.Context, term string) (*dto.CohortReport, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	TimezoneLabel string
}

// ExportService renders schedules and cohort reports into CSV or PDF documents.
type ExportService struct {
	planner   planProvider
	cohort    cohortReporter
	renderers map[ExportFormat]datasetRenderer
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(planner planProvider, cohort cohortReporter, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		planner: planner,
		cohort:  cohort,
		renderers: map[ExportFormat]datasetRenderer{
			ExportCSV: export.NewCSVExporter(),
			ExportPDF: export.NewPDFExporter(),
		},
		logger: logger,
		cfg:    cfg,
	}
}

var scheduleHeaders = []string{"Section", "Course", "Name", "Source", "Lecture Days", "Lecture Time", "Discussion Day", "Discussion Time"}

// Schedule renders the classes placed on a student's schedule.
func (s *ExportService) Schedule(ctx context.Context, studentID, term string, format ExportFormat) (*ExportFile, error) {
	plan, err := s.planner.Plan(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(plan.Selected))
	for _, item := range plan.Selected {
		rows = append(rows, map[string]string{
			"Section":         item.Class.SectionCode,
			"Course":          item.Class.CourseCode,
			"Name":            item.Class.CourseName,
			"Source":          string(item.Source),
			"Lecture Days":    strings.Join(item.Class.LectureDays, ", "),
			"Lecture Time":    item.Class.LectureTime,
			"Discussion Day":  item.Class.DiscussionDay,
			"Discussion Time": item.Class.DiscussionTime,
		})
	}
	data := export.Dataset{
		Title:    fmt.Sprintf("Schedule of %s", displayName(plan.Student)),
		Subtitle: s.subtitle(plan.Term),
		Headers:  scheduleHeaders,
		Rows:     rows,
	}
	return s.render(format, fmt.Sprintf("schedule-%s", slug(plan.Student.ID, plan.Term)), data)
}

var cohortHeaders = []string{"Student A", "Student B", "Kind", "Day", "Section A", "Time A", "Section B", "Time B"}

// Cohort renders every inter-student conflict of a term.
func (s *ExportService) Cohort(ctx context.Context, term string, format ExportFormat) (*ExportFile, error) {
	report, err := s.cohort.Report(ctx, term)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]string, 0, len(report.Conflicts))
	for _, c := range report.Conflicts {
		rows = append(rows, map[string]string{
			"Student A": displayName(c.StudentA),
			"Student B": displayName(c.StudentB),
			"Kind":      string(c.Conflict.Kind),
			"Day":       c.Conflict.Day,
			"Section A": c.Conflict.SectionA,
			"Time A":    c.Conflict.IntervalA,
			"Section B": c.Conflict.SectionB,
			"Time B":    c.Conflict.IntervalB,
		})
	}
	data := export.Dataset{
		Title:    fmt.Sprintf("Cohort conflicts (%d)", report.Summary.TotalConflicts),
		Subtitle: s.subtitle(report.Term),
		Headers:  cohortHeaders,
		Rows:     rows,
	}
	return s.render(format, fmt.Sprintf("cohort-conflicts-%s", slug(report.Term)), data)
}

func (s *ExportService) render(format ExportFormat, basename string, data export.Dataset) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("export rendered", zap.String("file", basename), zap.String("format", string(format)), zap.Int("rows", len(data.Rows)))
	return &ExportFile{
		Filename:    basename + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *ExportService) subtitle(term string) string {
	parts := make([]string, 0, 2)
	if term != "" {
		parts = append(parts, "Term "+term)
	}
	if s.cfg.TimezoneLabel != "" {
		parts = append(parts, "Times shown in "+s.cfg.TimezoneLabel)
	}
	return strings.Join(parts, " | ")
}

func displayName(student models.Student) string {
	if strings.TrimSpace(student.Name) == "" {
		return student.ID
	}
	return fmt.Sprintf("%s (%s)", student.Name, student.ID)
}

func slug(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kept = append(kept, strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
				return r
			}
			return '_'
		}, part))
	}
	if len(kept) == 0 {
		return "all"
	}
	return strings.Join(kept, "-")
}
