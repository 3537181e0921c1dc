package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/planner"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type catalogReader interface {
	ListByTerm(ctx context.Context, term string, limit int) ([]models.ClassSection, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type transcriptReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.TranscriptEntry, error)
}

type studentPreScheduleReader interface {
	ListByStudent(ctx context.Context, studentID, term string) ([]models.PreScheduleEntry, error)
}

type manualSelectionReader interface {
	List(studentID, term string) []models.SelectedClass
}

type availabilityReader interface {
	Snapshot(studentID string) models.Availability
}

// PlannerConfig tunes the classifier and catalog loading.
type PlannerConfig struct {
	PassingGrades     []string
	InProgressPolicy  string
	DefaultTerm       string
	MaxCatalogEntries int
}

// PlannerService assembles a student's planning inputs and partitions the catalog.
type PlannerService struct {
	catalog      catalogReader
	students     studentReader
	transcripts  transcriptReader
	preSchedules studentPreScheduleReader
	selections   manualSelectionReader
	availability availabilityReader
	partitioner  *planner.Partitioner
	metrics      *MetricsService
	logger       *zap.Logger
	cfg          PlannerConfig
}

// NewPlannerService wires planner dependencies.
func NewPlannerService(
	catalog catalogReader,
	students studentReader,
	transcripts transcriptReader,
	preSchedules studentPreScheduleReader,
	selections manualSelectionReader,
	availability availabilityReader,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg PlannerConfig,
) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	classifier := planner.NewClassifier(
		planner.NewGradePolicy(cfg.PassingGrades),
		planner.ParseInProgressPolicy(cfg.InProgressPolicy),
	)
	return &PlannerService{
		catalog:      catalog,
		students:     students,
		transcripts:  transcripts,
		preSchedules: preSchedules,
		selections:   selections,
		availability: availability,
		partitioner:  planner.NewPartitioner(classifier),
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
	}
}

// ResolveTerm falls back to the configured default term.
func (s *PlannerService) ResolveTerm(term string) string {
	if term = strings.TrimSpace(term); term != "" {
		return term
	}
	return s.cfg.DefaultTerm
}

// planInputs is everything the partitioner needs for one student.
type planInputs struct {
	student      models.Student
	term         string
	catalog      []models.ClassSection
	transcript   []models.TranscriptEntry
	placed       []models.SelectedClass
	availability models.Availability
	dropped      []models.MissingReference
}

func (s *PlannerService) load(ctx context.Context, studentID, term string) (*planInputs, error) {
	term = s.ResolveTerm(term)
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}

	catalog, err := s.catalog.ListByTerm(ctx, term, s.cfg.MaxCatalogEntries)
	if err != nil {
		return nil, plannerError(err, "failed to load catalog")
	}
	transcript, err := s.transcripts.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transcript")
	}
	rows, err := s.preSchedules.ListByStudent(ctx, student.ID, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pre-schedule")
	}

	in := &planInputs{
		student:    *student,
		term:       term,
		catalog:    catalog,
		transcript: transcript,
	}
	in.placed, in.dropped = s.resolvePlaced(student.ID, term, catalog, rows)
	if s.availability != nil {
		in.availability = s.availability.Snapshot(student.ID)
	}
	return in, nil
}

// resolvePlaced merges pre-scheduled rows with manual selections. Rows naming a section
// missing from the catalog are dropped and reported.
func (s *PlannerService) resolvePlaced(studentID, term string, catalog []models.ClassSection, rows []models.PreScheduleEntry) ([]models.SelectedClass, []models.MissingReference) {
	byCode := make(map[string]models.ClassSection, len(catalog))
	for _, section := range catalog {
		code := strings.TrimSpace(section.SectionCode)
		if _, exists := byCode[code]; !exists {
			byCode[code] = section
		}
	}

	placed := make([]models.SelectedClass, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	var dropped []models.MissingReference
	for _, row := range rows {
		code := strings.TrimSpace(row.SectionCode)
		section, ok := byCode[code]
		if !ok {
			dropped = append(dropped, models.MissingReference{Kind: models.MissingSection, StudentID: studentID, Reference: code})
			s.metrics.RecordDroppedReference(models.MissingSection)
			continue
		}
		item := models.NewSelectedClass(section, models.SelectionPreScheduled)
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		placed = append(placed, item)
	}
	if len(dropped) > 0 {
		s.logger.Warn("dropped pre-schedule rows with unknown sections",
			zap.String("student_id", studentID),
			zap.String("term", term),
			zap.Int("count", len(dropped)),
		)
	}

	if s.selections != nil {
		for _, item := range s.selections.List(studentID, term) {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			placed = append(placed, item)
		}
	}
	return placed, dropped
}

// Plan partitions the catalog for a student's current selection state.
func (s *PlannerService) Plan(ctx context.Context, studentID, term string) (*dto.PlanResponse, error) {
	in, err := s.load(ctx, studentID, term)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	partition, err := s.partitioner.Partition(in.catalog, in.transcript, in.availability, in.placed)
	s.metrics.ObservePartition(err == nil, time.Since(start))
	if err != nil {
		return nil, plannerError(err, "failed to partition catalog")
	}

	return &dto.PlanResponse{
		Student:        in.student,
		Term:           in.term,
		Available:      partition.Available,
		Conflicting:    partition.Conflicting,
		Taken:          partition.Taken,
		TranscriptOnly: partition.TranscriptOnly,
		Selected:       in.placed,
		Dropped:        in.dropped,
	}, nil
}

// Classify evaluates one catalog section against the student's current state.
func (s *PlannerService) Classify(ctx context.Context, studentID, term, sectionCode string) (*dto.EligibilityResponse, error) {
	in, err := s.load(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	sectionCode = strings.TrimSpace(sectionCode)
	var candidate *models.ClassSection
	for i := range in.catalog {
		if strings.TrimSpace(in.catalog[i].SectionCode) == sectionCode {
			candidate = &in.catalog[i]
			break
		}
	}
	if candidate == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}

	classifier := s.partitioner.Classifier
	eligibility, err := classifier.ClassifyWithPlaced(*candidate, in.transcript, in.availability, in.placed)
	if err != nil {
		return nil, plannerError(err, "failed to classify section")
	}
	resp := &dto.EligibilityResponse{Section: *candidate, Eligibility: eligibility, Conflicts: []models.Conflict{}}
	if !eligibility.Eligible() {
		return resp, nil
	}

	placedSections := make([]models.ClassSection, 0, len(in.placed))
	for _, item := range in.placed {
		if item.ID == models.SelectedClassID(*candidate) {
			resp.Conflicts = append(resp.Conflicts, models.Conflict{
				SectionA: candidate.SectionCode,
				CourseA:  candidate.CourseCode,
				SectionB: item.Class.SectionCode,
				CourseB:  item.Class.CourseCode,
				Kind:     models.ConflictSameCourse,
				Reason:   ReasonAlreadySelected,
			})
			return resp, nil
		}
		placedSections = append(placedSections, item.Class)
	}
	conflicts, err := planner.FindConflicts(*candidate, placedSections)
	if err != nil {
		return nil, plannerError(err, "failed to evaluate conflicts")
	}
	if conflicts != nil {
		resp.Conflicts = conflicts
	}
	resp.Selectable = len(conflicts) == 0
	return resp, nil
}

// ReasonAlreadySelected explains why a placed section cannot be added again.
const ReasonAlreadySelected = "section already selected"

// plannerError keeps typed domain errors and wraps anything else as internal.
func plannerError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// lookupError maps sql.ErrNoRows to NOT_FOUND and anything else to INTERNAL_ERROR.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
}
