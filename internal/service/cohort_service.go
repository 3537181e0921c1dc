package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/planner"
)

const cohortCachePrefix = "cohort:report:"

type cohortStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListAll(ctx context.Context) ([]models.Student, error)
}

type termPreScheduleReader interface {
	ListByTerm(ctx context.Context, term string) ([]models.PreScheduleEntry, error)
}

type reportWarmer interface {
	Enqueue(key string) error
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Invalidate(ctx context.Context, pattern string) error
}

// CohortConfig tunes the cohort report.
type CohortConfig struct {
	DefaultTerm       string
	TopConflicted     int
	CacheTTL          time.Duration
	MaxCatalogEntries int
}

// CohortService detects schedule conflicts between students of a cohort.
type CohortService struct {
	catalog      catalogReader
	students     cohortStudentReader
	preSchedules termPreScheduleReader
	cache        reportCache
	detector     *planner.CohortDetector
	metrics      *MetricsService
	logger       *zap.Logger
	cfg          CohortConfig
	now          func() time.Time
	warmer       reportWarmer
}

// NewCohortService wires cohort dependencies. cache may be nil.
func NewCohortService(
	catalog catalogReader,
	students cohortStudentReader,
	preSchedules termPreScheduleReader,
	cache reportCache,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg CohortConfig,
) *CohortService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopConflicted <= 0 {
		cfg.TopConflicted = planner.DefaultTopConflicted
	}
	return &CohortService{
		catalog:      catalog,
		students:     students,
		preSchedules: preSchedules,
		cache:        cache,
		detector:     planner.NewCohortDetector(),
		metrics:      metrics,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *CohortService) resolveTerm(term string) string {
	if term = strings.TrimSpace(term); term != "" {
		return term
	}
	return s.cfg.DefaultTerm
}

func cohortCacheKey(term string) string {
	if term == "" {
		term = "all"
	}
	return cohortCachePrefix + term
}

// Report returns the cohort conflict report for a term, served from cache when possible.
func (s *CohortService) Report(ctx context.Context, term string) (*dto.CohortReport, error) {
	report, _, err := s.ReportCached(ctx, term)
	return report, err
}

// ReportCached is Report that also tells whether the cache served the report.
func (s *CohortService) ReportCached(ctx context.Context, term string) (*dto.CohortReport, bool, error) {
	term = s.resolveTerm(term)
	key := cohortCacheKey(term)
	if s.cache != nil {
		var cached dto.CohortReport
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	report, err := s.build(ctx, term)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, report, s.cfg.CacheTTL)
	}
	return report, false, nil
}

func (s *CohortService) build(ctx context.Context, term string) (*dto.CohortReport, error) {
	catalog, err := s.catalog.ListByTerm(ctx, term, s.cfg.MaxCatalogEntries)
	if err != nil {
		return nil, plannerError(err, "failed to load catalog")
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, lookupError(err, "students not found", "failed to load students")
	}
	rows, err := s.preSchedules.ListByTerm(ctx, term)
	if err != nil {
		return nil, lookupError(err, "pre-schedule not found", "failed to load pre-schedule")
	}

	start := time.Now()
	result, err := s.detector.DetectAll(catalog, students, rows)
	if err != nil {
		return nil, plannerError(err, "failed to detect cohort conflicts")
	}
	summary := planner.Summarize(result.Conflicts, s.cfg.TopConflicted)

	byKind := make(map[string]int, len(summary.ConflictTypes))
	for kind, count := range summary.ConflictTypes {
		byKind[string(kind)] = count
	}
	s.metrics.ObserveCohortScan(time.Since(start), byKind)
	for _, dropped := range result.Dropped {
		s.metrics.RecordDroppedReference(dropped.Kind)
	}
	if len(result.Dropped) > 0 {
		s.logger.Warn("dropped pre-schedule rows with unknown references",
			zap.String("term", term),
			zap.Int("count", len(result.Dropped)),
		)
	}

	report := &dto.CohortReport{
		ID:          uuid.NewString(),
		Term:        term,
		GeneratedAt: s.now().UTC(),
		Conflicts:   result.Conflicts,
		Summary:     summary,
		Dropped:     result.Dropped,
	}
	s.logger.Info("cohort report built",
		zap.String("report_id", report.ID),
		zap.String("term", term),
		zap.Int("students", len(students)),
		zap.Int("conflicts", summary.TotalConflicts),
	)
	return report, nil
}

// Summary aggregates the cohort report. top <= 0 uses the configured count.
func (s *CohortService) Summary(ctx context.Context, term string, top int) (*models.ConflictSummary, error) {
	report, err := s.Report(ctx, term)
	if err != nil {
		return nil, err
	}
	if top <= 0 || top == s.cfg.TopConflicted {
		summary := report.Summary
		return &summary, nil
	}
	summary := planner.Summarize(report.Conflicts, top)
	return &summary, nil
}

// StudentConflicts lists the cohort conflicts involving one student.
func (s *CohortService) StudentConflicts(ctx context.Context, term, studentID string) (*dto.StudentCohortConflicts, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	report, err := s.Report(ctx, term)
	if err != nil {
		return nil, err
	}
	filtered := planner.FilterStudent(&planner.CohortResult{Conflicts: report.Conflicts, Dropped: report.Dropped}, student.ID)
	return &dto.StudentCohortConflicts{
		ReportID:  report.ID,
		StudentID: student.ID,
		Term:      report.Term,
		Conflicts: filtered.Conflicts,
		Dropped:   filtered.Dropped,
	}, nil
}

// Invalidate drops the cached report of a term, or every cached report when term is "*".
func (s *CohortService) Invalidate(ctx context.Context, term string) error {
	if s.cache == nil {
		return nil
	}
	if strings.TrimSpace(term) == "*" {
		if err := s.cache.Invalidate(ctx, cohortCachePrefix+"*"); err != nil {
			return fmt.Errorf("invalidate cohort reports: %w", err)
		}
		return nil
	}
	term = s.resolveTerm(term)
	if err := s.cache.Delete(ctx, cohortCacheKey(term)); err != nil {
		return fmt.Errorf("invalidate cohort report: %w", err)
	}
	if s.warmer != nil {
		if err := s.warmer.Enqueue(term); err != nil {
			s.logger.Warn("cohort report warm-up not scheduled", zap.String("term", term), zap.Error(err))
		}
	}
	return nil
}

// SetWarmer rebuilds invalidated reports in the background through w.
func (s *CohortService) SetWarmer(w reportWarmer) {
	s.warmer = w
}

// WarmReport rebuilds and caches the report of a term.
func (s *CohortService) WarmReport(ctx context.Context, term string) error {
	_, hit, err := s.ReportCached(ctx, term)
	if err != nil {
		return err
	}
	if !hit {
		s.logger.Debug("cohort report warmed", zap.String("term", term))
	}
	return nil
}
