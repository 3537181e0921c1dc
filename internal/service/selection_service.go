package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// SelectionStore keeps manual selections per student and term in memory.
// A session expires when it has not been touched for the configured TTL.
type SelectionStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	items map[string]selectionSession
}

type selectionSession struct {
	classes   []models.SelectedClass
	touchedAt time.Time
}

// NewSelectionStore builds a store; ttl <= 0 defaults to 12 hours.
func NewSelectionStore(ttl time.Duration) *SelectionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SelectionStore{ttl: ttl, now: time.Now, items: make(map[string]selectionSession)}
}

func sessionKey(studentID, term string) string {
	return strings.TrimSpace(studentID) + "|" + strings.TrimSpace(term)
}

// List returns a copy of the live selections in insertion order.
func (s *SelectionStore) List(studentID, term string) []models.SelectedClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.live(sessionKey(studentID, term))
	if current == nil {
		return nil
	}
	out := make([]models.SelectedClass, len(current))
	copy(out, current)
	return out
}

// live returns the session's classes, evicting it when expired. Callers hold mu.
func (s *SelectionStore) live(key string) []models.SelectedClass {
	session, ok := s.items[key]
	if !ok {
		return nil
	}
	if s.now().Sub(session.touchedAt) > s.ttl {
		delete(s.items, key)
		return nil
	}
	return session.classes
}

// Add appends a selection. It returns false when the same class is already stored.
func (s *SelectionStore) Add(studentID, term string, item models.SelectedClass) bool {
	key := sessionKey(studentID, term)
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.live(key)
	for _, existing := range current {
		if existing.ID == item.ID {
			return false
		}
	}
	classes := make([]models.SelectedClass, 0, len(current)+1)
	classes = append(append(classes, current...), item)
	s.items[key] = selectionSession{classes: classes, touchedAt: s.now()}
	return true
}

// Remove drops the selection with the given section code.
func (s *SelectionStore) Remove(studentID, term, sectionCode string) bool {
	key := sessionKey(studentID, term)
	sectionCode = strings.TrimSpace(sectionCode)
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.live(key)
	kept := make([]models.SelectedClass, 0, len(current))
	for _, item := range current {
		if strings.TrimSpace(item.Class.SectionCode) != sectionCode {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(current) {
		return false
	}
	s.items[key] = selectionSession{classes: kept, touchedAt: s.now()}
	return true
}

// Reset forgets every manual selection of the session.
func (s *SelectionStore) Reset(studentID, term string) {
	s.mu.Lock()
	delete(s.items, sessionKey(studentID, term))
	s.mu.Unlock()
}

type planProvider interface {
	Plan(ctx context.Context, studentID, term string) (*dto.PlanResponse, error)
	Classify(ctx context.Context, studentID, term, sectionCode string) (*dto.EligibilityResponse, error)
	ResolveTerm(term string) string
}

// SelectionService adds and removes manual selections, re-partitioning after each change.
type SelectionService struct {
	planner   planProvider
	store     *SelectionStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(planner planProvider, store *SelectionStore, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewSelectionStore(0)
	}
	return &SelectionService{planner: planner, store: store, validator: validate, logger: logger}
}

// List returns every class occupying the student's schedule.
func (s *SelectionService) List(ctx context.Context, studentID, term string) ([]models.SelectedClass, error) {
	plan, err := s.planner.Plan(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	return plan.Selected, nil
}

// Select adds a section that is currently available. Anything else is rejected with
// the classifier's reason or the first conflict found.
func (s *SelectionService) Select(ctx context.Context, studentID string, req dto.SelectSectionRequest) (*dto.PlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	term := s.planner.ResolveTerm(req.Term)
	plan, err := s.planner.Plan(ctx, studentID, term)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.SectionCode)
	var section *models.ClassSection
	for i := range plan.Available {
		if strings.TrimSpace(plan.Available[i].SectionCode) == code {
			section = &plan.Available[i]
			break
		}
	}
	if section == nil {
		return nil, s.rejection(ctx, studentID, term, code)
	}
	if !s.store.Add(plan.Student.ID, term, models.NewSelectedClass(*section, models.SelectionManual)) {
		return nil, appErrors.Clone(appErrors.ErrConflict, ReasonAlreadySelected)
	}
	s.logger.Info("section selected",
		zap.String("student_id", plan.Student.ID),
		zap.String("term", term),
		zap.String("section_code", code),
	)
	return s.planner.Plan(ctx, studentID, term)
}

// rejection explains why a section outside the available bucket cannot be selected.
func (s *SelectionService) rejection(ctx context.Context, studentID, term, code string) error {
	verdict, err := s.planner.Classify(ctx, studentID, term, code)
	if err != nil {
		return err
	}
	if !verdict.Eligibility.Eligible() {
		return appErrors.Clone(appErrors.ErrConflict, verdict.Eligibility.Reason)
	}
	for _, c := range verdict.Conflicts {
		if c.Kind == models.ConflictSameCourse {
			return appErrors.Clone(appErrors.ErrConflict, c.Reason)
		}
	}
	if len(verdict.Conflicts) > 0 {
		return appErrors.Clone(appErrors.ErrConflict, verdict.Conflicts[0].Reason)
	}
	return appErrors.Clone(appErrors.ErrConflict, "section is not available")
}

// Unselect removes a manual selection. Pre-scheduled classes belong to the external
// schedule and cannot be removed here.
func (s *SelectionService) Unselect(ctx context.Context, studentID, term, sectionCode string) (*dto.PlanResponse, error) {
	term = s.planner.ResolveTerm(term)
	plan, err := s.planner.Plan(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(sectionCode)
	if s.store.Remove(plan.Student.ID, term, code) {
		return s.planner.Plan(ctx, studentID, term)
	}
	for _, item := range plan.Selected {
		if strings.TrimSpace(item.Class.SectionCode) == code && item.Source == models.SelectionPreScheduled {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "pre-scheduled classes cannot be removed")
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "section is not selected")
}

// Reset clears every manual selection for the term.
func (s *SelectionService) Reset(ctx context.Context, studentID, term string) (*dto.PlanResponse, error) {
	term = s.planner.ResolveTerm(term)
	plan, err := s.planner.Plan(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	s.store.Reset(plan.Student.ID, term)
	return s.planner.Plan(ctx, studentID, term)
}
