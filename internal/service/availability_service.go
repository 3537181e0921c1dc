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
	"github.com/noah-isme/class-planner-api/internal/planner"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type availabilityEntry struct {
	slots     models.Availability
	touchedAt time.Time
}

// AvailabilityService keeps each student's declared availability grid in memory.
type AvailabilityService struct {
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	items map[string]availabilityEntry
}

// NewAvailabilityService constructs an AvailabilityService; ttl <= 0 defaults to 12 hours.
func NewAvailabilityService(students studentReader, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AvailabilityService{
		students:  students,
		validator: validate,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
		items:     make(map[string]availabilityEntry),
	}
}

// Snapshot returns a copy of the stored grid, or nil when none is live.
func (s *AvailabilityService) Snapshot(studentID string) models.Availability {
	studentID = strings.TrimSpace(studentID)
	s.mu.RLock()
	entry, ok := s.items[studentID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.now().Sub(entry.touchedAt) > s.ttl {
		s.mu.Lock()
		delete(s.items, studentID)
		s.mu.Unlock()
		return nil
	}
	return entry.slots.Clone()
}

func (s *AvailabilityService) store(studentID string, slots models.Availability) {
	s.mu.Lock()
	s.items[strings.TrimSpace(studentID)] = availabilityEntry{slots: slots, touchedAt: s.now()}
	s.mu.Unlock()
}

func (s *AvailabilityService) ensureStudent(ctx context.Context, studentID string) (string, error) {
	if s.students == nil {
		return strings.TrimSpace(studentID), nil
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return "", lookupError(err, "student not found", "failed to load student")
	}
	return student.ID, nil
}

// Get returns the grid of a student. An empty grid means every time is open.
func (s *AvailabilityService) Get(ctx context.Context, studentID string) (*dto.AvailabilityResponse, error) {
	id, err := s.ensureStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return availabilityResponse(id, s.Snapshot(id)), nil
}

// Replace validates every slot id and day, then stores the grid with canonical day names.
func (s *AvailabilityService) Replace(ctx context.Context, studentID string, req dto.ReplaceAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	id, err := s.ensureStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	slots := make(models.Availability, len(req.Slots))
	for slotID, days := range req.Slots {
		if _, err := planner.SlotInterval(slotID); err != nil {
			return nil, err
		}
		normalized := make(models.DayAvailability, len(days))
		for rawDay, open := range days {
			day, ok := planner.NormalizeDay(rawDay)
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day "+rawDay)
			}
			normalized[day] = normalized[day] || open
		}
		slots[strings.TrimSpace(slotID)] = normalized
	}
	s.store(id, slots)
	s.logger.Info("availability replaced", zap.String("student_id", id), zap.Int("slots", len(slots)))
	return availabilityResponse(id, slots.Clone()), nil
}

// Toggle sets a single slot/day cell, creating the slot when needed.
func (s *AvailabilityService) Toggle(ctx context.Context, studentID string, req dto.ToggleAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability toggle")
	}
	if _, err := planner.SlotInterval(req.SlotID); err != nil {
		return nil, err
	}
	day, ok := planner.NormalizeDay(req.Day)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day "+req.Day)
	}
	id, err := s.ensureStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	slots := s.Snapshot(id)
	if slots == nil {
		slots = make(models.Availability)
	}
	slotID := strings.TrimSpace(req.SlotID)
	if slots[slotID] == nil {
		slots[slotID] = make(models.DayAvailability)
	}
	slots[slotID][day] = *req.Available
	s.store(id, slots)
	return availabilityResponse(id, slots.Clone()), nil
}

// Clear forgets the grid, reopening every time.
func (s *AvailabilityService) Clear(ctx context.Context, studentID string) error {
	id, err := s.ensureStudent(ctx, studentID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
	return nil
}

func availabilityResponse(studentID string, slots models.Availability) *dto.AvailabilityResponse {
	if slots == nil {
		slots = models.Availability{}
	}
	return &dto.AvailabilityResponse{StudentID: studentID, Slots: slots, Open: len(slots) == 0}
}
