package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type stubCatalog struct {
	sections  []models.ClassSection
	err       error
	lastTerm  string
	lastLimit int
}

func (s *stubCatalog) ListByTerm(ctx context.Context, term string, limit int) ([]models.ClassSection, error) {
	s.lastTerm, s.lastLimit = term, limit
	if s.err != nil {
		return nil, s.err
	}
	return s.sections, nil
}

type stubStudents struct {
	students map[string]models.Student
	listErr  error
	total    int
	filter   models.StudentFilter
}

func (s *stubStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

func (s *stubStudents) ListAll(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(s.students))
	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		if student, ok := s.students[id]; ok {
			out = append(out, student)
		}
	}
	return out, nil
}

func (s *stubStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	s.filter = filter
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	all, _ := s.ListAll(ctx)
	return all, s.total, nil
}

type stubTranscripts struct {
	entries map[string][]models.TranscriptEntry
	err     error
}

func (s *stubTranscripts) ListByStudent(ctx context.Context, studentID string) ([]models.TranscriptEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[studentID], nil
}

type stubPreSchedules struct {
	rows []models.PreScheduleEntry
	err  error
}

func (s *stubPreSchedules) ListByStudent(ctx context.Context, studentID, term string) ([]models.PreScheduleEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.PreScheduleEntry
	for _, row := range s.rows {
		if row.StudentID == studentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubPreSchedules) ListByTerm(ctx context.Context, term string) ([]models.PreScheduleEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

// memoryCache mimics CacheService over a map of JSON payloads.
type memoryCache struct {
	items   map[string][]byte
	gets    int
	hits    int
	deleted []string
	pattern string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	payload, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(payload, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = payload
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.items, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, pattern string) error {
	c.pattern = pattern
	c.items = make(map[string][]byte)
	return nil
}

func section(code, course string, days []string, lecture string) models.ClassSection {
	return models.ClassSection{
		Term:        "2024FA",
		SectionCode: code,
		CourseCode:  course,
		CourseName:  course + " course",
		LectureDays: days,
		LectureTime: lecture,
	}
}

func sampleCatalog() []models.ClassSection {
	c1 := section("C1", "MAT200", []string{"Friday"}, "13:00-14:15")
	c1.PrerequisiteCourseCode = "MAT100"
	return []models.ClassSection{
		section("A1", "ENG101", []string{"Monday", "Wednesday"}, "09:00-10:15"),
		section("A2", "ENG101", []string{"Tuesday", "Thursday"}, "09:00-10:15"),
		section("B1", "BUS101", []string{"Monday", "Wednesday"}, "09:30-10:45"),
		c1,
		section("D1", "ART110", []string{"Tuesday"}, "14:00-15:00"),
	}
}

func sampleStudents() *stubStudents {
	return &stubStudents{students: map[string]models.Student{
		"s1": {ID: "s1", Name: "Ada"},
		"s2": {ID: "s2", Name: "Alan"},
		"s3": {ID: "s3", Name: "Grace"},
	}}
}

func isCode(err error, target *appErrors.Error) bool {
	appErr := appErrors.FromError(err)
	return appErr != nil && appErr.Code == target.Code
}
