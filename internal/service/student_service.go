package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/planner"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// StudentService exposes student records and their transcripts.
type StudentService struct {
	repo        studentRepository
	transcripts transcriptReader
	grades      planner.GradePolicy
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, transcripts transcriptReader, passingGrades []string, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:        repo,
		transcripts: transcripts,
		grades:      planner.NewGradePolicy(passingGrades),
		logger:      logger,
	}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Transcript returns the raw entries and the per-course status the planner will use.
func (s *StudentService) Transcript(ctx context.Context, id string) (*dto.TranscriptResponse, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.transcripts.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transcript")
	}
	if entries == nil {
		entries = []models.TranscriptEntry{}
	}
	return &dto.TranscriptResponse{
		StudentID: student.ID,
		Entries:   entries,
		Courses:   planner.NewTranscriptIndex(entries, s.grades).Records(),
	}, nil
}
