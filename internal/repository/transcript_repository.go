package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// TranscriptRepository reads completed and in-progress coursework.
type TranscriptRepository struct {
	db *sqlx.DB
}

// NewTranscriptRepository constructs a TranscriptRepository.
func NewTranscriptRepository(db *sqlx.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// ListByStudent returns a student's transcript in recording order.
func (r *TranscriptRepository) ListByStudent(ctx context.Context, studentID string) ([]models.TranscriptEntry, error) {
	const query = `SELECT student_id, course_code, course_name, grade, term
        FROM transcript_entries WHERE student_id = $1 ORDER BY recorded_at ASC, course_code ASC`
	var entries []models.TranscriptEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list transcript for %s: %w", studentID, err)
	}
	return entries, nil
}
