package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// PreScheduleRepository reads the externally assigned pre-schedule rows.
type PreScheduleRepository struct {
	db *sqlx.DB
}

// NewPreScheduleRepository constructs a PreScheduleRepository.
func NewPreScheduleRepository(db *sqlx.DB) *PreScheduleRepository {
	return &PreScheduleRepository{db: db}
}

// ListByTerm returns every pre-schedule row of a term in insertion order.
func (r *PreScheduleRepository) ListByTerm(ctx context.Context, term string) ([]models.PreScheduleEntry, error) {
	query := "SELECT student_id, section_code, term FROM pre_schedules"
	var args []interface{}
	if term != "" {
		query += " WHERE term = $1"
		args = append(args, term)
	}
	query += " ORDER BY id ASC"

	var entries []models.PreScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list pre-schedules: %w", err)
	}
	return entries, nil
}

// ListByStudent returns the pre-schedule rows of one student.
func (r *PreScheduleRepository) ListByStudent(ctx context.Context, studentID, term string) ([]models.PreScheduleEntry, error) {
	query := "SELECT student_id, section_code, term FROM pre_schedules WHERE student_id = $1"
	args := []interface{}{studentID}
	if term != "" {
		query += " AND term = $2"
		args = append(args, term)
	}
	query += " ORDER BY id ASC"

	var entries []models.PreScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list pre-schedule for %s: %w", studentID, err)
	}
	return entries, nil
}
