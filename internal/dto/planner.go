package dto

import (
	"time"

	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/planner"
)

// PlanResponse is one student's catalog partition plus the classes occupying the schedule.
type PlanResponse struct {
	Student        models.Student               `json:"student"`
	Term           string                       `json:"term,omitempty"`
	Available      []models.ClassSection        `json:"available"`
	Conflicting    []planner.ConflictingSection `json:"conflicting"`
	Taken          []planner.TakenCourse        `json:"taken"`
	TranscriptOnly []planner.TranscriptCourse   `json:"transcriptOnly"`
	Selected       []models.SelectedClass       `json:"selected"`
	Dropped        []models.MissingReference    `json:"dropped,omitempty"`
}

// TranscriptResponse lists raw transcript entries and the resolved status per course.
type TranscriptResponse struct {
	StudentID string                   `json:"studentId"`
	Entries   []models.TranscriptEntry `json:"entries"`
	Courses   []planner.CourseRecord   `json:"courses"`
}

// EligibilityResponse explains whether one section can be added right now.
type EligibilityResponse struct {
	Section     models.ClassSection `json:"section"`
	Eligibility planner.Eligibility `json:"eligibility"`
	Conflicts   []models.Conflict   `json:"conflicts"`
	Selectable  bool                `json:"selectable"`
}

// SelectSectionRequest adds a catalog section to the manual selection.
type SelectSectionRequest struct {
	SectionCode string `json:"sectionCode" validate:"required,max=32"`
	Term        string `json:"term" validate:"omitempty,max=32"`
}

// ReplaceAvailabilityRequest replaces the whole availability grid.
// Slot ids must end with an HH:MM-HH:MM range.
type ReplaceAvailabilityRequest struct {
	Slots map[string]map[string]bool `json:"slots" validate:"required,dive,keys,required,max=64,endkeys"`
}

// ToggleAvailabilityRequest flips one slot/day cell.
type ToggleAvailabilityRequest struct {
	SlotID    string `json:"slotId" validate:"required,max=64"`
	Day       string `json:"day" validate:"required"`
	Available *bool  `json:"available" validate:"required"`
}

// AvailabilityResponse echoes the stored grid.
type AvailabilityResponse struct {
	StudentID string              `json:"studentId"`
	Slots     models.Availability `json:"slots"`
	Open      bool                `json:"open"`
}

// CohortReport is a memoized cohort conflict scan for one term.
type CohortReport struct {
	ID          string                    `json:"id"`
	Term        string                    `json:"term,omitempty"`
	GeneratedAt time.Time                 `json:"generatedAt"`
	Conflicts   []models.CohortConflict   `json:"conflicts"`
	Summary     models.ConflictSummary    `json:"summary"`
	Dropped     []models.MissingReference `json:"dropped,omitempty"`
}

// StudentCohortConflicts lists the cohort conflicts involving one student.
type StudentCohortConflicts struct {
	ReportID  string                    `json:"reportId"`
	StudentID string                    `json:"studentId"`
	Term      string                    `json:"term,omitempty"`
	Conflicts []models.CohortConflict   `json:"conflicts"`
	Dropped   []models.MissingReference `json:"dropped,omitempty"`
}

// TokenRequest exchanges API client credentials for a bearer token.
type TokenRequest struct {
	ClientID     string `json:"clientId" validate:"required"`
	ClientSecret string `json:"clientSecret" validate:"required"`
	Subject      string `json:"subject" validate:"omitempty,max=64"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
