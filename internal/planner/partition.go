package planner

import (
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// ConflictingSection is a catalog section that cannot be added right now.
type ConflictingSection struct {
	Section   models.ClassSection `json:"section"`
	Reason    string              `json:"reason"`
	Conflicts []models.Conflict   `json:"conflicts,omitempty"`
}

// TakenCourse is a catalog course already satisfied by the transcript.
// Section is the first catalog section of the course that is not currently placed.
type TakenCourse struct {
	CourseCode string               `json:"courseCode"`
	CourseName string               `json:"courseName"`
	Grade      string               `json:"grade"`
	Status     models.CourseStatus  `json:"status"`
	Section    *models.ClassSection `json:"section,omitempty"`
}

// TranscriptCourse is a completed or in-progress course missing from the catalog.
type TranscriptCourse struct {
	CourseCode string              `json:"courseCode"`
	CourseName string              `json:"courseName"`
	Grade      string              `json:"grade"`
	Status     models.CourseStatus `json:"status"`
}

// Partition splits the catalog for one student's current selection state.
type Partition struct {
	Available      []models.ClassSection `json:"available"`
	Conflicting    []ConflictingSection  `json:"conflicting"`
	Taken          []TakenCourse         `json:"taken"`
	TranscriptOnly []TranscriptCourse    `json:"transcriptOnly"`
}

// Partitioner runs the classifier and conflict evaluator over a whole catalog.
type Partitioner struct {
	Classifier Classifier
}

// NewPartitioner builds a partitioner around a classifier.
func NewPartitioner(classifier Classifier) *Partitioner {
	return &Partitioner{Classifier: classifier}
}

// Partition derives the available, conflicting, taken and transcript-only buckets.
// It is a pure function of its arguments; callers re-run it after every change.
func (p *Partitioner) Partition(
	catalog []models.ClassSection,
	transcript []models.TranscriptEntry,
	availability models.Availability,
	placed []models.SelectedClass,
) (*Partition, error) {
	result := &Partition{
		Available:      []models.ClassSection{},
		Conflicting:    []ConflictingSection{},
		Taken:          []TakenCourse{},
		TranscriptOnly: []TranscriptCourse{},
	}

	index := NewTranscriptIndex(transcript, p.Classifier.Grades)
	placedIDs := make(map[string]struct{}, len(placed))
	placedSections := make([]models.ClassSection, 0, len(placed))
	for _, item := range placed {
		id := item.ID
		if id == "" {
			id = models.SelectedClassID(item.Class)
		}
		placedIDs[id] = struct{}{}
		placedSections = append(placedSections, item.Class)
	}
	placedCourses := placedCourseSet(placed)

	catalogCourses := make(map[string][]models.ClassSection)
	for _, section := range catalog {
		code := strings.TrimSpace(section.CourseCode)
		catalogCourses[code] = append(catalogCourses[code], section)
	}

	takenCodes := make(map[string]struct{})
	for _, record := range index.Records() {
		sections, inCatalog := catalogCourses[record.CourseCode]
		if !inCatalog {
			if record.Status == models.CourseStatusPassed || record.Status == models.CourseStatusInProgress {
				result.TranscriptOnly = append(result.TranscriptOnly, TranscriptCourse{
					CourseCode: record.CourseCode,
					CourseName: record.CourseName,
					Grade:      record.Grade,
					Status:     record.Status,
				})
			}
			continue
		}
		if _, blocks := p.Classifier.transcriptBlock(record.CourseCode, index, placedCourses); !blocks {
			continue
		}
		taken := TakenCourse{
			CourseCode: record.CourseCode,
			CourseName: record.CourseName,
			Grade:      record.Grade,
			Status:     record.Status,
		}
		for i := range sections {
			if _, isPlaced := placedIDs[models.SelectedClassID(sections[i])]; isPlaced {
				continue
			}
			representative := sections[i]
			taken.Section = &representative
			if taken.CourseName == "" {
				taken.CourseName = representative.CourseName
			}
			break
		}
		takenCodes[record.CourseCode] = struct{}{}
		result.Taken = append(result.Taken, taken)
	}

	for _, section := range catalog {
		if _, isPlaced := placedIDs[models.SelectedClassID(section)]; isPlaced {
			continue
		}
		if _, isTaken := takenCodes[strings.TrimSpace(section.CourseCode)]; isTaken {
			continue
		}

		eligibility, err := p.Classifier.classify(section, index, availability, placedCourses)
		if err != nil {
			return nil, err
		}
		if !eligibility.Eligible() {
			result.Conflicting = append(result.Conflicting, ConflictingSection{Section: section, Reason: eligibility.Reason})
			continue
		}

		conflicts, err := FindConflicts(section, placedSections)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			result.Conflicting = append(result.Conflicting, ConflictingSection{
				Section:   section,
				Reason:    conflictReason(conflicts),
				Conflicts: conflicts,
			})
			continue
		}
		result.Available = append(result.Available, section)
	}
	return result, nil
}

// conflictReason prefers the duplicate-course reason over any time overlap.
func conflictReason(conflicts []models.Conflict) string {
	for _, c := range conflicts {
		if c.Kind == models.ConflictSameCourse {
			return c.Reason
		}
	}
	return conflicts[0].Reason
}
