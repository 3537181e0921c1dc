package planner

import (
	"sort"
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// DefaultTopConflicted is the number of students listed in a summary by default.
const DefaultTopConflicted = 10

// CohortResult holds every inter-student conflict plus the rows that were dropped.
type CohortResult struct {
	Conflicts []models.CohortConflict  `json:"conflicts"`
	Dropped   []models.MissingReference `json:"dropped,omitempty"`
}

// CohortDetector compares the pre-built schedules of a cohort pairwise.
type CohortDetector struct{}

// NewCohortDetector returns a detector.
func NewCohortDetector() *CohortDetector {
	return &CohortDetector{}
}

type studentSchedule struct {
	student  models.Student
	sections []models.ClassSection
	seen     map[string]struct{}
}

// DetectAll scans every unordered pair of students once. Pre-schedule rows referencing an
// unknown section or student are dropped and reported in Dropped. Students keep the order
// in which they first appear in preSchedules.
func (d *CohortDetector) DetectAll(catalog []models.ClassSection, students []models.Student, preSchedules []models.PreScheduleEntry) (*CohortResult, error) {
	sectionsByCode := make(map[string]models.ClassSection, len(catalog))
	for _, section := range catalog {
		code := strings.TrimSpace(section.SectionCode)
		if _, exists := sectionsByCode[code]; !exists {
			sectionsByCode[code] = section
		}
	}
	studentsByID := make(map[string]models.Student, len(students))
	for _, student := range students {
		studentsByID[strings.TrimSpace(student.ID)] = student
	}

	result := &CohortResult{Conflicts: []models.CohortConflict{}}
	var order []string
	schedules := make(map[string]*studentSchedule)
	for _, entry := range preSchedules {
		studentID := strings.TrimSpace(entry.StudentID)
		code := strings.TrimSpace(entry.SectionCode)
		section, ok := sectionsByCode[code]
		if !ok {
			result.Dropped = append(result.Dropped, models.MissingReference{Kind: models.MissingSection, StudentID: studentID, Reference: code})
			continue
		}
		student, ok := studentsByID[studentID]
		if !ok {
			result.Dropped = append(result.Dropped, models.MissingReference{Kind: models.MissingStudent, StudentID: studentID, Reference: studentID})
			continue
		}
		schedule, exists := schedules[studentID]
		if !exists {
			schedule = &studentSchedule{student: student, seen: make(map[string]struct{})}
			schedules[studentID] = schedule
			order = append(order, studentID)
		}
		id := models.SelectedClassID(section)
		if _, dup := schedule.seen[id]; dup {
			continue
		}
		schedule.seen[id] = struct{}{}
		schedule.sections = append(schedule.sections, section)
	}

	for i := 0; i < len(order); i++ {
		left := schedules[order[i]]
		for j := i + 1; j < len(order); j++ {
			right := schedules[order[j]]
			for _, a := range left.sections {
				for _, b := range right.sections {
					conflicts, err := SectionsConflict(a, b)
					if err != nil {
						return nil, err
					}
					for _, conflict := range conflicts {
						result.Conflicts = append(result.Conflicts, models.CohortConflict{
							StudentA: left.student,
							StudentB: right.student,
							Conflict: conflict,
						})
					}
				}
			}
		}
	}
	return result, nil
}

// DetectStudentConflicts filters DetectAll down to conflicts involving one student.
func (d *CohortDetector) DetectStudentConflicts(studentID string, catalog []models.ClassSection, students []models.Student, preSchedules []models.PreScheduleEntry) (*CohortResult, error) {
	all, err := d.DetectAll(catalog, students, preSchedules)
	if err != nil {
		return nil, err
	}
	return FilterStudent(all, studentID), nil
}

// FilterStudent keeps the conflicts and dropped rows that involve the given student.
func FilterStudent(all *CohortResult, studentID string) *CohortResult {
	studentID = strings.TrimSpace(studentID)
	filtered := &CohortResult{Conflicts: []models.CohortConflict{}}
	if all == nil {
		return filtered
	}
	for _, conflict := range all.Conflicts {
		if conflict.StudentA.ID == studentID || conflict.StudentB.ID == studentID {
			filtered.Conflicts = append(filtered.Conflicts, conflict)
		}
	}
	for _, dropped := range all.Dropped {
		if dropped.StudentID == studentID {
			filtered.Dropped = append(filtered.Dropped, dropped)
		}
	}
	return filtered
}

// Summarize aggregates cohort conflicts. top <= 0 falls back to DefaultTopConflicted.
func Summarize(conflicts []models.CohortConflict, top int) models.ConflictSummary {
	if top <= 0 {
		top = DefaultTopConflicted
	}
	summary := models.ConflictSummary{
		TotalConflicts: len(conflicts),
		ConflictTypes:  make(map[models.ConflictKind]int),
		MostConflicted: []models.StudentConflictCount{},
	}

	counts := make(map[string]int)
	studentsByID := make(map[string]models.Student)
	for _, c := range conflicts {
		summary.ConflictTypes[c.Conflict.Kind]++
		counts[c.StudentA.ID]++
		counts[c.StudentB.ID]++
		studentsByID[c.StudentA.ID] = c.StudentA
		studentsByID[c.StudentB.ID] = c.StudentB
	}
	summary.StudentsWithConflicts = len(counts)

	ranked := make([]models.StudentConflictCount, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, models.StudentConflictCount{Student: studentsByID[id], ConflictCount: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ConflictCount == ranked[j].ConflictCount {
			return ranked[i].Student.ID < ranked[j].Student.ID
		}
		return ranked[i].ConflictCount > ranked[j].ConflictCount
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	summary.MostConflicted = ranked
	return summary
}
