package planner

import (
	"fmt"
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// Placement is one meeting occurrence of a section on a given day.
type Placement struct {
	Day         string
	Interval    TimeInterval
	SectionCode string
	CourseCode  string
	Meeting     models.Meeting
}

// Placements expands a section into one placement per lecture day plus its discussion.
func Placements(section models.ClassSection) ([]Placement, error) {
	if err := ValidateSection(section); err != nil {
		return nil, err
	}
	lecture, err := ParseRange(section.LectureTime)
	if err != nil {
		return nil, err
	}

	placements := make([]Placement, 0, len(section.LectureDays)+1)
	for _, raw := range section.LectureDays {
		day, _ := NormalizeDay(raw)
		placements = append(placements, Placement{
			Day:         day,
			Interval:    lecture,
			SectionCode: section.SectionCode,
			CourseCode:  section.CourseCode,
			Meeting:     models.MeetingLecture,
		})
	}

	if section.HasDiscussion() {
		discussion, err := ParseRange(section.DiscussionTime)
		if err != nil {
			return nil, err
		}
		day, _ := NormalizeDay(section.DiscussionDay)
		placements = append(placements, Placement{
			Day:         day,
			Interval:    discussion,
			SectionCode: section.SectionCode,
			CourseCode:  section.CourseCode,
			Meeting:     models.MeetingDiscussion,
		})
	}
	return placements, nil
}

// ValidateSection enforces the structural invariants of a ClassSection.
func ValidateSection(section models.ClassSection) error {
	if strings.TrimSpace(section.SectionCode) == "" || strings.TrimSpace(section.CourseCode) == "" {
		return invalidSection(section, "section and course codes are required")
	}

	switch len(section.LectureDays) {
	case 1, 2:
	default:
		return invalidSection(section, fmt.Sprintf("expected 1 or 2 lecture days, got %d", len(section.LectureDays)))
	}
	seen := make(map[string]struct{}, len(section.LectureDays))
	for _, raw := range section.LectureDays {
		day, ok := NormalizeDay(raw)
		if !ok {
			return invalidSection(section, fmt.Sprintf("unknown lecture day %q", raw))
		}
		if _, dup := seen[day]; dup {
			return invalidSection(section, fmt.Sprintf("lecture day %s listed twice", day))
		}
		seen[day] = struct{}{}
	}
	if _, err := ParseRange(section.LectureTime); err != nil {
		return err
	}

	hasDay := strings.TrimSpace(section.DiscussionDay) != ""
	hasTime := strings.TrimSpace(section.DiscussionTime) != ""
	if hasDay != hasTime {
		return invalidSection(section, "discussion day and time must be set together")
	}
	if hasDay {
		if _, ok := NormalizeDay(section.DiscussionDay); !ok {
			return invalidSection(section, fmt.Sprintf("unknown discussion day %q", section.DiscussionDay))
		}
		if _, err := ParseRange(section.DiscussionTime); err != nil {
			return err
		}
	}
	return nil
}

func invalidSection(section models.ClassSection, reason string) error {
	return appErrors.Clone(appErrors.ErrInvalidSection, fmt.Sprintf("section %s/%s: %s", section.CourseCode, section.SectionCode, reason))
}
