package planner

import "github.com/noah-isme/class-planner-api/internal/models"

func section(course, code string, days []string, lecture string) models.ClassSection {
	return models.ClassSection{
		SectionCode: code,
		CourseCode:  course,
		CourseName:  course + " course",
		LectureDays: days,
		LectureTime: lecture,
	}
}

func withDiscussion(s models.ClassSection, day, span string) models.ClassSection {
	s.DiscussionDay = day
	s.DiscussionTime = span
	return s
}

func withPrereq(s models.ClassSection, course string) models.ClassSection {
	s.PrerequisiteCourseCode = course
	return s
}

func placed(sections ...models.ClassSection) []models.SelectedClass {
	out := make([]models.SelectedClass, 0, len(sections))
	for _, s := range sections {
		out = append(out, models.NewSelectedClass(s, models.SelectionManual))
	}
	return out
}

func grade(course, g string) models.TranscriptEntry {
	return models.TranscriptEntry{StudentID: "stu-1", CourseCode: course, CourseName: course + " course", Grade: g, Term: "2024-Q4"}
}

func defaultClassifier() Classifier {
	return NewClassifier(NewGradePolicy(nil), InProgressWhenPlaced)
}
