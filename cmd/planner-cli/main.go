package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/csvio"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/planner"
	"github.com/noah-isme/class-planner-api/pkg/config"
	"github.com/noah-isme/class-planner-api/pkg/logger"
)

type feeds struct {
	catalog      []models.ClassSection
	students     []models.Student
	transcripts  []models.TranscriptEntry
	preSchedules []models.PreScheduleEntry
}

func main() {
	var (
		catalogPath     string
		studentsPath    string
		transcriptsPath string
		preSchedulePath string
		studentID       string
		top             int
		delim           string
	)

	flag.StringVar(&catalogPath, "catalog", "catalog.csv", "Path to the class catalog CSV")
	flag.StringVar(&studentsPath, "students", "", "Path to the student roster CSV (defaults to students named in transcripts)")
	flag.StringVar(&transcriptsPath, "transcripts", "transcripts.csv", "Path to the transcript CSV")
	flag.StringVar(&preSchedulePath, "preschedule", "preschedule.csv", "Path to the pre-schedule CSV")
	flag.StringVar(&studentID, "student", "", "Print this student's catalog partition instead of the cohort report")
	flag.IntVar(&top, "top", 0, "Number of most conflicted students in the summary")
	flag.StringVar(&delim, "delim", ",", "CSV field delimiter")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	comma := []rune(delim)
	if len(comma) != 1 {
		logr.Fatal("delimiter must be a single character", zap.String("delim", delim))
	}
	if top <= 0 {
		top = cfg.Cohort.TopConflicted
	}

	in, err := loadFeeds(csvio.NewLoader(comma[0]), catalogPath, studentsPath, transcriptsPath, preSchedulePath)
	if err != nil {
		logr.Fatal("failed to load feeds", zap.Error(err))
	}
	logr.Info("feeds loaded",
		zap.Int("sections", len(in.catalog)),
		zap.Int("students", len(in.students)),
		zap.Int("transcript_entries", len(in.transcripts)),
		zap.Int("pre_schedule_rows", len(in.preSchedules)),
	)

	if studentID != "" {
		classifier := planner.NewClassifier(planner.NewGradePolicy(cfg.Planner.PassingGrades), planner.ParseInProgressPolicy(cfg.Planner.InProgressPolicy))
		err = printPartition(os.Stdout, comma[0], logr, planner.NewPartitioner(classifier), in, strings.TrimSpace(studentID))
	} else {
		err = printCohort(os.Stdout, comma[0], logr, in, top)
	}
	if err != nil {
		logr.Fatal("planner run failed", zap.Error(err))
	}
}

func loadFeeds(loader *csvio.Loader, catalogPath, studentsPath, transcriptsPath, preSchedulePath string) (*feeds, error) {
	out := &feeds{}
	if err := csvio.ReadFile(catalogPath, func(r io.Reader) (err error) {
		out.catalog, err = loader.ReadCatalog(r)
		return err
	}); err != nil {
		return nil, err
	}

	var derived []models.Student
	if err := csvio.ReadFile(transcriptsPath, func(r io.Reader) (err error) {
		out.transcripts, derived, err = loader.ReadTranscripts(r)
		return err
	}); err != nil {
		return nil, err
	}
	out.students = derived
	if studentsPath != "" {
		if err := csvio.ReadFile(studentsPath, func(r io.Reader) (err error) {
			out.students, err = loader.ReadStudents(r)
			return err
		}); err != nil {
			return nil, err
		}
	}

	if err := csvio.ReadFile(preSchedulePath, func(r io.Reader) (err error) {
		out.preSchedules, err = loader.ReadPreSchedules(r)
		return err
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func printCohort(w io.Writer, delim rune, logr *zap.Logger, in *feeds, top int) error {
	result, err := planner.NewCohortDetector().DetectAll(in.catalog, in.students, in.preSchedules)
	if err != nil {
		return err
	}
	logDropped(logr, result.Dropped)

	summary := planner.Summarize(result.Conflicts, top)
	fmt.Fprintf(w, "total conflicts: %d\n", summary.TotalConflicts)
	fmt.Fprintf(w, "students with conflicts: %d\n", summary.StudentsWithConflicts)
	for _, kind := range []models.ConflictKind{models.ConflictLecture, models.ConflictDiscussion, models.ConflictLectureDiscussion} {
		fmt.Fprintf(w, "  %s: %d\n", kind, summary.ConflictTypes[kind])
	}
	fmt.Fprintln(w, "most conflicted:")
	for _, ranked := range summary.MostConflicted {
		fmt.Fprintf(w, "  %s %s: %d\n", ranked.Student.ID, ranked.Student.Name, ranked.ConflictCount)
	}
	fmt.Fprintln(w)
	return csvio.WriteConflicts(w, delim, result.Conflicts)
}

func printPartition(w io.Writer, delim rune, logr *zap.Logger, partitioner *planner.Partitioner, in *feeds, studentID string) error {
	known := false
	for _, s := range in.students {
		if s.ID == studentID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("student %s not found", studentID)
	}

	sections := make(map[string]models.ClassSection, len(in.catalog))
	for _, section := range in.catalog {
		if _, exists := sections[section.SectionCode]; !exists {
			sections[section.SectionCode] = section
		}
	}
	var placed []models.SelectedClass
	var dropped []models.MissingReference
	seen := make(map[string]struct{})
	for _, row := range in.preSchedules {
		if row.StudentID != studentID {
			continue
		}
		section, ok := sections[row.SectionCode]
		if !ok {
			dropped = append(dropped, models.MissingReference{Kind: models.MissingSection, StudentID: studentID, Reference: row.SectionCode})
			continue
		}
		item := models.NewSelectedClass(section, models.SelectionPreScheduled)
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		placed = append(placed, item)
	}
	logDropped(logr, dropped)

	var transcript []models.TranscriptEntry
	for _, entry := range in.transcripts {
		if entry.StudentID == studentID {
			transcript = append(transcript, entry)
		}
	}

	result, err := partitioner.Partition(in.catalog, transcript, nil, placed)
	if err != nil {
		return err
	}

	rows := make([]*csvio.SectionCSVRow, 0, len(placed)+len(result.Available)+len(result.Conflicting)+len(result.Taken))
	for _, item := range placed {
		rows = append(rows, csvio.SectionRow("selected", item.Class, string(item.Source)))
	}
	for _, section := range result.Available {
		rows = append(rows, csvio.SectionRow("available", section, ""))
	}
	for _, c := range result.Conflicting {
		rows = append(rows, csvio.SectionRow("conflicting", c.Section, c.Reason))
	}
	for _, taken := range result.Taken {
		section := models.ClassSection{CourseCode: taken.CourseCode, CourseName: taken.CourseName}
		if taken.Section != nil {
			section = *taken.Section
		}
		rows = append(rows, csvio.SectionRow("taken", section, string(taken.Status)+" "+taken.Grade))
	}
	for _, course := range result.TranscriptOnly {
		rows = append(rows, csvio.SectionRow("transcript-only", models.ClassSection{CourseCode: course.CourseCode, CourseName: course.CourseName}, string(course.Status)+" "+course.Grade))
	}
	return csvio.WriteSections(w, delim, rows)
}

func logDropped(logr *zap.Logger, dropped []models.MissingReference) {
	if len(dropped) == 0 {
		return
	}
	for _, ref := range dropped {
		logr.Warn("pre-schedule row dropped",
			zap.String("kind", ref.Kind),
			zap.String("student_id", ref.StudentID),
			zap.String("reference", ref.Reference),
		)
	}
	logr.Warn("pre-schedule rows dropped", zap.Int("count", len(dropped)))
}
