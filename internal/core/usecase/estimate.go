package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/ports"
)

// ScheduleConfig names the schedule-math defaults so tests can override
// them instead of relying on embedded literals.
type ScheduleConfig struct {
	// DefaultChapterHours is assumed for a chapter whose weekly_hours is
	// missing or non-positive.
	DefaultChapterHours int
	// DailyFocus is the label attached to every generated study block.
	DailyFocus string
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		DefaultChapterHours: 2,
		DailyFocus:          "Study and assignments",
	}
}

// EstimateScheduleUseCase parses uploaded syllabi and merges them into a
// single study plan.
type EstimateScheduleUseCase struct {
	parser ports.SyllabusParser
	cfg    ScheduleConfig
}

func NewEstimateScheduleUseCase(parser ports.SyllabusParser, cfg ScheduleConfig) *EstimateScheduleUseCase {
	if cfg.DefaultChapterHours <= 0 {
		cfg = DefaultScheduleConfig()
	}
	return &EstimateScheduleUseCase{parser: parser, cfg: cfg}
}

func (uc *EstimateScheduleUseCase) Estimate(
	ctx context.Context,
	ownerID string,
	uploads []ports.Upload,
	optimize bool,
) (*ports.EstimateResult, error) {
	parsed, err := uc.parser.ParseFiles(ctx, ownerID, uploads, optimize)
	if err != nil {
		return nil, err
	}

	courses := make([]domain.CourseRecord, 0, len(parsed.Records))
	for _, rec := range parsed.Records {
		courses = append(courses, rec.Course)
	}

	return &ports.EstimateResult{
		Plan:         BuildSchedulePlan(courses, uc.cfg),
		Stats:        parsed.Stats,
		TotalCourses: len(courses),
	}, nil
}

// BuildSchedulePlan merges structured course data into a weekly/daily study
// plan and a date-sorted deadline list. The per-day allocation is an equal
// split across courses, not workload-weighted.
func BuildSchedulePlan(courses []domain.CourseRecord, cfg ScheduleConfig) domain.SchedulePlan {
	if cfg.DefaultChapterHours <= 0 {
		cfg = DefaultScheduleConfig()
	}

	totalHours := 0
	weekly := make([]domain.CourseWeekly, 0, len(courses))
	for _, course := range courses {
		courseHours := 0
		for _, ch := range course.Chapters {
			courseHours += chapterHours(ch, cfg)
		}
		totalHours += courseHours
		weekly = append(weekly, domain.CourseWeekly{
			CourseName:  course.Identifier(),
			WeeklyHours: courseHours,
			Chapters:    len(course.Chapters),
			Assignments: len(course.Homework),
			Exams:       len(course.Exams),
			Projects:    len(course.Projects),
		})
	}

	return domain.SchedulePlan{
		TotalWeeklyHours: totalHours,
		DailySchedule:    buildDailySchedule(courses, totalHours, cfg),
		WeeklySchedule: domain.WeeklySchedule{
			TotalHours: totalHours,
			Courses:    weekly,
		},
		Deadlines: collectDeadlines(courses),
	}
}

func chapterHours(ch domain.Chapter, cfg ScheduleConfig) int {
	if ch.WeeklyHours <= 0 {
		return cfg.DefaultChapterHours
	}
	return ch.WeeklyHours
}

func buildDailySchedule(courses []domain.CourseRecord, totalHours int, cfg ScheduleConfig) map[string][]domain.StudyBlock {
	daily := make(map[string][]domain.StudyBlock, len(domain.WeekDays))
	if len(courses) == 0 {
		for _, day := range domain.WeekDays {
			daily[day] = []domain.StudyBlock{}
		}
		return daily
	}

	perCourse := float64(totalHours) / float64(len(domain.WeekDays)) / float64(len(courses))
	perCourse = math.Round(perCourse*10) / 10

	for _, day := range domain.WeekDays {
		blocks := make([]domain.StudyBlock, 0, len(courses))
		for _, course := range courses {
			blocks = append(blocks, domain.StudyBlock{
				Course: course.Identifier(),
				Hours:  perCourse,
				Focus:  cfg.DailyFocus,
			})
		}
		daily[day] = blocks
	}
	return daily
}

func collectDeadlines(courses []domain.CourseRecord) []domain.Deadline {
	deadlines := []domain.Deadline{}
	for _, course := range courses {
		name := course.Identifier()
		for _, hw := range course.Homework {
			deadlines = append(deadlines, domain.Deadline{
				Date:     hw.DueDate,
				Type:     domain.DeadlineHomework,
				Title:    hw.Title,
				Course:   name,
				Priority: domain.PriorityMedium,
			})
		}
		for _, exam := range course.Exams {
			deadlines = append(deadlines, domain.Deadline{
				Date:     exam.Date,
				Type:     domain.DeadlineExam,
				Title:    exam.Type,
				Course:   name,
				Priority: domain.PriorityHigh,
			})
		}
		for _, project := range course.Projects {
			deadlines = append(deadlines, domain.Deadline{
				Date:     project.DueDate,
				Type:     domain.DeadlineProject,
				Title:    project.Title,
				Course:   name,
				Priority: domain.PriorityHigh,
			})
		}
	}

	// Lexicographic sort on ISO dates is chronological; empty dates sort
	// first. Stable keeps input order for equal dates.
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].Date < deadlines[j].Date
	})
	return deadlines
}
