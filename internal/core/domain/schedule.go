package domain

// Deadline priorities assigned during aggregation.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Deadline kinds.
const (
	DeadlineHomework = "homework"
	DeadlineExam     = "exam"
	DeadlineProject  = "project"
)

// WeekDays fixes the iteration order of the daily schedule.
var WeekDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// StudyBlock is one course's share of a single day.
type StudyBlock struct {
	Course string  `json:"course"`
	Hours  float64 `json:"hours"`
	Focus  string  `json:"focus"`
}

// CourseWeekly summarizes one course's weekly load.
type CourseWeekly struct {
	CourseName  string `json:"course_name"`
	WeeklyHours int    `json:"weekly_hours"`
	Chapters    int    `json:"chapters"`
	Assignments int    `json:"assignments"`
	Exams       int    `json:"exams"`
	Projects    int    `json:"projects"`
}

type WeeklySchedule struct {
	TotalHours int            `json:"total_hours"`
	Courses    []CourseWeekly `json:"courses"`
}

// Deadline is a homework, exam, or project entry tagged for the merged list.
type Deadline struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Course   string `json:"course"`
	Priority string `json:"priority"`
}

// SchedulePlan is the derived multi-course study view. It is never persisted.
type SchedulePlan struct {
	TotalWeeklyHours int                     `json:"total_weekly_hours"`
	DailySchedule    map[string][]StudyBlock `json:"daily_schedule"`
	WeeklySchedule   WeeklySchedule          `json:"weekly_schedule"`
	Deadlines        []Deadline              `json:"deadlines"`
}
