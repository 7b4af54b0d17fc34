package domain

import "fmt"

// Validate checks that a normalized CourseRecord has the shape downstream
// consumers rely on. It returns the list of violated expectations; an empty
// list means the record is trustworthy. Date formats are deliberately not
// checked here.
func Validate(c CourseRecord) []string {
	var violations []string

	if c.Identifier() == "" {
		violations = append(violations, "course identifier (course_name or course_code) is required")
	}

	for i, ch := range c.Chapters {
		if ch.Name == "" {
			violations = append(violations, fmt.Sprintf("chapters[%d]: name is empty", i))
		}
		if ch.WeeklyHours < 0 {
			violations = append(violations, fmt.Sprintf("chapters[%d]: weekly_hours is negative", i))
		}
	}
	for i, hw := range c.Homework {
		if hw.Title == "" {
			violations = append(violations, fmt.Sprintf("homework[%d]: title is empty", i))
		}
	}
	for i, ex := range c.Exams {
		if ex.Type == "" {
			violations = append(violations, fmt.Sprintf("exams[%d]: type is empty", i))
		}
	}
	for i, p := range c.Projects {
		if p.Title == "" {
			violations = append(violations, fmt.Sprintf("projects[%d]: title is empty", i))
		}
	}
	for i, ad := range c.AcademicDates {
		if ad.Description == "" {
			violations = append(violations, fmt.Sprintf("academic_dates[%d]: description is empty", i))
		}
	}

	return violations
}
