package gemini

import (
	"fmt"
	"strings"
)

// MaxPromptChars bounds the syllabus excerpt embedded in a prompt. The cut
// is a plain prefix slice of the extracted text.
const MaxPromptChars = 6000

const dateRules = `DATE RULES:
- Convert every date to YYYY-MM-DD format.
- If the year is missing, assume %d.
- If a date range is given (e.g. 8/18-8/22), use the END date.
- If no date is present, use an empty string, never a placeholder.`

const courseTemplate = `{
    "course_name": "Full Course Name",
    "course_code": "Course Code",
    "professor": {
        "name": "Professor Name",
        "email": "email@domain.com",
        "office_hours": "Office hours description"
    },
    "class_schedule": "Class meeting schedule",
    "chapters": [
        {"name": "Chapter/Topic Name", "suggested_order": 1, "weekly_hours": 2}
    ],
    "homework": [
        {"title": "Assignment Title", "due_date": "2025-09-10", "description": ""}
    ],
    "exams": [
        {"type": "Midterm", "date": "2025-10-15", "description": ""}
    ],
    "projects": [
        {"title": "Project Title", "due_date": "2025-11-20", "description": ""}
    ],
    "academic_dates": [
        {"date": "2025-12-12", "description": "Final exam week"}
    ]
}`

const deadlineTemplate = `{
    "deadlines": [
        {"date": "2025-09-10", "type": "homework", "title": "Assignment Title"}
    ]
}`

// BuildCoursePrompt produces the full-course extraction instruction. Output
// is deterministic for identical text and year.
func BuildCoursePrompt(text string, year int) string {
	var b strings.Builder
	b.WriteString("You are analyzing a course syllabus. Extract the course metadata and EVERY assignment, exam, project, and academic date you find.\n\n")
	b.WriteString("Return ONLY valid JSON in this exact format (no markdown, no extra text):\n")
	b.WriteString(courseTemplate)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, dateRules, year)
	b.WriteString("\n\nEXTRACTION RULES:\n")
	b.WriteString("- Read the ENTIRE text, do not stop early.\n")
	b.WriteString("- Look for due-date phrasing like \"Due by\", \"Assigned\", \"HW:\", \"Team:\", \"Individual:\".\n")
	b.WriteString("- Include every exam (midterm, final, quiz) with its date.\n")
	b.WriteString("- Include every project, presentation, and report with its due date.\n\n")
	b.WriteString("SYLLABUS TEXT:\n")
	b.WriteString(excerpt(text))
	return b.String()
}

// BuildOptimizedCoursePrompt is the course prompt plus chapter-reordering
// instructions for the optimize flag.
func BuildOptimizedCoursePrompt(text string, year int) string {
	var b strings.Builder
	b.WriteString(BuildCoursePrompt(text, year))
	b.WriteString("\n\nOPTIMIZATION:\n")
	b.WriteString("- Reorder chapters into the best learning sequence (prerequisites first).\n")
	b.WriteString("- Set suggested_order to the new 1-based position.\n")
	b.WriteString("- Estimate weekly_hours per chapter from its difficulty, default 2.")
	return b.String()
}

// BuildDeadlinePrompt asks only for the flat deadline list.
func BuildDeadlinePrompt(text string, year int) string {
	var b strings.Builder
	b.WriteString("Extract every deadline (homework, exam, project) from this syllabus text.\n\n")
	b.WriteString("Return ONLY valid JSON in this exact format (no markdown, no extra text):\n")
	b.WriteString(deadlineTemplate)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, dateRules, year)
	b.WriteString("\n- type must be one of: homework, exam, project.\n\n")
	b.WriteString("SYLLABUS TEXT:\n")
	b.WriteString(excerpt(text))
	return b.String()
}

func excerpt(text string) string {
	if len(text) > MaxPromptChars {
		return text[:MaxPromptChars]
	}
	return text
}
