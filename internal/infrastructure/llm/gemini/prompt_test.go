package gemini

import (
	"strings"
	"testing"
)

func TestBuildCoursePromptDeterministic(t *testing.T) {
	a := BuildCoursePrompt("CS 101 syllabus text", 2025)
	b := BuildCoursePrompt("CS 101 syllabus text", 2025)
	if a != b {
		t.Fatal("identical input produced different prompts")
	}
	for _, want := range []string{"course_name", "YYYY-MM-DD", "assume 2025", "END date"} {
		if !strings.Contains(a, want) {
			t.Fatalf("course prompt missing %q", want)
		}
	}
}

func TestBuildCoursePromptAcademicDatesAreObjects(t *testing.T) {
	p := BuildCoursePrompt("text", 2025)
	if !strings.Contains(p, `{"date": "2025-12-12", "description": "Final exam week"}`) {
		t.Fatal("academic_dates template entry must be a date/description object")
	}
}

func TestBuildCoursePromptTruncates(t *testing.T) {
	text := strings.Repeat("x", MaxPromptChars+1000)
	p := BuildCoursePrompt(text, 2025)
	if strings.Contains(p, strings.Repeat("x", MaxPromptChars+1)) {
		t.Fatal("syllabus text not truncated to prompt cap")
	}
	if !strings.Contains(p, strings.Repeat("x", MaxPromptChars)) {
		t.Fatal("truncation dropped more than the overflow")
	}
}

func TestBuildOptimizedCoursePrompt(t *testing.T) {
	p := BuildOptimizedCoursePrompt("text", 2026)
	if !strings.Contains(p, "suggested_order") || !strings.Contains(p, "OPTIMIZATION") {
		t.Fatal("optimized prompt missing reordering instructions")
	}
	if !strings.HasPrefix(p, BuildCoursePrompt("text", 2026)) {
		t.Fatal("optimized prompt should extend the base course prompt")
	}
}

func TestBuildDeadlinePrompt(t *testing.T) {
	p := BuildDeadlinePrompt("text", 2025)
	for _, want := range []string{"deadlines", "homework, exam, project", "YYYY-MM-DD"} {
		if !strings.Contains(p, want) {
			t.Fatalf("deadline prompt missing %q", want)
		}
	}
	if strings.Contains(p, "chapters") {
		t.Fatal("deadline prompt should not ask for the full course template")
	}
}
