package excel

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
	"github.com/syllabussync/syllabus-sync/internal/core/usecase"
)

func samplePlan() domain.SchedulePlan {
	courses := []domain.CourseRecord{
		{
			CourseName: "Algorithms",
			Chapters:   []domain.Chapter{{Name: "Sorting", WeeklyHours: 3}},
			Exams:      []domain.Exam{{Type: "Final", Date: "2025-12-10"}},
		},
		{
			CourseName: "Databases",
			Chapters:   []domain.Chapter{{Name: "Relational Model"}},
			Homework:   []domain.Homework{{Title: "ER diagram", DueDate: "2025-09-15"}},
		},
	}
	return usecase.BuildSchedulePlan(courses, usecase.DefaultScheduleConfig())
}

func TestBuildWorkbookSheets(t *testing.T) {
	buf, err := BuildWorkbook(samplePlan())
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{summarySheet, weeklySheet, deadlinesSheet} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %q", sheet)
		}
	}

	got, err := f.GetCellValue(summarySheet, "A2")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if got != "Algorithms" {
		t.Fatalf("expected first course in summary, got %q", got)
	}

	day, err := f.GetCellValue(weeklySheet, "A2")
	if err != nil {
		t.Fatalf("read weekly cell: %v", err)
	}
	if day != "monday" {
		t.Fatalf("expected weekly rows to start on monday, got %q", day)
	}

	deadline, err := f.GetCellValue(deadlinesSheet, "A2")
	if err != nil {
		t.Fatalf("read deadline cell: %v", err)
	}
	if deadline != "2025-09-15" {
		t.Fatalf("expected earliest deadline first, got %q", deadline)
	}
}

func TestBuildWorkbookEmptyPlan(t *testing.T) {
	buf, err := BuildWorkbook(usecase.BuildSchedulePlan(nil, usecase.DefaultScheduleConfig()))
	if err != nil {
		t.Fatalf("BuildWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(summarySheet, "A2")
	if err != nil {
		t.Fatalf("read summary cell: %v", err)
	}
	if got != "Total" {
		t.Fatalf("expected only the total row, got %q", got)
	}
}
