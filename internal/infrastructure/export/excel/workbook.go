package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

const (
	summarySheet   = "Summary"
	weeklySheet    = "Weekly Schedule"
	deadlinesSheet = "Deadlines"
)

// BuildWorkbook renders a schedule plan as an xlsx workbook with summary,
// weekly, and deadline sheets.
func BuildWorkbook(plan domain.SchedulePlan) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if err := writeSummary(f, plan); err != nil {
		return nil, err
	}
	if err := writeWeekly(f, plan); err != nil {
		return nil, err
	}
	if err := writeDeadlines(f, plan); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeSummary(f *excelize.File, plan domain.SchedulePlan) error {
	rows := [][]any{
		{"Course", "Weekly Hours", "Chapters", "Assignments", "Exams", "Projects"},
	}
	for _, c := range plan.WeeklySchedule.Courses {
		rows = append(rows, []any{
			c.CourseName, c.WeeklyHours, c.Chapters, c.Assignments, c.Exams, c.Projects,
		})
	}
	rows = append(rows, []any{"Total", plan.TotalWeeklyHours, "", "", "", ""})
	return writeRows(f, summarySheet, rows)
}

func writeWeekly(f *excelize.File, plan domain.SchedulePlan) error {
	if _, err := f.NewSheet(weeklySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", weeklySheet, err)
	}
	rows := [][]any{{"Day", "Course", "Hours", "Focus"}}
	for _, day := range domain.WeekDays {
		for _, block := range plan.DailySchedule[day] {
			rows = append(rows, []any{day, block.Course, block.Hours, block.Focus})
		}
	}
	return writeRows(f, weeklySheet, rows)
}

func writeDeadlines(f *excelize.File, plan domain.SchedulePlan) error {
	if _, err := f.NewSheet(deadlinesSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", deadlinesSheet, err)
	}
	rows := [][]any{{"Date", "Type", "Title", "Course", "Priority"}}
	for _, d := range plan.Deadlines {
		rows = append(rows, []any{d.Date, d.Type, d.Title, d.Course, d.Priority})
	}
	return writeRows(f, deadlinesSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
