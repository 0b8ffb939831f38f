// Package export renders workout plans as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"fitnessallies/backend/internal/domain"
)

const (
	SheetPlan = "Plan"

	// First row of the exercise table; rows above hold the plan summary.
	tableHeaderRow = 7

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var tableColumns = []struct {
	col    string
	header string
	width  float64
}{
	{"A", "Day", 14},
	{"B", "#", 5},
	{"C", "Exercise", 32},
	{"D", "Sets", 8},
	{"E", "Reps", 12},
	{"F", "Duration (min)", 14},
	{"G", "Weight", 10},
	{"H", "Rest (s)", 10},
	{"I", "Notes", 48},
	{"J", "Done", 8},
}

// WritePlanWorkbook lays out one plan on a single sheet: a summary block
// followed by one row per exercise in day order.
func WritePlanWorkbook(plan *domain.WorkoutPlan) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPlan); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F5597"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, fmt.Errorf("date style: %w", err)
	}

	set := func(cell string, value interface{}) {
		// SetCellValue only fails on a malformed cell name, which are all literal here.
		_ = f.SetCellValue(SheetPlan, cell, value)
	}

	set("A1", plan.Title)
	_ = f.SetCellStyle(SheetPlan, "A1", "A1", titleStyle)
	set("A2", plan.Description)
	set("A3", "Goal")
	set("B3", string(plan.FitnessGoal))
	set("A4", "Level")
	set("B4", string(plan.FitnessLevel))
	set("A5", "Start")
	if !plan.StartDate.IsZero() {
		set("B5", plan.StartDate)
		_ = f.SetCellStyle(SheetPlan, "B5", "B5", dateStyle)
	}
	if plan.EndDate != nil {
		set("C5", "End")
		set("D5", *plan.EndDate)
		_ = f.SetCellStyle(SheetPlan, "D5", "D5", dateStyle)
	}

	for _, c := range tableColumns {
		set(fmt.Sprintf("%s%d", c.col, tableHeaderRow), c.header)
		if err := f.SetColWidth(SheetPlan, c.col, c.col, c.width); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}
	first := fmt.Sprintf("A%d", tableHeaderRow)
	last := fmt.Sprintf("%s%d", tableColumns[len(tableColumns)-1].col, tableHeaderRow)
	if err := f.SetCellStyle(SheetPlan, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	row := tableHeaderRow + 1
	for _, day := range plan.WorkoutDays {
		for i, ex := range day.Exercises {
			set(fmt.Sprintf("A%d", row), day.Day)
			set(fmt.Sprintf("B%d", row), i+1)
			set(fmt.Sprintf("C%d", row), ex.Name)
			for col, amount := range map[string]domain.Amount{
				"D": ex.Sets, "E": ex.Reps, "F": ex.Duration, "G": ex.Weight, "H": ex.RestTime,
			} {
				if !amount.IsZero() {
					set(fmt.Sprintf("%s%d", col, row), amountCell(amount))
				}
			}
			set(fmt.Sprintf("I%d", row), ex.Notes)
			set(fmt.Sprintf("J%d", row), yesNo(ex.Completed || day.Completed))
			row++
		}
	}

	if err := f.SetPanes(SheetPlan, &excelize.Panes{
		Freeze:      true,
		YSplit:      tableHeaderRow,
		TopLeftCell: fmt.Sprintf("A%d", tableHeaderRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// FileName builds a filesystem-safe download name for plan.
func FileName(plan *domain.WorkoutPlan) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, plan.Title)
	if name == "" {
		name = "workout_plan"
	}
	return name + ".xlsx"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// amountCell keeps numeric amounts numeric so the sheet can sum them.
func amountCell(a domain.Amount) interface{} {
	if a.Text != "" {
		return a.Text
	}
	if n, ok := a.Int(); ok {
		return n
	}
	return a.Num
}
