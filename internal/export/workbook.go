// Package export writes the dashboard aggregates as an Excel report.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mealmetrics/internal/models"
)

const (
	SheetCounts     = "Counts"
	SheetPriorities = "Priorities"
	SheetIndicators = "Indicators"
	SheetGender     = "Gender"
)

// Workbook builds the report. The caller closes the returned file.
func Workbook(data *models.DashboardData) (*excelize.File, error) {
	if data == nil {
		return nil, errors.New("export: no data loaded")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCounts); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetPriorities, SheetIndicators, SheetGender} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	w := &sheetWriter{f: f}

	// Counts: one block per question
	w.sheet, w.row = SheetCounts, 1
	w.line("Respondents", data.Respondents)
	w.line("Source", data.Source)
	w.line("Loaded at", data.LoadedAt.Format("2006-01-02 15:04:05"))
	w.row++
	for _, qc := range data.Counts {
		w.line(qc.Title, "Count")
		for _, c := range qc.Counts {
			w.line(c.Name, c.Value)
		}
		w.row++
	}

	w.sheet, w.row = SheetPriorities, 1
	w.line("Priority", "Respondents")
	for _, c := range data.Priorities {
		w.line(c.Name, c.Value)
	}

	w.sheet, w.row = SheetIndicators, 1
	w.line("Indicator", "Question", "Respondents", "Percentage")
	for _, ind := range data.Indicators {
		w.line(ind.Name, ind.Question, ind.Count, ind.Percentage)
	}

	w.sheet, w.row = SheetGender, 1
	w.line("Question", "Answer", "Male", "Female")
	for _, cmp := range data.Comparisons {
		male, female := cmp.Male.Map(), cmp.Female.Map()
		for _, answer := range unionLabels(cmp.Male, cmp.Female) {
			w.line(cmp.Question, answer, male[answer], female[answer])
		}
		w.line(cmp.Question, "Excluded (other gender)", cmp.Excluded, "")
	}

	if w.err != nil {
		f.Close()
		return nil, fmt.Errorf("export: %w", w.err)
	}

	for _, name := range []string{SheetCounts, SheetPriorities, SheetIndicators, SheetGender} {
		if err := f.SetColWidth(name, "A", "B", 36); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Write streams the report as an .xlsx document.
func Write(out io.Writer, data *models.DashboardData) error {
	f, err := Workbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) line(values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	w.row++
}

func unionLabels(a, b models.Frequency) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range []models.Frequency{a, b} {
		for _, c := range f {
			if !seen[c.Name] {
				seen[c.Name] = true
				out = append(out, c.Name)
			}
		}
	}
	return out
}
