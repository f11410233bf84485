package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"mealmetrics/internal/models"
)

// LoadCSV reads a sheet export in CSV form.
func LoadCSV(r io.Reader) (*ResponseTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return LoadRecords(records)
}

// LoadXLSX reads one worksheet of a workbook. An empty sheet name picks the first one.
func LoadXLSX(r io.Reader, sheet string) (*ResponseTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("open workbook: no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return LoadRecords(rows)
}

// LoadRecords turns a header row plus data rows into a typed table. A sheet
// with no survey question at all is rejected. Questions that are absent or
// repeated are recorded on the table, so only the charts that need them fail.
func LoadRecords(records [][]string) (*ResponseTable, error) {
	start := time.Now()

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: sheet has no header row", ErrMissingColumn)
	}

	header := normalizeHeader(records[0])
	seen := make(map[string]int, len(header))
	for _, h := range header {
		seen[h]++
	}

	table := NewResponseTable(nil)
	usable := 0
	for _, q := range questions {
		switch seen[q.Name] {
		case 0:
			table.markUnusable(q.Name, ErrMissingColumn)
		case 1:
			usable++
		default:
			table.markUnusable(q.Name, ErrDuplicateColumn)
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("%w: no survey question found in header", ErrMissingColumn)
	}
	if bad := table.Unusable(); len(bad) > 0 {
		log.Printf("Load Warning. Unusable columns: %s", strings.Join(bad, ", "))
	}

	// Sheets exports drop trailing empty cells, so rows can be short.
	body := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		body = append(body, row)
	}

	rows := make([]models.Respondent, len(body))
	table.Rows = rows
	if len(body) == 0 {
		log.Printf("Load Complete. Rows: 0. Time: %v", time.Since(start))
		return table, nil
	}

	// "NA" is a legitimate answer here, not a missing value.
	df := dataframe.LoadRecords(
		append([][]string{header}, body...),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("build frame: %w", df.Err)
	}

	for _, q := range questions {
		if seen[q.Name] != 1 {
			continue
		}
		if err := fillColumn(df, q.Name, rows, q.field); err != nil {
			return nil, err
		}
	}
	if seen[colTimestamp] == 1 {
		if err := fillColumn(df, colTimestamp, rows, func(r *models.Respondent) *string { return &r.Timestamp }); err != nil {
			return nil, err
		}
	}
	if seen[colEmail] == 1 {
		if err := fillColumn(df, colEmail, rows, func(r *models.Respondent) *string { return &r.Email }); err != nil {
			return nil, err
		}
	}

	log.Printf("Load Complete. Rows: %d. Time: %v", len(rows), time.Since(start))
	return table, nil
}

func fillColumn(df dataframe.DataFrame, name string, rows []models.Respondent, field func(*models.Respondent) *string) error {
	col := df.Col(name)
	if col.Err != nil {
		return fmt.Errorf("read column %s: %w", name, col.Err)
	}
	for i, v := range col.Records() {
		*field(&rows[i]) = strings.TrimSpace(v)
	}
	return nil
}

func normalizeHeader(h []string) []string {
	out := make([]string, len(h))
	for i, v := range h {
		if i == 0 {
			v = strings.TrimPrefix(v, "\ufeff")
		}
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
