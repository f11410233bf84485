package engine

import (
	"fmt"
	"sort"

	"mealmetrics/internal/models"
)

// ResponseTable holds one loaded snapshot of survey rows. It is never
// mutated after load; every aggregation takes it explicitly.
type ResponseTable struct {
	Rows []models.Respondent

	// unusable maps a question the sheet could not supply to the reason.
	unusable map[string]error
}

func NewResponseTable(rows []models.Respondent) *ResponseTable {
	return &ResponseTable{Rows: rows}
}

func (t *ResponseTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Unusable lists the questions the loaded sheet could not supply, sorted.
func (t *ResponseTable) Unusable() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.unusable))
	for name := range t.unusable {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *ResponseTable) markUnusable(question string, err error) {
	if t.unusable == nil {
		t.unusable = make(map[string]error)
	}
	t.unusable[question] = err
}

// Column returns every respondent's answer to a question, in row order.
// A question the sheet did not supply fails with ErrMissingColumn or
// ErrDuplicateColumn.
func (t *ResponseTable) Column(question string) ([]string, error) {
	q, err := LookupQuestion(question)
	if err != nil {
		return nil, err
	}
	if t != nil {
		if err, bad := t.unusable[q.Name]; bad {
			return nil, fmt.Errorf("%s: %w", q.Name, err)
		}
	}
	col := make([]string, t.Len())
	for i := range col {
		col[i] = *q.field(&t.Rows[i])
	}
	return col, nil
}

// Preview returns the question columns of the first limit rows, header
// first. Form metadata (timestamp, email) is left out.
func Preview(t *ResponseTable, limit int) [][]string {
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	header := make([]string, len(questions))
	for i, q := range questions {
		header[i] = q.Name
	}
	out := make([][]string, 0, n+1)
	out = append(out, header)
	for i := 0; i < n; i++ {
		row := make([]string, len(questions))
		for j, q := range questions {
			row[j] = *q.field(&t.Rows[i])
		}
		out = append(out, row)
	}
	return out
}
