package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"mealmetrics/internal/models"
)

// CountValues counts the non-empty answers to one question, most common first.
func CountValues(t *ResponseTable, question string) (models.Frequency, error) {
	col, err := t.Column(question)
	if err != nil {
		return nil, err
	}
	return countColumn(col), nil
}

func countColumn(col []string) models.Frequency {
	counts := make(map[string]int)
	for _, v := range col {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		counts[v]++
	}
	return toFrequency(counts)
}

// ExpandMultiSelect dummy-encodes a checkbox question: every distinct option
// becomes one indicator column, and each column is summed. An option listed
// twice in the same answer counts once.
func ExpandMultiSelect(t *ResponseTable, question string) (models.Frequency, error) {
	col, err := t.Column(question)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, cell := range col {
		for _, tok := range splitOptions(cell) {
			counts[tok]++
		}
	}
	return toFrequency(counts), nil
}

func splitOptions(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, MultiSelectDelimiter)
	seen := make(map[string]bool, len(parts))
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ComputeIndicators evaluates every healthy-habit indicator over the table.
// Percentages are rounded half to even at one decimal; an empty table
// reports 0 for all of them.
func ComputeIndicators(t *ResponseTable) ([]models.IndicatorResult, error) {
	total := t.Len()
	results := make([]models.IndicatorResult, 0, len(Indicators))

	for _, ind := range Indicators {
		col, err := t.Column(ind.Question)
		if err != nil {
			return nil, fmt.Errorf("indicator %q: %w", ind.Name, err)
		}
		count := 0
		for _, v := range col {
			if ind.Match(v) {
				count++
			}
		}
		results = append(results, models.IndicatorResult{
			Name:       ind.Name,
			Question:   ind.Question,
			Count:      count,
			Percentage: Percent(count, total),
		})
	}
	return results, nil
}

// Percent returns part/total*100 rounded half to even at one decimal.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.RoundToEven(float64(part)*1000/float64(total)) / 10
}

// CompareByGender counts one question separately for Male and Female
// respondents. Anyone else is tallied in Excluded.
func CompareByGender(t *ResponseTable, question string) (models.Comparison, error) {
	col, err := t.Column(question)
	if err != nil {
		return models.Comparison{}, err
	}
	genders, err := t.Column(QGender)
	if err != nil {
		return models.Comparison{}, err
	}

	var male, female []string
	excluded := 0
	for i, v := range col {
		switch strings.TrimSpace(genders[i]) {
		case "Male":
			male = append(male, v)
		case "Female":
			female = append(female, v)
		default:
			excluded++
		}
	}

	return models.Comparison{
		Question: question,
		Male:     countColumn(male),
		Female:   countColumn(female),
		Excluded: excluded,
	}, nil
}

// Aggregate prepares the data behind every dashboard chart. Each chart is
// prepared on its own; a failure leaves a notice under the chart's key and
// the remaining charts are still produced.
func (t *ResponseTable) Aggregate(source string) *models.DashboardData {
	data := &models.DashboardData{
		Respondents: t.Len(),
		Source:      source,
		LoadedAt:    time.Now(),
		Counts:      make([]models.QuestionCounts, 0, len(CountCharts)),
		Priorities:  models.Frequency{},
		Indicators:  make([]models.IndicatorResult, 0, len(Indicators)),
		Comparisons: make([]models.Comparison, 0, len(GenderCharts)),
		Errors:      make(map[string]string),
	}

	// 1. Single-question counts
	for _, name := range CountCharts {
		prepare(data, Slug(name), func() error {
			q, err := LookupQuestion(name)
			if err != nil {
				return err
			}
			freq, err := CountValues(t, name)
			if err != nil {
				return err
			}
			data.Counts = append(data.Counts, models.QuestionCounts{Question: q.Name, Title: q.Title, Counts: freq})
			return nil
		})
	}

	// 2. Multi-select priorities
	prepare(data, KeyPriorities, func() error {
		freq, err := ExpandMultiSelect(t, QFoodSelectionPriorities)
		if err != nil {
			return err
		}
		data.Priorities = freq
		return nil
	})

	// 3. Healthy-habit indicators
	prepare(data, KeyIndicators, func() error {
		res, err := ComputeIndicators(t)
		if err != nil {
			return err
		}
		data.Indicators = res
		return nil
	})

	// 4. Gender comparisons
	for _, name := range GenderCharts {
		prepare(data, GenderKey(name), func() error {
			cmp, err := CompareByGender(t, name)
			if err != nil {
				return err
			}
			data.Comparisons = append(data.Comparisons, cmp)
			return nil
		})
	}

	if len(data.Errors) == 0 {
		data.Errors = nil
	}
	return data
}

func prepare(data *models.DashboardData, key string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			data.Errors[key] = fmt.Sprintf("chart data unavailable: %v", r)
		}
	}()
	if err := fn(); err != nil {
		data.Errors[key] = err.Error()
	}
}

func toFrequency(counts map[string]int) models.Frequency {
	freq := make(models.Frequency, 0, len(counts))
	for name, n := range counts {
		freq = append(freq, models.CategoryCount{Name: name, Value: n})
	}
	sort.Slice(freq, func(i, j int) bool {
		if freq[i].Value != freq[j].Value {
			return freq[i].Value > freq[j].Value
		}
		return freq[i].Name < freq[j].Name
	})
	return freq
}
