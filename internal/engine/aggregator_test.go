package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"mealmetrics/internal/models"
)

func sampleTable() *ResponseTable {
	return NewResponseTable([]models.Respondent{
		{
			Gender: "Male", DietaryPreferences: "Vegetarian", MealFrequency: "3 meals",
			NutritionalConsideration: "Always", FruitsAndVegetables: "51% - 75%", WholeGrains: "Every meal",
			FoodLabelReading: "Rarely", StepsToImproveDiet: "Yes", HealthConsciousness: "Very",
			FoodSelectionPriorities: "Taste, Cost",
		},
		{
			Gender: "Female", DietaryPreferences: "No specific diet", MealFrequency: "2 meals",
			NutritionalConsideration: "Often", FruitsAndVegetables: "Less than 25%", WholeGrains: "Rarely",
			FoodLabelReading: "Often", StepsToImproveDiet: "No", HealthConsciousness: "Somewhat",
			FoodSelectionPriorities: "Cost, Health",
		},
		{
			Gender: "Non-binary", DietaryPreferences: "Vegan", MealFrequency: "3 meals",
			NutritionalConsideration: "Never", FruitsAndVegetables: "More than 75%", WholeGrains: "Most meals",
			FoodLabelReading: "Always", StepsToImproveDiet: "Yes", HealthConsciousness: "",
			FoodSelectionPriorities: "",
		},
	})
}

func TestCountValues(t *testing.T) {
	table := sampleTable()

	freq, err := CountValues(table, QMealFrequency)
	if err != nil {
		t.Fatal(err)
	}

	// 3 meals (2) must come before 2 meals (1)
	want := models.Frequency{{Name: "3 meals", Value: 2}, {Name: "2 meals", Value: 1}}
	if !reflect.DeepEqual(freq, want) {
		t.Errorf("Expected %v, got %v", want, freq)
	}

	// Empty cells are not a category
	hc, err := CountValues(table, QHealthConsciousness)
	if err != nil {
		t.Fatal(err)
	}
	if hc.Total() != 2 {
		t.Errorf("Expected 2 non-empty answers, got %d", hc.Total())
	}
	if _, ok := hc.Map()[""]; ok {
		t.Error("Empty answer counted as a category")
	}
}

func TestCountValuesUnknownQuestion(t *testing.T) {
	_, err := CountValues(sampleTable(), "Favourite Colour")
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("Expected ErrUnknownQuestion, got %v", err)
	}
}

func TestCountValuesSumMatchesNonEmptyCells(t *testing.T) {
	table := sampleTable()
	for _, q := range Questions() {
		freq, err := CountValues(table, q.Name)
		if err != nil {
			t.Fatal(err)
		}
		col, _ := table.Column(q.Name)
		nonEmpty := 0
		for _, v := range col {
			if v != "" {
				nonEmpty++
			}
		}
		if freq.Total() != nonEmpty {
			t.Errorf("%s: sum %d != non-empty cells %d", q.Name, freq.Total(), nonEmpty)
		}
	}
}

func TestExpandMultiSelect(t *testing.T) {
	freq, err := ExpandMultiSelect(sampleTable(), QFoodSelectionPriorities)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{"Taste": 1, "Cost": 2, "Health": 1}
	if !reflect.DeepEqual(freq.Map(), want) {
		t.Errorf("Expected %v, got %v", want, freq.Map())
	}
	if freq[0].Name != "Cost" {
		t.Errorf("Expected Cost first, got %s", freq[0].Name)
	}
}

func TestExpandMultiSelectDuplicatesAndBlanks(t *testing.T) {
	table := NewResponseTable([]models.Respondent{
		{FoodSelectionPriorities: "Taste, Taste, Cost"},
		{FoodSelectionPriorities: ", , "},
		{FoodSelectionPriorities: "Health"},
	})

	freq, err := ExpandMultiSelect(table, QFoodSelectionPriorities)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"Taste": 1, "Cost": 1, "Health": 1}
	if !reflect.DeepEqual(freq.Map(), want) {
		t.Errorf("Expected %v, got %v", want, freq.Map())
	}

	// Sum is at least the number of non-empty cells
	if freq.Total() < 2 {
		t.Errorf("Expected sum >= 2, got %d", freq.Total())
	}
}

func TestComputeIndicators(t *testing.T) {
	table := NewResponseTable([]models.Respondent{
		{StepsToImproveDiet: "Yes"},
		{StepsToImproveDiet: "No"},
		{StepsToImproveDiet: "Yes"},
	})

	res, err := ComputeIndicators(table)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != len(Indicators) {
		t.Fatalf("Expected %d indicators, got %d", len(Indicators), len(res))
	}

	var steps models.IndicatorResult
	for _, r := range res {
		if r.Name == "Taking Steps to Improve Diet" {
			steps = r
		}
		if r.Percentage < 0 || r.Percentage > 100 {
			t.Errorf("%s: percentage %f out of range", r.Name, r.Percentage)
		}
	}
	if steps.Count != 2 {
		t.Errorf("Expected count 2, got %d", steps.Count)
	}
	if steps.Percentage != 66.7 {
		t.Errorf("Expected 66.7%%, got %v", steps.Percentage)
	}
}

func TestComputeIndicatorsSample(t *testing.T) {
	res, err := ComputeIndicators(sampleTable())
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]int{
		"Nutritional Value Consideration": 2,
		"Read Food Labels":                2,
		"Follow Diet Plan":                2,
		"High Fruits & Vegetables":        2,
		"Frequent Whole Grains":           2,
		"Taking Steps to Improve Diet":    2,
	}
	sum := 0.0
	for _, r := range res {
		if r.Count != want[r.Name] {
			t.Errorf("%s: expected %d, got %d", r.Name, want[r.Name], r.Count)
		}
		sum += r.Percentage
	}
	// Indicators are independent, so their percentages may exceed 100 in total
	if sum <= 100 {
		t.Errorf("Expected combined percentage above 100, got %f", sum)
	}
}

func TestEmptyTable(t *testing.T) {
	table := NewResponseTable(nil)

	for _, q := range Questions() {
		freq, err := CountValues(table, q.Name)
		if err != nil {
			t.Fatal(err)
		}
		if len(freq) != 0 {
			t.Errorf("%s: expected no categories, got %v", q.Name, freq)
		}
	}

	res, err := ComputeIndicators(table)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range res {
		if r.Percentage != 0 || r.Count != 0 {
			t.Errorf("%s: expected 0, got %d / %f", r.Name, r.Count, r.Percentage)
		}
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		part, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 8, 12.5},
		{1, 16, 6.2}, // 6.25 rounds to even
		{3, 3, 100},
	}
	for _, c := range cases {
		if got := Percent(c.part, c.total); got != c.want {
			t.Errorf("Percent(%d, %d) = %v, want %v", c.part, c.total, got, c.want)
		}
	}
}

func TestCompareByGender(t *testing.T) {
	cmp, err := CompareByGender(sampleTable(), QMealFrequency)
	if err != nil {
		t.Fatal(err)
	}

	if cmp.Excluded != 1 {
		t.Errorf("Expected 1 excluded respondent, got %d", cmp.Excluded)
	}
	if !reflect.DeepEqual(cmp.Male.Map(), map[string]int{"3 meals": 1}) {
		t.Errorf("Male counts wrong: %v", cmp.Male)
	}
	if !reflect.DeepEqual(cmp.Female.Map(), map[string]int{"2 meals": 1}) {
		t.Errorf("Female counts wrong: %v", cmp.Female)
	}

	if _, err := CompareByGender(sampleTable(), "Shoe Size"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("Expected ErrUnknownQuestion, got %v", err)
	}
}

func TestAggregate(t *testing.T) {
	table := sampleTable()

	data := table.Aggregate("test")

	if data.Respondents != 3 {
		t.Fatalf("Expected 3 respondents, got %d", data.Respondents)
	}
	if len(data.Counts) != len(CountCharts) {
		t.Errorf("Expected %d count charts, got %d", len(CountCharts), len(data.Counts))
	}
	if len(data.Comparisons) != len(GenderCharts) {
		t.Errorf("Expected %d comparisons, got %d", len(GenderCharts), len(data.Comparisons))
	}
	if data.Errors != nil {
		t.Errorf("Expected no chart errors, got %v", data.Errors)
	}

	qc, ok := data.CountsFor(QNutritionalConsideration)
	if !ok {
		t.Fatal("Missing nutritional consideration counts")
	}
	if qc.Title != "Nutritional Value Consideration" {
		t.Errorf("Unexpected title %q", qc.Title)
	}

	// Same table, same answers
	again := table.Aggregate("test")
	if !reflect.DeepEqual(again.Counts, data.Counts) || !reflect.DeepEqual(again.Indicators, data.Indicators) {
		t.Error("Aggregate is not deterministic")
	}
}

func TestPrepareIsolatesFailures(t *testing.T) {
	data := &models.DashboardData{Errors: map[string]string{}}

	prepare(data, "boom", func() error { panic("bad cell") })
	prepare(data, "fails", func() error { return ErrUnknownQuestion })
	prepare(data, "ok", func() error { return nil })

	if _, ok := data.Errors["boom"]; !ok {
		t.Error("Panic not recorded")
	}
	if data.Errors["fails"] != ErrUnknownQuestion.Error() {
		t.Errorf("Unexpected notice %q", data.Errors["fails"])
	}
	if _, ok := data.Errors["ok"]; ok {
		t.Error("Successful chart recorded as failed")
	}
}

func TestAggregateWithMissingColumns(t *testing.T) {
	table := sampleTable()
	table.markUnusable(QFoodPreference, ErrMissingColumn)
	table.markUnusable(QGender, ErrMissingColumn)

	data := table.Aggregate("test")

	if _, failed := data.Errors[Slug(QFoodPreference)]; !failed {
		t.Error("Food preference chart should carry a notice")
	}
	for _, q := range GenderCharts {
		msg, failed := data.Errors[GenderKey(q)]
		if !failed {
			t.Errorf("Gender comparison for %q should fail without a Gender column", q)
			continue
		}
		if !strings.Contains(msg, QGender) {
			t.Errorf("Notice should name the Gender column, got %q", msg)
		}
	}

	// Charts that do not need the missing columns are unaffected.
	if _, failed := data.Errors[KeyIndicators]; failed {
		t.Errorf("Indicators should not fail: %v", data.Errors)
	}
	if len(data.Indicators) != len(Indicators) {
		t.Errorf("Expected %d indicators, got %d", len(Indicators), len(data.Indicators))
	}
	if _, ok := data.CountsFor(QMealFrequency); !ok {
		t.Error("Meal frequency counts should still be prepared")
	}
}

func TestCompareByGenderMissingGender(t *testing.T) {
	table := sampleTable()
	table.markUnusable(QGender, ErrMissingColumn)

	if _, err := CompareByGender(table, QMealFrequency); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}
