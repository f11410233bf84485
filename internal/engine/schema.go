package engine

import (
	"errors"
	"fmt"
	"strings"

	"mealmetrics/internal/models"
)

var (
	ErrUnknownQuestion = errors.New("unknown survey question")
	ErrMissingColumn   = errors.New("survey sheet is missing a column")
	ErrDuplicateColumn = errors.New("survey sheet repeats a column")
)

// Survey column headers, spelled exactly as the form exports them.
const (
	QGender                   = "Gender"
	QDietaryPreferences       = "Dietary Preferences"
	QMealFrequency            = "Meal Frequency"
	QNutritionalConsideration = "Nutritional Consideration"
	QFruitsAndVegetables      = "Fruits and Vegetables Consumption"
	QWholeGrains              = "Whole Grains Consumption"
	QSnackingHabits           = "Snacking Habits"
	QEatingOutFrequency       = "Eating Out Frequency"
	QFoodLabelReading         = "Food Label Reading Habits"
	QStepsToImproveDiet       = "Steps to Improve Diet"
	QHealthConsciousness      = "Health Consciousness"
	QFoodSelectionPriorities  = "Food Selection Priorities"
	QFoodPreference           = "Food Preference"

	// Optional form metadata, loaded but never aggregated.
	colTimestamp = "Timestamp"
	colEmail     = "Email Address"
)

// MultiSelectDelimiter separates the options of a checkbox answer.
const MultiSelectDelimiter = ", "

// Question describes one survey column.
type Question struct {
	Name  string
	Title string
	Slug  string
	field func(r *models.Respondent) *string
}

var questions = []Question{
	{Name: QGender, Title: "Gender", field: func(r *models.Respondent) *string { return &r.Gender }},
	{Name: QDietaryPreferences, Title: "Diet Plan Following", field: func(r *models.Respondent) *string { return &r.DietaryPreferences }},
	{Name: QMealFrequency, Title: "Meal Frequency", field: func(r *models.Respondent) *string { return &r.MealFrequency }},
	{Name: QNutritionalConsideration, Title: "Nutritional Value Consideration", field: func(r *models.Respondent) *string { return &r.NutritionalConsideration }},
	{Name: QFruitsAndVegetables, Title: "Fruits and Vegetables in Diet", field: func(r *models.Respondent) *string { return &r.FruitsAndVegetables }},
	{Name: QWholeGrains, Title: "Whole Grains Consumption", field: func(r *models.Respondent) *string { return &r.WholeGrains }},
	{Name: QSnackingHabits, Title: "Snacking Between Meals", field: func(r *models.Respondent) *string { return &r.SnackingHabits }},
	{Name: QEatingOutFrequency, Title: "Eating Out Frequency", field: func(r *models.Respondent) *string { return &r.EatingOutFrequency }},
	{Name: QFoodLabelReading, Title: "Reading Food Labels for Nutritional Information", field: func(r *models.Respondent) *string { return &r.FoodLabelReading }},
	{Name: QStepsToImproveDiet, Title: "Steps to Improve Diet", field: func(r *models.Respondent) *string { return &r.StepsToImproveDiet }},
	{Name: QHealthConsciousness, Title: "Health Consciousness", field: func(r *models.Respondent) *string { return &r.HealthConsciousness }},
	{Name: QFoodSelectionPriorities, Title: "Top Priorities When Selecting Food", field: func(r *models.Respondent) *string { return &r.FoodSelectionPriorities }},
	{Name: QFoodPreference, Title: "Food Preference", field: func(r *models.Respondent) *string { return &r.FoodPreference }},
}

var (
	questionByName = make(map[string]*Question, len(questions))
	questionBySlug = make(map[string]*Question, len(questions))
)

func init() {
	for i := range questions {
		q := &questions[i]
		q.Slug = Slug(q.Name)
		questionByName[q.Name] = q
		questionBySlug[q.Slug] = q
	}
}

// Questions returns the survey schema in sheet order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// LookupQuestion resolves a question by its header name or its URL slug.
func LookupQuestion(nameOrSlug string) (Question, error) {
	if q, ok := questionByName[nameOrSlug]; ok {
		return *q, nil
	}
	if q, ok := questionBySlug[nameOrSlug]; ok {
		return *q, nil
	}
	return Question{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, nameOrSlug)
}

// Slug turns "Fruits and Vegetables Consumption" into "fruits-and-vegetables-consumption".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Indicator flags a "healthy habit" answer on one question.
type Indicator struct {
	Name     string
	Question string
	Accept   []string
	// Negate flips the match: the indicator holds when the answer is NOT in Accept.
	Negate bool
}

func (ind Indicator) Match(answer string) bool {
	in := false
	for _, a := range ind.Accept {
		if answer == a {
			in = true
			break
		}
	}
	return in != ind.Negate
}

// Indicators is the fixed healthy-habit set. Adding one is a data change.
var Indicators = []Indicator{
	{Name: "Nutritional Value Consideration", Question: QNutritionalConsideration, Accept: []string{"Always", "Often"}},
	{Name: "Read Food Labels", Question: QFoodLabelReading, Accept: []string{"Always", "Often"}},
	{Name: "Follow Diet Plan", Question: QDietaryPreferences, Accept: []string{"No specific diet"}, Negate: true},
	{Name: "High Fruits & Vegetables", Question: QFruitsAndVegetables, Accept: []string{"51% - 75%", "More than 75%"}},
	{Name: "Frequent Whole Grains", Question: QWholeGrains, Accept: []string{"Every meal", "Most meals"}},
	{Name: "Taking Steps to Improve Diet", Question: QStepsToImproveDiet, Accept: []string{"Yes"}},
}

// Dashboard layout: the single-question count charts, in display order.
var CountCharts = []string{
	QNutritionalConsideration,
	QDietaryPreferences,
	QEatingOutFrequency,
	QFoodLabelReading,
	QFruitsAndVegetables,
	QSnackingHabits,
	QMealFrequency,
	QWholeGrains,
	QFoodPreference,
	QHealthConsciousness,
	QStepsToImproveDiet,
}

// GenderCharts are compared side by side for Male and Female respondents.
var GenderCharts = []string{
	QNutritionalConsideration,
	QMealFrequency,
	QDietaryPreferences,
	QFruitsAndVegetables,
}

// Chart keys that are not a single question.
const (
	KeyPriorities = "priorities"
	KeyIndicators = "indicators"
	KeyGenderGrid = "gender-grid"
)

func GenderKey(question string) string {
	return "gender-" + Slug(question)
}
