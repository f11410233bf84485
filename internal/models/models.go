package models

import "time"

// Respondent is one row of the MealMetrics survey sheet.
type Respondent struct {
	Timestamp string `json:"timestamp,omitempty"`
	Email     string `json:"email,omitempty"`

	Gender                   string `json:"gender"`
	DietaryPreferences       string `json:"dietary_preferences"`
	MealFrequency            string `json:"meal_frequency"`
	NutritionalConsideration string `json:"nutritional_consideration"`
	FruitsAndVegetables      string `json:"fruits_and_vegetables"`
	WholeGrains              string `json:"whole_grains"`
	SnackingHabits           string `json:"snacking_habits"`
	EatingOutFrequency       string `json:"eating_out_frequency"`
	FoodLabelReading         string `json:"food_label_reading"`
	StepsToImproveDiet       string `json:"steps_to_improve_diet"`
	HealthConsciousness      string `json:"health_consciousness"`
	FoodSelectionPriorities  string `json:"food_selection_priorities"`
	FoodPreference           string `json:"food_preference"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Frequency is a category -> count mapping kept in presentation order.
type Frequency []CategoryCount

func (f Frequency) Map() map[string]int {
	m := make(map[string]int, len(f))
	for _, c := range f {
		m[c.Name] = c.Value
	}
	return m
}

func (f Frequency) Total() int {
	n := 0
	for _, c := range f {
		n += c.Value
	}
	return n
}

func (f Frequency) Labels() []string {
	out := make([]string, len(f))
	for i, c := range f {
		out[i] = c.Name
	}
	return out
}

type QuestionCounts struct {
	Question string    `json:"question"`
	Title    string    `json:"title"`
	Counts   Frequency `json:"counts"`
}

type IndicatorResult struct {
	Name       string  `json:"indicator"`
	Question   string  `json:"question"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Comparison struct {
	Question string    `json:"question"`
	Male     Frequency `json:"male"`
	Female   Frequency `json:"female"`
	Excluded int       `json:"excluded"`
}

type DashboardData struct {
	Respondents int               `json:"respondents"`
	Source      string            `json:"source"`
	LoadedAt    time.Time         `json:"loaded_at"`
	Counts      []QuestionCounts  `json:"counts"`
	Priorities  Frequency         `json:"priorities"`
	Indicators  []IndicatorResult `json:"indicators"`
	Comparisons []Comparison      `json:"comparisons"`

	// Errors holds one notice per chart whose data could not be prepared.
	Errors map[string]string `json:"errors,omitempty"`
}

// CountsFor returns the precomputed counts for a question, if any.
func (d *DashboardData) CountsFor(question string) (QuestionCounts, bool) {
	for _, qc := range d.Counts {
		if qc.Question == question {
			return qc, true
		}
	}
	return QuestionCounts{}, false
}

func (d *DashboardData) ComparisonFor(question string) (Comparison, bool) {
	for _, c := range d.Comparisons {
		if c.Question == question {
			return c, true
		}
	}
	return Comparison{}, false
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
