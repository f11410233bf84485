package pages

import (
	"bytes"
	"strings"
	"testing"

	"mealmetrics/internal/charts"
	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestMarkdownEscapesHTML(t *testing.T) {
	html, err := Markdown([]byte("# Hi\n\n<script>alert(1)</script>"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(html), "<h1>Hi</h1>") {
		t.Errorf("Heading missing: %s", html)
	}
	if strings.Contains(string(html), "<script>") {
		t.Errorf("Raw HTML passed through: %s", html)
	}
}

func TestRenderStaticPages(t *testing.T) {
	r := newRenderer(t)

	for _, name := range []string{Home, About, Contact, Dashboard} {
		var buf bytes.Buffer
		if err := r.Render(&buf, name, View{Contact: ContactInfo{Email: "team@example.com"}}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		out := buf.String()
		for _, item := range Menu {
			if !strings.Contains(out, item.Label) {
				t.Errorf("%s: menu entry %q missing", name, item.Label)
			}
		}
		if !strings.Contains(out, `class="active"`) {
			t.Errorf("%s: no active menu entry", name)
		}
	}

	if err := r.Render(&bytes.Buffer{}, "missing", View{}); err == nil {
		t.Error("Expected error for unknown page")
	}
}

func TestRenderDashboard(t *testing.T) {
	r := newRenderer(t)

	table := engine.NewResponseTable([]models.Respondent{
		{Gender: "Male", MealFrequency: "3 meals", StepsToImproveDiet: "Yes"},
		{Gender: "Other", MealFrequency: "2 meals", StepsToImproveDiet: "No"},
	})
	data := table.Aggregate("test")
	set := &charts.Set{
		Images: map[string][]byte{engine.Slug(engine.QMealFrequency): {1}},
		Errors: map[string]string{engine.Slug(engine.QSnackingHabits): "no responses to chart"},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, Dashboard, View{Data: data, Charts: set}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, `/charts/meal-frequency.png`) {
		t.Error("Meal frequency image missing")
	}
	if !strings.Contains(out, "Snacking Between Meals: no responses to chart") {
		t.Error("Placeholder for failed chart missing")
	}
	if !strings.Contains(out, "50.0%") {
		t.Error("Indicator percentage missing")
	}
	if !strings.Contains(out, "1 respondents answered with another gender") {
		t.Error("Excluded tally missing")
	}
}

func TestRenderContactNotice(t *testing.T) {
	r := newRenderer(t)

	var buf bytes.Buffer
	v := View{
		Notice: "Thank you for your message.",
		Form:   ContactForm{Name: "<b>Ann</b>"},
	}
	if err := r.Render(&buf, Contact, v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Thank you for your message.") {
		t.Error("Notice missing")
	}
	if strings.Contains(out, "<b>Ann</b>") {
		t.Error("Form value not escaped")
	}
}
