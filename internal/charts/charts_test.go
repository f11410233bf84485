package charts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleData() *models.DashboardData {
	table := engine.NewResponseTable([]models.Respondent{
		{Gender: "Male", MealFrequency: "3 meals", WholeGrains: "Every meal", StepsToImproveDiet: "Yes", NutritionalConsideration: "Always", FoodSelectionPriorities: "Taste, Cost"},
		{Gender: "Female", MealFrequency: "2 meals", WholeGrains: "Rarely", StepsToImproveDiet: "No", NutritionalConsideration: "Often", FoodSelectionPriorities: "Cost, Health"},
		{Gender: "Female", MealFrequency: "3 meals", WholeGrains: "Most meals", StepsToImproveDiet: "Yes", HealthConsciousness: "Very"},
	})
	return table.Aggregate("test")
}

func TestBarPNG(t *testing.T) {
	img, err := BarPNG("Meal Frequency", models.Frequency{{Name: "3 meals", Value: 2}, {Name: "2 meals", Value: 1}}, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Output is not a PNG")
	}

	if _, err := BarPNG("Empty", nil, 640, 480); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestPiePNG(t *testing.T) {
	img, err := PiePNG("Steps", models.Frequency{{Name: "Yes", Value: 2}, {Name: "No", Value: 1}}, 480, 480)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Output is not a PNG")
	}
	if _, err := PiePNG("Empty", models.Frequency{}, 480, 480); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestIndicatorsPNG(t *testing.T) {
	data := sampleData()
	img, err := IndicatorsPNG(data.Indicators, 640, 400)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Output is not a PNG")
	}
}

func TestGenderGridPNG(t *testing.T) {
	data := sampleData()

	// One partition is empty for some questions; the grid must still render.
	img, err := GenderGridPNG(data.Comparisons, nil, 800, 1200)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, pngMagic) {
		t.Error("Output is not a PNG")
	}
}

func TestRenderAll(t *testing.T) {
	data := sampleData()

	set, err := RenderAll(context.Background(), data, Options{Width: 480, Height: 360, Parallel: 2})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		engine.Slug(engine.QMealFrequency),
		engine.Slug(engine.QWholeGrains) + PieSuffix,
		engine.KeyPriorities,
		engine.KeyIndicators,
		engine.KeyGenderGrid,
	} {
		if _, ok := set.Image(name); !ok {
			t.Errorf("Missing chart %s (errors: %v)", name, set.Errors)
		}
	}

	// Nobody answered this one: placeholder notice instead of an image
	name := engine.Slug(engine.QSnackingHabits)
	if _, ok := set.Image(name); ok {
		t.Errorf("Chart %s should not render without answers", name)
	}
	if set.Errors[name] != ErrNoData.Error() {
		t.Errorf("Expected no-data notice for %s, got %q", name, set.Errors[name])
	}
}

func TestRenderAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RenderAll(ctx, sampleData(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestEOptions(t *testing.T) {
	opts := EOptions(sampleData())

	for _, name := range []string{EHealthConsciousness, EPriorities, EWholeGrains, EImproveDiet, EFoodSunburst, EDietTree} {
		o, ok := opts[name]
		if !ok {
			t.Errorf("Missing option %s", name)
			continue
		}
		if _, err := json.Marshal(o); err != nil {
			t.Errorf("%s does not serialise: %v", name, err)
		}
	}

	series := opts[EPriorities]["series"].([]Option)
	data := series[0]["data"].([]Option)
	if data[0]["name"] != "Cost" || data[0]["value"] != 2 {
		t.Errorf("Expected Cost=2 first, got %v", data[0])
	}
}

func TestDietTypes(t *testing.T) {
	root := DietTypes()
	if len(root.Children) != 10 {
		t.Errorf("Expected 10 diet families, got %d", len(root.Children))
	}
	food := FoodHierarchy()
	if len(food) != 2 || food[0].Children[0].Children[0].Value != 5 {
		t.Errorf("Unexpected food hierarchy %+v", food)
	}
}
