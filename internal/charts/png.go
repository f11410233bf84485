package charts

import (
	"bytes"
	"errors"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"mealmetrics/internal/models"
)

var ErrNoData = errors.New("no responses to chart")

// tab10-like palette shared by every PNG chart.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

func colorAt(i int) drawing.Color {
	return palette[i%len(palette)]
}

// BarPNG renders a count plot: one bar per category.
func BarPNG(title string, freq models.Frequency, width, height int) ([]byte, error) {
	if len(freq) == 0 {
		return nil, ErrNoData
	}

	maxV := 0
	bars := make([]chart.Value, 0, len(freq))
	for i, c := range freq {
		if c.Value > maxV {
			maxV = c.Value
		}
		bars = append(bars, chart.Value{
			Label: c.Name,
			Value: float64(c.Value),
			Style: chart.Style{FillColor: colorAt(i), StrokeColor: colorAt(i)},
		})
	}

	spacing := 10
	barWidth := (width-120)/len(bars) - spacing
	if barWidth < 8 {
		barWidth = 8
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{TextRotationDegrees: 45.0},
		YAxis: chart.YAxis{
			Name:  "Count",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxV) * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// PiePNG renders category shares as a pie.
func PiePNG(title string, freq models.Frequency, width, height int) ([]byte, error) {
	if freq.Total() == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(freq))
	for i, c := range freq {
		values = append(values, chart.Value{
			Label: c.Name,
			Value: float64(c.Value),
			Style: chart.Style{FillColor: colorAt(i)},
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  width,
		Height: height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart %q: %w", title, err)
	}
	return buf.Bytes(), nil
}
