package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"mealmetrics/internal/models"
)

var (
	maleColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	femaleColor = color.RGBA{R: 227, G: 119, B: 194, A: 255}
	viridisMid  = color.RGBA{R: 33, G: 145, B: 140, A: 255}

	printer = message.NewPrinter(language.English)
)

// IndicatorsPNG draws the healthy-choice percentages as horizontal bars on a 0-100 axis.
func IndicatorsPNG(results []models.IndicatorResult, width, height int) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Percentage of Respondents Showing Healthier Choices"
	p.X.Label.Text = "Percentage of Respondents"
	p.X.Min = 0
	p.X.Max = 100

	values := make(plotter.Values, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		values[i] = r.Percentage
		names[i] = r.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("indicator bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = viridisMid
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(names...)

	w, err := p.WriterTo(vg.Points(float64(width)), vg.Points(float64(height)), "png")
	if err != nil {
		return nil, fmt.Errorf("indicator chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("indicator chart: %w", err)
	}
	return buf.Bytes(), nil
}

// GenderGridPNG lays out one row per compared question, Male on the left and
// Female on the right.
func GenderGridPNG(comparisons []models.Comparison, titles map[string]string, width, height int) ([]byte, error) {
	if len(comparisons) == 0 {
		return nil, ErrNoData
	}

	rows := len(comparisons)
	plots := make([][]*plot.Plot, rows)
	for i, cmp := range comparisons {
		title := titles[cmp.Question]
		if title == "" {
			title = cmp.Question
		}
		male, err := genderPlot(fmt.Sprintf("%s (Male)", title), cmp.Male, maleColor)
		if err != nil {
			return nil, err
		}
		female, err := genderPlot(fmt.Sprintf("%s (Female)", title), cmp.Female, femaleColor)
		if err != nil {
			return nil, err
		}
		plots[i] = []*plot.Plot{male, female}
	}

	img := vgimg.New(vg.Points(float64(width)), vg.Points(float64(height)))
	dc := draw.New(img)
	t := draw.Tiles{
		Rows:      rows,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, t, dc)
	for j := 0; j < rows; j++ {
		for i := 0; i < 2; i++ {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("gender grid: %w", err)
	}
	return buf.Bytes(), nil
}

func genderPlot(title string, freq models.Frequency, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = printer.Sprintf("%s, n=%d", title, freq.Total())
	p.Y.Min = 0

	// An empty partition still gets its panel so the grid stays aligned.
	if len(freq) == 0 {
		p.Y.Max = 1
		return p, nil
	}

	values := make(plotter.Values, len(freq))
	for i, cc := range freq {
		values[i] = float64(cc.Value)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", title, err)
	}
	bars.Color = c
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(freq.Labels()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}
