// Package pages renders the MealMetrics web pages: markdown bodies through
// goldmark inside one embedded html/template layout.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mealmetrics/internal/charts"
	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
)

//go:embed templates/*.html content/*.md
var assets embed.FS

// Page keys, also used as the active menu entry.
const (
	Home      = "home"
	Dashboard = "dashboard"
	About     = "about"
	Contact   = "contact"
)

type MenuItem struct {
	Key   string
	Label string
	Path  string
}

var Menu = []MenuItem{
	{Key: Home, Label: "Home", Path: "/"},
	{Key: Dashboard, Label: "Dashboard", Path: "/dashboard"},
	{Key: About, Label: "About Us", Path: "/about"},
	{Key: Contact, Label: "Contact Us", Path: "/contact"},
}

var titles = map[string]string{
	Home:      "Welcome to MealMetrics!",
	Dashboard: "Dashboard",
	About:     "About Us",
	Contact:   "Contact Us",
}

var taglines = map[string]string{
	Home:      "Unveiling Dietary Patterns",
	Dashboard: "Unveiling Nutritional Insights",
	About:     "Pioneering Nutritional Insights",
	Contact:   "Unveiling Dietary Patterns",
}

// ContactInfo is shown on the Contact Us page.
type ContactInfo struct {
	Email   string
	Phone   string
	Address string
}

type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// View is everything a page may show.
type View struct {
	Data    *models.DashboardData
	Charts  *charts.Set
	Preview [][]string
	Contact ContactInfo

	Form      ContactForm
	Notice    string
	FormError string
}

// chartView is one PNG slot on the dashboard.
type chartView struct {
	Name  string
	Title string
	Err   string
}

type page struct {
	View
	Active  string
	Title   string
	Tagline string
	Year    int
	Menu    []MenuItem
	Body    template.HTML
	Loading bool

	Respondents    int
	Excluded       int
	CountCharts    []chartView
	IndicatorChart chartView
	GenderChart    chartView
}

type Renderer struct {
	tmpl   *template.Template
	bodies map[string]template.HTML
}

// mdRenderer escapes raw HTML found in the markdown bodies.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

func New() (*Renderer, error) {
	p := message.NewPrinter(language.English)
	funcs := template.FuncMap{
		"count":   func(n int) string { return p.Sprintf("%d", n) },
		"percent": func(v float64) string { return p.Sprintf("%.1f%%", v) },
	}

	tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := &Renderer{tmpl: tmpl, bodies: make(map[string]template.HTML)}
	for _, key := range []string{Home, About, Contact} {
		src, err := assets.ReadFile("content/" + key + ".md")
		if err != nil {
			return nil, fmt.Errorf("read %s content: %w", key, err)
		}
		html, err := Markdown(src)
		if err != nil {
			return nil, fmt.Errorf("render %s content: %w", key, err)
		}
		r.bodies[key] = html
	}
	return r, nil
}

// Markdown converts markdown into safe HTML.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, v View) error {
	title, ok := titles[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	pg := page{
		View:    v,
		Active:  name,
		Title:   title,
		Tagline: taglines[name],
		Year:    time.Now().Year(),
		Menu:    Menu,
		Body:    r.bodies[name],
		Loading: v.Data == nil,
	}
	if v.Data != nil {
		pg.Respondents = v.Data.Respondents
		if name == Dashboard {
			fillDashboard(&pg)
		}
	}
	return r.tmpl.Execute(w, pg)
}

func fillDashboard(pg *page) {
	for _, name := range engine.CountCharts {
		q, err := engine.LookupQuestion(name)
		if err != nil {
			continue
		}
		pg.CountCharts = append(pg.CountCharts, slot(pg, q.Slug, q.Title))
	}
	pg.IndicatorChart = slot(pg, engine.KeyIndicators, "Percentage of Respondents Showing Healthier Choices")
	pg.GenderChart = slot(pg, engine.KeyGenderGrid, "MealMetrics: Gender-Based Analysis")

	if len(pg.Data.Comparisons) > 0 {
		pg.Excluded = pg.Data.Comparisons[0].Excluded
	}
}

func slot(pg *page, name, title string) chartView {
	cv := chartView{Name: name, Title: title}
	if msg, failed := pg.Data.Errors[name]; failed {
		cv.Err = msg
		return cv
	}
	if pg.Charts != nil {
		if msg, failed := pg.Charts.Errors[name]; failed {
			cv.Err = msg
		} else if _, ok := pg.Charts.Image(name); !ok {
			cv.Err = "chart not rendered"
		}
	}
	return cv
}
