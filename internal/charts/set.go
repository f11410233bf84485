package charts

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
)

// Set holds the rendered PNG charts of one snapshot.
type Set struct {
	Images map[string][]byte
	// Errors maps a chart name to the notice shown in its place.
	Errors map[string]string
}

func (s *Set) Image(name string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	b, ok := s.Images[name]
	return b, ok
}

type Options struct {
	Width    int
	Height   int
	Parallel int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.Parallel <= 0 {
		o.Parallel = runtime.NumCPU()
	}
	return o
}

// PieSuffix names the pie variant of a count chart.
const PieSuffix = "-pie"

// Pie variants of the original analysis.
var pieCharts = map[string]bool{
	engine.QWholeGrains:        true,
	engine.QStepsToImproveDiet: true,
}

type job struct {
	name   string
	render func() ([]byte, error)
}

// RenderAll renders every dashboard PNG. Each chart reads the immutable
// snapshot only; one failing chart does not stop the others. The returned
// error is non-nil only when ctx is cancelled.
func RenderAll(ctx context.Context, data *models.DashboardData, opts Options) (*Set, error) {
	opts = opts.withDefaults()
	set := &Set{Images: make(map[string][]byte), Errors: make(map[string]string)}
	for k, v := range data.Errors {
		set.Errors[k] = v
	}

	jobs := buildJobs(data, opts)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := j.render()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				set.Errors[j.name] = err.Error()
				return nil
			}
			set.Images[j.name] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

func buildJobs(data *models.DashboardData, opts Options) []job {
	var jobs []job
	titles := make(map[string]string)

	for _, qc := range data.Counts {
		qc := qc
		titles[qc.Question] = qc.Title
		jobs = append(jobs, job{
			name:   engine.Slug(qc.Question),
			render: func() ([]byte, error) { return BarPNG(qc.Title, qc.Counts, opts.Width, opts.Height) },
		})
		if pieCharts[qc.Question] {
			jobs = append(jobs, job{
				name:   engine.Slug(qc.Question) + PieSuffix,
				render: func() ([]byte, error) { return PiePNG(qc.Title, qc.Counts, opts.Width, opts.Height) },
			})
		}
	}

	if _, failed := data.Errors[engine.KeyPriorities]; !failed {
		jobs = append(jobs, job{
			name: engine.KeyPriorities,
			render: func() ([]byte, error) {
				return BarPNG("Top Priorities When Selecting Food", data.Priorities, opts.Width, opts.Height)
			},
		})
	}

	if _, failed := data.Errors[engine.KeyIndicators]; !failed {
		jobs = append(jobs, job{
			name:   engine.KeyIndicators,
			render: func() ([]byte, error) { return IndicatorsPNG(data.Indicators, opts.Width, opts.Height) },
		})
	}

	// With every comparison failed the grid reports ErrNoData in its slot.
	for _, q := range engine.Questions() {
		if _, ok := titles[q.Name]; !ok {
			titles[q.Name] = q.Title
		}
	}
	jobs = append(jobs, job{
		name: engine.KeyGenderGrid,
		render: func() ([]byte, error) {
			return GenderGridPNG(data.Comparisons, titles, opts.Width, opts.Height*len(data.Comparisons)/2)
		},
	})
	return jobs
}
