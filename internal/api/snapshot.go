package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"mealmetrics/internal/charts"
	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
)

// snapshot is one immutable load of the survey and everything derived from it.
type snapshot struct {
	table    *engine.ResponseTable
	data     *models.DashboardData
	charts   *charts.Set
	eoptions map[string]charts.Option
}

// SetData publishes a new snapshot. Requests already running keep the one
// they started with.
func (h *Handler) SetData(table *engine.ResponseTable, data *models.DashboardData, set *charts.Set) {
	snap := &snapshot{
		table:    table,
		data:     data,
		charts:   set,
		eoptions: charts.EOptions(data),
	}
	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()
}

func (h *Handler) current() *snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Rebuild runs the whole pipeline: fetch, aggregate, render. On failure the
// previously published snapshot stays live.
func (h *Handler) Rebuild(ctx context.Context) error {
	if h.src == nil {
		return fmt.Errorf("rebuild: no source configured")
	}

	h.rebuildMu.Lock()
	defer h.rebuildMu.Unlock()

	t0 := time.Now()
	table, err := h.src.Load(ctx)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}

	data := table.Aggregate(h.src.String())
	set, err := charts.RenderAll(ctx, data, h.chartOpts)
	if err != nil {
		return fmt.Errorf("rebuild: render charts: %w", err)
	}
	for name, msg := range set.Errors {
		log.Printf("chart %s unavailable: %s", name, msg)
	}

	h.SetData(table, data, set)
	log.Printf("Snapshot ready: %d respondents from %s in %v", data.Respondents, data.Source, time.Since(t0))
	return nil
}
