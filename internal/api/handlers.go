package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"mealmetrics/internal/charts"
	"mealmetrics/internal/contact"
	"mealmetrics/internal/engine"
	"mealmetrics/internal/export"
	"mealmetrics/internal/pages"
	"mealmetrics/internal/source"
)

// Deps are the collaborators a Handler serves from.
type Deps struct {
	Source      source.Source
	Pages       *pages.Renderer
	Contact     *contact.Store
	ContactInfo pages.ContactInfo
	Charts      charts.Options
	// ContactRate limits contact form posts per second per client; 0 disables it.
	ContactRate float64
}

type Handler struct {
	mu        sync.RWMutex
	snap      *snapshot
	rebuildMu sync.Mutex

	src         source.Source
	pages       *pages.Renderer
	contact     *contact.Store
	contactInfo pages.ContactInfo
	chartOpts   charts.Options
	contactRate float64
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		src:         d.Source,
		pages:       d.Pages,
		contact:     d.Contact,
		contactInfo: d.ContactInfo,
		chartOpts:   d.Charts,
		contactRate: d.ContactRate,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	if h.pages != nil {
		e.Renderer = &pageRenderer{h.pages}
	}

	e.GET("/healthz", h.Health)

	// Pages
	e.GET("/", h.page(pages.Home))
	e.GET("/dashboard", h.page(pages.Dashboard))
	e.GET("/about", h.page(pages.About))
	e.GET("/contact", h.page(pages.Contact))
	if h.contactRate > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(h.contactRate),
			Burst:     3,
			ExpiresIn: 5 * time.Minute,
		})
		e.POST("/contact", h.PostContact, middleware.RateLimiter(store))
	} else {
		e.POST("/contact", h.PostContact)
	}

	e.GET("/charts/:file", h.GetChartImage)
	e.GET("/export.xlsx", h.GetExport)

	api := e.Group("/api")
	api.GET("/summary", h.GetSummary)
	api.GET("/counts/:question", h.GetCounts)
	api.GET("/priorities", h.GetPriorities)
	api.GET("/indicators", h.GetIndicators)
	api.GET("/compare/:question", h.GetComparison)
	api.GET("/preview", h.GetPreview)
	api.GET("/echarts/:name", h.GetEChart)
	api.POST("/reload", h.Reload)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) loaded() (*snapshot, error) {
	snap := h.current()
	if snap == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "survey data is still loading")
	}
	return snap, nil
}

func lookupParam(c echo.Context, name string) (engine.Question, error) {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	q, err := engine.LookupQuestion(raw)
	if err != nil {
		return engine.Question{}, echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return q, nil
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"ready":  h.current() != nil,
	})
}

func (h *Handler) GetSummary(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":          snap.data,
		"charts_failed": snap.charts.Errors,
	})
}

// counts for any survey question, by header name or slug
func (h *Handler) GetCounts(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	q, err := lookupParam(c, "question")
	if err != nil {
		return err
	}

	counts, err := engine.CountValues(snap.table, q.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"question": q.Name,
		"title":    q.Title,
		"counts":   counts,
		"total":    counts.Total(),
	})
}

func (h *Handler) GetPriorities(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	if msg, failed := snap.data.Errors[engine.KeyPriorities]; failed {
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
	return c.JSON(http.StatusOK, snap.data.Priorities)
}

func (h *Handler) GetIndicators(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	if msg, failed := snap.data.Errors[engine.KeyIndicators]; failed {
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"respondents": snap.data.Respondents,
		"indicators":  snap.data.Indicators,
	})
}

func (h *Handler) GetComparison(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	q, err := lookupParam(c, "question")
	if err != nil {
		return err
	}

	cmp, err := engine.CompareByGender(snap.table, q.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cmp)
}

// first rows of the sheet, question columns only
func (h *Handler) GetPreview(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}

	rows := engine.Preview(snap.table, 0)
	header, body := rows[0], rows[1:]
	total := len(body)
	limit, offset := getPaginationParams(c, 20)

	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"columns": header, "rows": [][]string{}, "total": total, "limit": limit, "offset": offset,
		})
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"columns": header,
		"rows":    body[offset:end],
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (h *Handler) GetEChart(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	name := c.Param("name")
	opt, ok := snap.eoptions[name]
	if !ok {
		if msg, failed := snap.data.Errors[name]; failed {
			return echo.NewHTTPError(http.StatusInternalServerError, msg)
		}
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+name)
	}
	return c.JSON(http.StatusOK, opt)
}

func (h *Handler) GetChartImage(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(c.Param("file"), ".png")

	img, ok := snap.charts.Image(name)
	if !ok {
		if msg, failed := snap.charts.Errors[name]; failed {
			c.Logger().Warnf("chart %s requested but unavailable: %s", name, msg)
			return echo.NewHTTPError(http.StatusNotFound, msg)
		}
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+name)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.Blob(http.StatusOK, "image/png", img)
}

func (h *Handler) GetExport(c echo.Context) error {
	snap, err := h.loaded()
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="mealmetrics_report.xlsx"`)
	res.WriteHeader(http.StatusOK)
	return export.Write(res, snap.data)
}

func (h *Handler) Reload(c echo.Context) error {
	if err := h.Rebuild(c.Request().Context()); err != nil {
		c.Logger().Errorf("reload failed: %v", err)
		status := http.StatusBadGateway
		if errors.Is(err, engine.ErrMissingColumn) {
			status = http.StatusUnprocessableEntity
		}
		return echo.NewHTTPError(status, err.Error())
	}
	snap := h.current()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"respondents":   snap.data.Respondents,
		"loaded_at":     snap.data.LoadedAt,
		"charts_failed": snap.charts.Errors,
	})
}
