package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mealmetrics/internal/api"
	"mealmetrics/internal/charts"
	"mealmetrics/internal/config"
	"mealmetrics/internal/contact"
	"mealmetrics/internal/pages"
	"mealmetrics/internal/source"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	renderer, err := pages.New()
	if err != nil {
		log.Fatalf("pages: %v", err)
	}

	// The dashboard still works without the contact store; the form reports it.
	store, err := contact.Open(cfg.Contact.DBPath)
	if err != nil {
		log.Printf("contact store disabled: %v", err)
	} else {
		defer store.Close()
	}

	// 2. Initialize Handler with no data yet
	// The API is "live" but data routes return 503 until the first load lands
	h := api.NewHandler(api.Deps{
		Source:  newSource(cfg.Source),
		Pages:   renderer,
		Contact: store,
		ContactInfo: pages.ContactInfo{
			Email:   cfg.Contact.Email,
			Phone:   cfg.Contact.Phone,
			Address: cfg.Contact.Address,
		},
		Charts: charts.Options{
			Width:    cfg.Charts.Width,
			Height:   cfg.Charts.Height,
			Parallel: cfg.Charts.Parallel,
		},
		ContactRate: cfg.Server.ContactRate,
	})
	h.RegisterRoutes(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Launch ETL in Background
	go func() {
		log.Println("BACKGROUND: Starting ETL Pipeline...")
		t0 := time.Now()

		if err := h.Rebuild(ctx); err != nil {
			log.Printf("BACKGROUND: ETL failed: %v (POST /api/reload to retry)", err)
			return
		}
		log.Printf("BACKGROUND: ETL Complete in %v. API is fully ready.", time.Since(t0))
	}()

	// 4. Start Server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Printf("Server ready on port %d (Data loading in background...)", cfg.Server.Port)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}

func newSource(c config.SourceConfig) source.Source {
	if c.Kind == "sheet" {
		return source.NewSheet(c.SpreadsheetID, c.SheetName, c.GID, c.Timeout.Duration)
	}
	return &source.File{Path: c.Path, Sheet: c.SheetName}
}
