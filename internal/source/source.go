// Package source fetches the survey response sheet.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mealmetrics/internal/engine"
)

// Source yields one snapshot of the response table.
type Source interface {
	Load(ctx context.Context) (*engine.ResponseTable, error)
	String() string
}

const defaultBaseURL = "https://docs.google.com/spreadsheets/d/"

// Sheet reads a Google Sheet that is shared or published to the web, using
// its CSV export.
type Sheet struct {
	SpreadsheetID string
	// SheetName selects a tab by title. When empty, GID is used.
	SheetName string
	GID       string
	BaseURL   string
	Client    *http.Client
}

func NewSheet(id, sheetName, gid string, timeout time.Duration) *Sheet {
	return &Sheet{
		SpreadsheetID: id,
		SheetName:     sheetName,
		GID:           gid,
		Client:        &http.Client{Timeout: timeout},
	}
}

// ExportURL is the CSV download address for the configured tab.
func (s *Sheet) ExportURL() string {
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	base += url.PathEscape(s.SpreadsheetID)

	if s.SheetName != "" {
		q := url.Values{"tqx": {"out:csv"}, "sheet": {s.SheetName}}
		return base + "/gviz/tq?" + q.Encode()
	}
	gid := s.GID
	if gid == "" {
		gid = "0"
	}
	q := url.Values{"format": {"csv"}, "gid": {gid}}
	return base + "/export?" + q.Encode()
}

func (s *Sheet) Load(ctx context.Context) (*engine.ResponseTable, error) {
	if s.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheet source: spreadsheet id not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ExportURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("sheet source: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet source: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheet source: fetch: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	table, err := engine.LoadCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sheet source: %w", err)
	}
	return table, nil
}

func (s *Sheet) String() string {
	if s.SheetName != "" {
		return fmt.Sprintf("google sheet %s (%s)", s.SpreadsheetID, s.SheetName)
	}
	return fmt.Sprintf("google sheet %s", s.SpreadsheetID)
}

// File reads a local CSV or XLSX export.
type File struct {
	Path string
	// Sheet is the worksheet used for .xlsx files; empty picks the first.
	Sheet string
}

func (f *File) Load(ctx context.Context) (*engine.ResponseTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	defer fh.Close()

	var table *engine.ResponseTable
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".xlsx", ".xlsm":
		table, err = engine.LoadXLSX(fh, f.Sheet)
	case ".csv", ".txt":
		table, err = engine.LoadCSV(fh)
	default:
		return nil, fmt.Errorf("file source: unsupported file type %q", filepath.Ext(f.Path))
	}
	if err != nil {
		return nil, fmt.Errorf("file source %s: %w", f.Path, err)
	}
	return table, nil
}

func (f *File) String() string {
	return "file " + f.Path
}
