package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the full server configuration.
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Source  SourceConfig  `toml:"source"`
	Charts  ChartsConfig  `toml:"charts"`
	Contact ContactConfig `toml:"contact"`
}

type ServerConfig struct {
	Port int `toml:"port"`
	// ContactRate is the allowed contact form submissions per second, per client.
	ContactRate float64 `toml:"contact_rate"`
}

// SourceConfig selects where survey rows come from.
type SourceConfig struct {
	// Kind is "sheet" or "file".
	Kind          string   `toml:"kind"`
	SpreadsheetID string   `toml:"spreadsheet_id"`
	SheetName     string   `toml:"sheet_name"`
	GID           string   `toml:"gid"`
	Path          string   `toml:"path"`
	Timeout       Duration `toml:"timeout"`
}

type ChartsConfig struct {
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	Parallel int `toml:"parallel"`
}

type ContactConfig struct {
	DBPath  string `toml:"db_path"`
	Email   string `toml:"email"`
	Phone   string `toml:"phone"`
	Address string `toml:"address"`
}

// Duration reads "30s" style values from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8080,
			ContactRate: 0.2,
		},
		Source: SourceConfig{
			Kind:    "file",
			Path:    "mealmetrics_data.csv",
			Timeout: Duration{30 * time.Second},
		},
		Charts: ChartsConfig{
			Width:  640,
			Height: 480,
		},
		Contact: ContactConfig{
			DBPath: "mealmetrics.db",
		},
	}
}

// Load layers configuration: defaults, then the TOML file, then .env and
// MEALMETRICS_* environment variables, then command line flags.
func Load(args []string) (*AppConfig, error) {
	fs := flag.NewFlagSet("mealmetrics", flag.ContinueOnError)
	path := fs.String("config", "config.toml", "Path to config.toml")
	port := fs.Int("port", 0, "Server port (overrides config)")
	src := fs.String("source", "", "Source kind: sheet or file (overrides config)")
	file := fs.String("file", "", "CSV/XLSX export to load (implies -source file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := cfg.loadFile(*path); err != nil {
		return nil, err
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *src != "" {
		cfg.Source.Kind = *src
	}
	if *file != "" {
		cfg.Source.Kind = "file"
		cfg.Source.Path = *file
	}

	return cfg, cfg.Validate()
}

func (c *AppConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() error {
	if v := os.Getenv("MEALMETRICS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid MEALMETRICS_PORT env variable")
		}
		c.Server.Port = port
	}
	if v := os.Getenv("MEALMETRICS_SOURCE"); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv("MEALMETRICS_SPREADSHEET_ID"); v != "" {
		c.Source.SpreadsheetID = v
	}
	if v := os.Getenv("MEALMETRICS_SHEET_NAME"); v != "" {
		c.Source.SheetName = v
	}
	if v := os.Getenv("MEALMETRICS_FILE"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("MEALMETRICS_DB"); v != "" {
		c.Contact.DBPath = v
	}
	return nil
}

func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	switch c.Source.Kind {
	case "sheet":
		if c.Source.SpreadsheetID == "" {
			return errors.New("source kind sheet needs spreadsheet_id (or MEALMETRICS_SPREADSHEET_ID)")
		}
	case "file":
		if c.Source.Path == "" {
			return errors.New("source kind file needs path (or MEALMETRICS_FILE)")
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	return nil
}
