// Package config loads gridpath settings from a TOML file, an optional .env
// file and GRIDPATH_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pdrpinto/gridpath"
)

// Config holds every setting used by the gridpath command.
type Config struct {
	Search gridpath.Config `toml:"search"`
	Log    LogConfig       `toml:"log"`
	Server ServerConfig    `toml:"server"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	BaseURL    string   `toml:"base_url"`
	Workers    int      `toml:"workers"`     // concurrent searches per batch request
	MaxCells   int      `toml:"max_cells"`   // largest grid accepted, 0 for no limit
	MaxJobs    int      `toml:"max_jobs"`    // jobs per batch request, 0 for no limit
	SessionTTL Duration `toml:"session_ttl"` // idle stepping sessions are dropped after this
	GinMode    string   `toml:"gin_mode"`
}

// Duration is a time.Duration that decodes from strings like "5m".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Search: gridpath.DefaultConfig(),
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:       ":8080",
			BaseURL:    "/api",
			Workers:    4,
			MaxCells:   1 << 20,
			MaxJobs:    64,
			SessionTTL: Duration{10 * time.Minute},
			GinMode:    "release",
		},
	}
}

// Load reads path (skipped when empty), then .env from the working directory
// if present, then the process environment.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadWithLookup(path, os.LookupEnv)
}

// LoadWithLookup is Load without the .env step, reading variables through
// lookup.
func LoadWithLookup(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Config{}, fmt.Errorf("config: %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks search weights, logging and server settings.
func (c Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("config: search: %w", err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "":
	default:
		return fmt.Errorf("config: invalid log format: %s", c.Log.Format)
	}
	if c.Server.Workers < 1 {
		return fmt.Errorf("config: server workers must be at least 1, got %d", c.Server.Workers)
	}
	if c.Server.MaxCells < 0 {
		return fmt.Errorf("config: server max_cells must not be negative, got %d", c.Server.MaxCells)
	}
	if c.Server.MaxJobs < 0 {
		return fmt.Errorf("config: server max_jobs must not be negative, got %d", c.Server.MaxJobs)
	}
	switch c.Server.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode, "":
	default:
		return fmt.Errorf("config: invalid gin mode: %s", c.Server.GinMode)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"GRIDPATH_ORTHOGONAL_COST", &cfg.Search.OrthogonalCost},
		{"GRIDPATH_DIAGONAL_COST", &cfg.Search.DiagonalCost},
		{"GRIDPATH_DISTANCE_SCALE", &cfg.Search.DistanceScale},
	}
	for _, f := range floats {
		if v, ok := lookup(f.key); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("config: %s must be a number: %w", f.key, err)
			}
			*f.dst = parsed
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"GRIDPATH_WORKERS", &cfg.Server.Workers},
		{"GRIDPATH_MAX_CELLS", &cfg.Server.MaxCells},
		{"GRIDPATH_MAX_JOBS", &cfg.Server.MaxJobs},
	}
	for _, i := range ints {
		if v, ok := lookup(i.key); ok {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s must be an integer: %w", i.key, err)
			}
			*i.dst = parsed
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"GRIDPATH_LOG_LEVEL", &cfg.Log.Level},
		{"GRIDPATH_LOG_FORMAT", &cfg.Log.Format},
		{"GRIDPATH_ADDR", &cfg.Server.Addr},
		{"GRIDPATH_BASE_URL", &cfg.Server.BaseURL},
		{"GIN_MODE", &cfg.Server.GinMode},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup("GRIDPATH_HEURISTIC"); ok {
		if err := cfg.Search.Heuristic.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: GRIDPATH_HEURISTIC: %w", err)
		}
	}
	if v, ok := lookup("GRIDPATH_SESSION_TTL"); ok {
		if err := cfg.Server.SessionTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("config: GRIDPATH_SESSION_TTL: %w", err)
		}
	}
	return nil
}
