package hanzilookup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config selects the dataset to search and how to search it. It is what
// the command line tools read from a TOML file.
type Config struct {
	// Dataset is the key of the reference dataset.
	Dataset string `toml:"dataset"`
	// DatasetPath is a dataset file to load under Dataset. Empty selects
	// the embedded dataset of that name.
	DatasetPath string `toml:"dataset_path"`
	// Looseness widens the candidate windows, in [0,1].
	Looseness float64 `toml:"looseness"`
	// Limit is the number of matches returned.
	Limit int `toml:"limit"`
	// Workers is the number of scoring goroutines.
	Workers int `toml:"workers"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Dataset:   "demo",
		Looseness: DefaultLooseness,
		Limit:     8,
		Workers:   1,
		LogLevel:  "warn",
	}
}

// LoadConfig reads a TOML file over the defaults. A missing file is not an
// error and yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	switch {
	case c.Dataset == "":
		return fmt.Errorf("%w: dataset must be set", ErrInvalidArgument)
	case c.Looseness < 0 || c.Looseness > 1:
		return fmt.Errorf("%w: looseness %v outside [0,1]", ErrInvalidArgument, c.Looseness)
	case c.Limit <= 0:
		return fmt.Errorf("%w: limit %d must be positive", ErrInvalidArgument, c.Limit)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalidArgument, c.Workers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name to a slog level. An empty name is warn.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("%w: unknown log level %q", ErrInvalidArgument, s)
	}
}

// MatcherOptions converts the search settings into matcher options.
func (c Config) MatcherOptions() []MatcherOption {
	return []MatcherOption{
		WithLooseness(c.Looseness),
		WithWorkers(c.Workers),
	}
}
