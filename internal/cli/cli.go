// Package cli resolves the configuration and logger shared by the reviewlens
// commands: defaults, then the YAML file, then environment overrides, then
// command-line flags.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cognicore/reviewlens/pkg/reviewlens/config"
	"github.com/cognicore/reviewlens/pkg/reviewlens/logging"
)

// Overrides are flag values that win over the file and environment. Empty
// fields are ignored.
type Overrides struct {
	Lexicon    string
	Sentiments string
	Catalog    string
	Results    string
	DBPath     string
	Workers    int
	LogLevel   string
}

// Resolve builds the effective config. configPath may be empty, in which case
// REVIEWLENS_CONFIG is consulted before falling back to defaults.
func Resolve(configPath string, o Overrides) (config.Config, error) {
	e, err := config.LoadEnv()
	if err != nil {
		return config.Config{}, err
	}
	if configPath == "" {
		configPath = e.ConfigPath
	}

	cfg := config.Default()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}
	if cfg, err = e.Apply(cfg); err != nil {
		return config.Config{}, err
	}

	if o.Lexicon != "" {
		cfg.Lexicon = o.Lexicon
	}
	if o.Sentiments != "" {
		cfg.Sentiments = o.Sentiments
	}
	if o.Catalog != "" {
		cfg.Catalog = o.Catalog
	}
	if o.Results != "" {
		cfg.Results = o.Results
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Workers != 0 {
		cfg.Batch.Workers = o.Workers
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

// Logger returns the logger described by cfg, writing to w.
func Logger(cfg config.Config, w io.Writer) *slog.Logger {
	return logging.New(cfg.Log.Level, cfg.Log.Format, w)
}
