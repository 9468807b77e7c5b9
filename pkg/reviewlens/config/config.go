package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
	"github.com/cognicore/reviewlens/pkg/reviewlens/segment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
)

// Config is the reviewlens configuration file.
//
// Example:
//
//	lexicon: data/words.txt
//	sentiments: data/AFINN-en-165.txt
//	catalog: data/imdb.json
//	results: results/results.json
//	segment:
//	  max_word_len: 20
//	  max_results: 10
//	sentiment:
//	  window_size: 3
//	  span_size: 3
//	batch:
//	  workers: 4
type Config struct {
	Lexicon       string `yaml:"lexicon"`
	LexiconFormat string `yaml:"lexicon_format"` // "lines" (default) or "yaml"
	Sentiments    string `yaml:"sentiments"`
	Catalog       string `yaml:"catalog"`
	Results       string `yaml:"results"`
	DBPath        string `yaml:"db_path"`

	Segment   Segment   `yaml:"segment"`
	Sentiment Sentiment `yaml:"sentiment"`
	Batch     Batch     `yaml:"batch"`
	Log       Log       `yaml:"log"`
}

// Segment configures the segmenter and enumeration limits.
type Segment struct {
	MaxWordLen int `yaml:"max_word_len"` // 0 uses the longest lexicon entry
	CacheSize  int `yaml:"cache_size"`
	MaxResults int `yaml:"max_results"`
	MaxNodes   int `yaml:"max_nodes"`
}

// Sentiment configures the scorer.
type Sentiment struct {
	WindowSize  int  `yaml:"window_size"`
	SpanSize    int  `yaml:"span_size"`
	StripMarkup bool `yaml:"strip_markup"`
}

// Batch configures the batch runner.
type Batch struct {
	Workers int `yaml:"workers"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LexiconFormat: "lines",
		Segment: Segment{
			MaxWordLen: segment.DefaultMaxWordLen,
			CacheSize:  segment.DefaultCacheSize,
			MaxResults: 10,
			MaxNodes:   1_000_000,
		},
		Sentiment: Sentiment{
			WindowSize:  sentiment.DefaultWindowSize,
			SpanSize:    sentiment.DefaultSpanSize,
			StripMarkup: true,
		},
		Batch: Batch{Workers: 4},
		Log:   Log{Level: "info", Format: "text"},
	}
}

// Load reads a YAML config file on top of Default and validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read config %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse config %s: %v", internalerr.ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.LexiconFormat != "lines" && c.LexiconFormat != "yaml":
		return fmt.Errorf("%w: lexicon_format must be \"lines\" or \"yaml\", got %q", internalerr.ErrInvalidConfig, c.LexiconFormat)
	case c.Segment.MaxWordLen < 0:
		return fmt.Errorf("%w: segment.max_word_len must be >= 0", internalerr.ErrInvalidConfig)
	case c.Segment.MaxResults < 0, c.Segment.MaxNodes < 0, c.Segment.CacheSize < 0:
		return fmt.Errorf("%w: segment limits must be >= 0", internalerr.ErrInvalidConfig)
	case c.Sentiment.WindowSize < 1:
		return fmt.Errorf("%w: sentiment.window_size must be >= 1", internalerr.ErrInvalidConfig)
	case c.Sentiment.SpanSize < 1:
		return fmt.Errorf("%w: sentiment.span_size must be >= 1", internalerr.ErrInvalidConfig)
	case c.Batch.Workers < 1:
		return fmt.Errorf("%w: batch.workers must be >= 1", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Env holds the environment overrides applied on top of the config file.
type Env struct {
	ConfigPath string `env:"REVIEWLENS_CONFIG"`
	Lexicon    string `env:"REVIEWLENS_LEXICON"`
	Sentiments string `env:"REVIEWLENS_SENTIMENTS"`
	DBPath     string `env:"REVIEWLENS_DB"`
	Workers    int    `env:"REVIEWLENS_WORKERS"`
	LogLevel   string `env:"REVIEWLENS_LOG_LEVEL"`
	LogFormat  string `env:"REVIEWLENS_LOG_FORMAT"`
}

// LoadEnv reads overrides from the process environment, after loading a .env
// file from the working directory when one exists.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var e Env
	if err := env.Load(&e, nil); err != nil {
		return Env{}, fmt.Errorf("%w: load environment variables: %v", internalerr.ErrInvalidConfig, err)
	}
	return e, nil
}

// Apply overlays the non-empty overrides on cfg and revalidates it.
func (e Env) Apply(cfg Config) (Config, error) {
	if e.Lexicon != "" {
		cfg.Lexicon = e.Lexicon
	}
	if e.Sentiments != "" {
		cfg.Sentiments = e.Sentiments
	}
	if e.DBPath != "" {
		cfg.DBPath = e.DBPath
	}
	if e.Workers != 0 {
		cfg.Batch.Workers = e.Workers
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.Log.Format = e.LogFormat
	}
	return cfg, cfg.Validate()
}
