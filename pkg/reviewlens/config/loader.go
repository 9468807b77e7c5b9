package config

import (
	"fmt"

	"github.com/cognicore/reviewlens/pkg/reviewlens/lexicon"
	"github.com/cognicore/reviewlens/pkg/reviewlens/segment"
	"github.com/cognicore/reviewlens/pkg/reviewlens/sentiment"
)

// Loader reads the word sources named by a Config and constructs components.
type Loader struct {
	Config Config
	// Validator is an optional extra word check for segmentation, such as a
	// spell checker.
	Validator lexicon.Validator
}

// Components holds all loaded, read-only components.
type Components struct {
	Lexicon    *lexicon.Lexicon
	Table      *sentiment.Table
	TableStats sentiment.LoadStats
	Segmenter  *segment.Segmenter
	Scorer     *sentiment.Scorer
}

// Load reads the configured sources and returns initialized components.
// A source left empty in the config yields an empty lexicon or table.
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	comp := &Components{}

	switch {
	case cfg.Lexicon == "":
		comp.Lexicon = lexicon.New(nil)
	case cfg.LexiconFormat == "yaml":
		lex, err := lexicon.LoadFromYAML(cfg.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	default:
		lex, err := lexicon.LoadFile(cfg.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	}

	if cfg.Sentiments != "" {
		table, stats, err := sentiment.LoadTableFile(cfg.Sentiments)
		if err != nil {
			return nil, fmt.Errorf("load sentiments: %w", err)
		}
		comp.Table, comp.TableStats = table, stats
	} else {
		comp.Table = sentiment.NewTable(nil)
	}

	segOpts := []segment.Option{
		segment.WithMaxWordLen(cfg.Segment.MaxWordLen),
		segment.WithCacheSize(cfg.Segment.CacheSize),
	}
	if l.Validator != nil {
		segOpts = append(segOpts, segment.WithValidator(l.Validator))
	}
	comp.Segmenter = segment.New(comp.Lexicon, segOpts...)

	comp.Scorer = sentiment.NewScorer(comp.Table,
		sentiment.WithWindowSize(cfg.Sentiment.WindowSize),
		sentiment.WithSpanSize(cfg.Sentiment.SpanSize),
	)

	return comp, nil
}

// Limits returns the enumeration limits from the config.
func (c Config) Limits() segment.Limits {
	return segment.Limits{
		MaxResults: c.Segment.MaxResults,
		MaxNodes:   c.Segment.MaxNodes,
	}
}
