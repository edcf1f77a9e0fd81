package service

import (
	"log/slog"

	"github.com/artlens/artlens/domain/catalog"
	"github.com/artlens/artlens/internal/config"
)

// MatchOption configures a match request.
type MatchOption func(*matchConfig)

// matchConfig holds match parameters.
type matchConfig struct {
	topK      int
	threshold float64
}

func newMatchConfig() *matchConfig {
	return &matchConfig{
		topK:      config.DefaultMatchTopK,
		threshold: config.DefaultMatchThreshold,
	}
}

// WithTopK sets the maximum number of artworks returned, clamped to the
// request layer's 1..50 range.
func WithTopK(n int) MatchOption {
	return func(c *matchConfig) {
		if n >= 1 && n <= config.MaxMatchTopK {
			c.topK = n
		}
	}
}

// WithThreshold sets the minimum similarity score. Scores strictly below the
// threshold are excluded; an equal score is kept.
func WithThreshold(t float64) MatchOption {
	return func(c *matchConfig) {
		if t >= -1 && t <= 1 {
			c.threshold = t
		}
	}
}

// Matcher serves similarity queries from the current snapshot. It never
// mutates state and never touches the durable store.
type Matcher struct {
	holder *catalog.Holder
	logger *slog.Logger
}

// NewMatcher creates a Matcher reading from holder.
func NewMatcher(holder *catalog.Holder, logger *slog.Logger) Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return Matcher{holder: holder, logger: logger}
}

// Match scores the query against every cached descriptor and returns the
// best match per artwork, ranked by descending score.
func (m Matcher) Match(query []float64, opts ...MatchOption) ([]catalog.Match, error) {
	cfg := newMatchConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := m.holder.Snapshot()
	matches, err := catalog.TopMatches(s, query, cfg.topK, cfg.threshold)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("match served",
		"candidates", s.DescriptorCount(),
		"matches", len(matches),
		"top_k", cfg.topK,
		"threshold", cfg.threshold,
	)
	return matches, nil
}
