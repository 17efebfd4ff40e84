package ner

import "log/slog"

// Option configures a Trainer.
type Option func(*config)

type config struct {
	beta       float64
	numThreads int
	logger     *slog.Logger
}

func defaultConfig() config {
	return config{
		beta:       0.5,
		numThreads: 16,
		logger:     slog.Default(),
	}
}

// WithBeta sets the boundary detector's precision/recall trade-off
// (default: 0.5). Values below 1 favor precision, values above 1 favor
// recall. Negative values are ignored.
func WithBeta(b float64) Option {
	return func(c *config) {
		if b >= 0 {
			c.beta = b
		}
	}
}

// WithNumThreads sets the training parallelism (default: 16).
func WithNumThreads(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.numThreads = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
