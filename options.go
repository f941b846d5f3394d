package mckp

import (
	"time"

	"github.com/rs/zerolog"
)

// Default solver parameters.
const (
	// DefaultScale discretizes weights to hundredths.
	DefaultScale = 100

	// DefaultBruteForceLimit caps the number of configurations the brute-force
	// strategy will enumerate.
	DefaultBruteForceLimit = 1_000_000

	// DefaultMaxCapacity caps the scaled budget handled by the table strategy.
	DefaultMaxCapacity = 1 << 24
)

// Observer receives one notification per finished solve.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveSolve(strategy Strategy, outcome string, elapsed time.Duration)
}

// Config holds solver parameters.
// All fields are exported to allow inspection after construction.
type Config struct {
	// Scale is the number of weight units per budget unit used when
	// discretizing. Weights are rounded up and the budget down, so every
	// returned configuration truly fits the budget.
	Scale int

	// Strategy selects the solving algorithm.
	Strategy Strategy

	// BruteForceLimit caps enumeration for StrategyBruteForce.
	BruteForceLimit int

	// MaxCapacity caps the scaled budget for StrategyTable.
	MaxCapacity int

	// Timeout bounds a single solve. Zero means no timeout.
	Timeout time.Duration

	// Logger receives debug events. Defaults to a no-op logger.
	Logger zerolog.Logger

	// Observer is notified after every solve, if set.
	Observer Observer
}

// Option configures a Solver using the functional options pattern.
type Option func(*Config)

// WithScale sets the weight discretization factor. Values <= 0 keep the default.
func WithScale(scale int) Option {
	return func(c *Config) {
		if scale > 0 {
			c.Scale = scale
		}
	}
}

// WithStrategy selects the solving algorithm.
func WithStrategy(s Strategy) Option {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithBruteForceLimit sets the maximum number of configurations the
// brute-force strategy may enumerate. Values <= 0 keep the default.
func WithBruteForceLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.BruteForceLimit = n
		}
	}
}

// WithMaxCapacity sets the largest scaled budget the table strategy will
// allocate for. Values <= 0 keep the default.
func WithMaxCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxCapacity = n
		}
	}
}

// WithTimeout bounds each solve. Zero or negative disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithObserver registers an observer notified after every solve.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// newConfig creates a configuration with defaults and applies opts in order.
//
// Default values:
//   - Scale: 100
//   - Strategy: StrategyTable
//   - BruteForceLimit: 1,000,000
//   - MaxCapacity: 1 << 24
//   - Timeout: 0 (none)
//   - Logger: no-op
func newConfig(opts ...Option) *Config {
	cfg := &Config{
		Scale:           DefaultScale,
		Strategy:        StrategyTable,
		BruteForceLimit: DefaultBruteForceLimit,
		MaxCapacity:     DefaultMaxCapacity,
		Logger:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}
