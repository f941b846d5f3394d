// Package config loads mckp settings from layered sources: built-in
// defaults, an optional YAML file, then MCKP_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zzenonn/go-mckp"
)

// Config is the full configuration shared by the CLI and the server.
type Config struct {
	Dataset DatasetConfig `koanf:"dataset"`
	Solver  SolverConfig  `koanf:"solver"`
	Display DisplayConfig `koanf:"display"`
	Schema  SchemaConfig  `koanf:"schema"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// DatasetConfig locates the item records.
type DatasetConfig struct {
	// Path is a JSON or YAML dataset file. The CLI requires it; the server
	// only uses it as the default dataset for requests that carry none.
	Path string `koanf:"path"`
}

// SolverConfig mirrors the mckp solver options.
type SolverConfig struct {
	Scale           int           `koanf:"scale" validate:"gte=1,lte=1000000"`
	Strategy        string        `koanf:"strategy" validate:"oneof=table diagram bruteforce"`
	BruteForceLimit int           `koanf:"brute_force_limit" validate:"gte=1"`
	Timeout         time.Duration `koanf:"timeout" validate:"gte=0"`
}

// DisplayConfig controls text rendering of results.
type DisplayConfig struct {
	Order       []string `koanf:"order"`
	StatsPerRow int      `koanf:"stats_per_row" validate:"gte=1,lte=32"`
	Decimals    int      `koanf:"decimals" validate:"gte=0,lte=10"`
}

// SchemaConfig lists record keys that are never treated as statistics.
type SchemaConfig struct {
	Excluded []string `koanf:"excluded"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `koanf:"addr" validate:"required"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	MaxBodyBytes int64         `koanf:"max_body_bytes" validate:"gte=1024"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults applied before any file or
// environment override.
func defaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Scale:           mckp.DefaultScale,
			Strategy:        mckp.StrategyTable.String(),
			BruteForceLimit: mckp.DefaultBruteForceLimit,
		},
		Display: DisplayConfig{
			Order:       append([]string(nil), mckp.DefaultOrder...),
			StatsPerRow: 4,
			Decimals:    2,
		},
		Schema: SchemaConfig{
			Excluded: mckp.DefaultSchema().Excluded,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			CacheTTL:     5 * time.Minute,
			ReadTimeout:  10 * time.Second,
			MaxBodyBytes: 8 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// SolverOptions converts the solver section into mckp options.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (c *Config) SolverOptions(logger zerolog.Logger, observer mckp.Observer) ([]mckp.Option, error) {
	strategy, err := mckp.ParseStrategy(c.Solver.Strategy)
	if err != nil {
		return nil, fmt.Errorf("solver.strategy: %w", err)
	}
	opts := []mckp.Option{
		mckp.WithScale(c.Solver.Scale),
		mckp.WithStrategy(strategy),
		mckp.WithBruteForceLimit(c.Solver.BruteForceLimit),
		mckp.WithTimeout(c.Solver.Timeout),
		mckp.WithLogger(logger),
	}
	if observer != nil {
		opts = append(opts, mckp.WithObserver(observer))
	}
	return opts, nil
}

// Formatter builds the result formatter described by the display section.
func (c *Config) Formatter() mckp.Formatter {
	f := mckp.DefaultFormatter()
	f.Order = c.Display.Order
	f.StatsPerRow = c.Display.StatsPerRow
	f.Decimals = c.Display.Decimals
	return f
}

// SchemaDef returns the aggregation schema.
func (c *Config) SchemaDef() mckp.Schema {
	return mckp.Schema{Excluded: c.Schema.Excluded}
}
