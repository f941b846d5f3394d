package mckp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Strategy selects the algorithm used by a Solver.
type Strategy int

// Available strategies. All of them return the same configuration for the
// same input; they differ in cost.
const (
	// StrategyTable is the dense dynamic program, O(categories × capacity × items).
	StrategyTable Strategy = iota

	// StrategyDiagram builds a decision diagram over reachable capacities only.
	StrategyDiagram

	// StrategyBruteForce enumerates the full cross product. Use it as a
	// reference on small datasets only.
	StrategyBruteForce
)

var strategyNames = map[Strategy]string{
	StrategyTable:      "table",
	StrategyDiagram:    "diagram",
	StrategyBruteForce: "bruteforce",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy converts a strategy name such as "table" into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Outcome labels reported to observers.
const (
	OutcomeOK               = "ok"
	OutcomeInfeasible       = "infeasible"
	OutcomeInvalidInput     = "invalid_input"
	OutcomeUnknownAttribute = "unknown_attribute"
	OutcomeError            = "error"
)

// Outcome classifies a solve error into an observer label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInfeasible):
		return OutcomeInfeasible
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrUnknownAttribute):
		return OutcomeUnknownAttribute
	default:
		return OutcomeError
	}
}

// Solver picks one item per category maximizing an attribute under a weight
// budget.
//
// A Solver holds only configuration. Every call allocates its own tables, so a
// single Solver is safe for concurrent use.
type Solver struct {
	config *Config
}

// NewSolver creates a solver with the given options.
//
// Example:
//
//	s := NewSolver(WithStrategy(StrategyDiagram), WithLogger(logger))
func NewSolver(opts ...Option) *Solver {
	return &Solver{config: newConfig(opts...)}
}

// Config returns the solver's configuration.
func (s *Solver) Config() Config {
	return *s.config
}

// Solve returns the configuration maximizing objective within budget.
//
// Errors:
//   - *InvalidInputError (ErrInvalidInput) for an empty dataset, an empty
//     category or a negative budget, reported before any solving
//   - *UnknownAttributeError (ErrUnknownAttribute) when an item lacks objective
//   - *InfeasibleError (ErrInfeasible) when no configuration fits the budget
//
// The same input always yields the same configuration: among equally good
// configurations the one choosing the earliest listed items, category by
// category, wins.
func (s *Solver) Solve(ctx context.Context, ds Dataset, budget float64, objective string) (Configuration, error) {
	start := time.Now()
	cfg, err := s.solve(ctx, ds, budget, objective)
	elapsed := time.Since(start)

	if s.config.Observer != nil {
		s.config.Observer.ObserveSolve(s.config.Strategy, Outcome(err), elapsed)
	}

	logger := s.config.Logger
	if err != nil {
		logger.Debug().Err(err).
			Str("strategy", s.config.Strategy.String()).
			Str("objective", objective).
			Float64("budget", budget).
			Dur("elapsed", elapsed).
			Msg("solve failed")
		return Configuration{}, err
	}
	logger.Debug().
		Str("strategy", s.config.Strategy.String()).
		Str("objective", objective).
		Float64("budget", budget).
		Int("categories", len(ds.Categories)).
		Dur("elapsed", elapsed).
		Msg("solve completed")
	return cfg, nil
}

func (s *Solver) solve(ctx context.Context, ds Dataset, budget float64, objective string) (Configuration, error) {
	if err := Validate(ds, budget); err != nil {
		return Configuration{}, err
	}
	if objective == "" {
		return Configuration{}, &UnknownAttributeError{Attribute: objective}
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	p, err := newProblem(ds, budget, objective, s.config.Scale)
	if err != nil {
		return Configuration{}, err
	}

	s.config.Logger.Debug().
		Int("capacity", p.capacity).
		Int("scale", s.config.Scale).
		Str("strategy", s.config.Strategy.String()).
		Msg("problem discretized")

	var picks []int
	switch s.config.Strategy {
	case StrategyTable:
		picks, err = solveTable(ctx, p, s.config.MaxCapacity)
	case StrategyDiagram:
		picks, err = solveDiagram(ctx, p)
	case StrategyBruteForce:
		picks, err = solveBruteForce(ctx, p, s.config.BruteForceLimit)
	default:
		return Configuration{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, s.config.Strategy)
	}
	if errors.Is(err, ErrInfeasible) {
		return Configuration{}, &InfeasibleError{Budget: budget, MinWeight: p.minWeight}
	}
	if err != nil {
		return Configuration{}, fmt.Errorf("%s strategy: %w", s.config.Strategy, err)
	}

	cfg := p.configuration(ds, picks)
	if err := ValidateConfiguration(ds, cfg, budget); err != nil {
		return Configuration{}, fmt.Errorf("%s strategy produced an invalid result: %w", s.config.Strategy, err)
	}
	return cfg, nil
}

// solveDiagram builds the decision diagram and evaluates its best path.
func solveDiagram(ctx context.Context, p *problem) ([]int, error) {
	d := newDiagram(p)
	if err := d.Build(ctx); err != nil {
		return nil, err
	}
	res, err := EvaluateDiagram(ctx, d, BestEvaluator{})
	if err != nil {
		return nil, err
	}
	return res.Picks, nil
}

// Count returns the number of configurations that fit the budget, saturating
// at math.MaxUint64. It validates its input like Solve and always uses the
// decision diagram regardless of the configured strategy.
func (s *Solver) Count(ctx context.Context, ds Dataset, budget float64) (uint64, error) {
	if err := Validate(ds, budget); err != nil {
		return 0, err
	}
	p, err := newProblem(ds, budget, "", s.config.Scale)
	if err != nil {
		return 0, err
	}

	d := newDiagram(p)
	if err := d.Build(ctx); err != nil {
		return 0, err
	}
	if !d.Feasible() {
		return 0, nil
	}
	n, err := EvaluateDiagram(ctx, d, CountEvaluator{})
	if err != nil {
		return 0, err
	}

	s.config.Logger.Debug().
		Uint64("configurations", n).
		Int("nodes", d.Size()).
		Msg("feasible configurations counted")
	return n, nil
}

// Rank returns up to k configurations that fit the budget, highest objective
// first. Ties follow the same listed-order rule as Solve, so the first entry
// is the configuration Solve returns. Like Count it always uses the decision
// diagram.
func (s *Solver) Rank(ctx context.Context, ds Dataset, budget float64, objective string, k int) ([]Configuration, error) {
	if err := Validate(ds, budget); err != nil {
		return nil, err
	}
	if objective == "" {
		return nil, &UnknownAttributeError{Attribute: objective}
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	p, err := newProblem(ds, budget, objective, s.config.Scale)
	if err != nil {
		return nil, err
	}
	d := newDiagram(p)
	if err := d.Build(ctx); err != nil {
		return nil, err
	}
	if !d.Feasible() {
		return nil, &InfeasibleError{Budget: budget, MinWeight: p.minWeight}
	}

	ranked, err := EvaluateDiagram(ctx, d, TopKEvaluator{K: k})
	if err != nil {
		return nil, err
	}
	out := make([]Configuration, len(ranked))
	for i, r := range ranked {
		out[i] = p.configuration(ds, r.Picks)
	}

	s.config.Logger.Debug().
		Str("objective", objective).
		Int("k", k).
		Int("ranked", len(out)).
		Int("nodes", d.Size()).
		Msg("configurations ranked")
	return out, nil
}

// Result bundles a solved configuration with its derived figures.
type Result struct {
	Configuration Configuration  `json:"configuration"`
	Stats         AggregateStats `json:"stats"`
	Objective     string         `json:"objective"`
	Value         float64        `json:"value"`
	Weight        float64        `json:"weight"`
	Budget        float64        `json:"budget"`
}

// Optimize solves and aggregates in one call.
func (s *Solver) Optimize(ctx context.Context, ds Dataset, budget float64, objective string, schema Schema) (Result, error) {
	cfg, err := s.Solve(ctx, ds, budget, objective)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Configuration: cfg,
		Stats:         Aggregate(ds, cfg, schema),
		Objective:     objective,
		Value:         cfg.Objective(ds, objective),
		Weight:        cfg.TotalWeight(ds),
		Budget:        budget,
	}, nil
}

// Solve runs a default solver.
func Solve(ds Dataset, budget float64, objective string) (Configuration, error) {
	return NewSolver().Solve(context.Background(), ds, budget, objective)
}
