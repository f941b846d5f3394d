// Command mckp picks the best equipment loadout from a dataset file.
//
// Usage:
//
//	mckp --dataset armors.json --budget 60 --objective Phy
//	mckp --dataset armors.json            # prompts for budget and attribute
//	mckp -d armors.json -b 60 -o Phy --json
//	mckp -d armors.json -b 60 --count
//	mckp -d armors.json -b 60 -o Phy --top 5
//
// Settings not given as flags come from mckp.yaml and MCKP_* variables.
//
// Exit codes: 0 on success, 1 when no configuration fits or solving fails,
// 2 on bad flags, configuration or input.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/zzenonn/go-mckp"
	"github.com/zzenonn/go-mckp/internal/config"
	"github.com/zzenonn/go-mckp/internal/dataset"
	"github.com/zzenonn/go-mckp/internal/logging"
)

const (
	exitOK    = 0
	exitSolve = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath  string
	datasetPath string
	budget      float64
	objective   string
	strategy    string
	logLevel    string
	top         int
	jsonOut     bool
	count       bool
	listAttrs   bool
}

func parseFlags(args []string, stderr io.Writer) (*pflag.FlagSet, *options, error) {
	var o options
	fs := pflag.NewFlagSet("mckp", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML config file (default: $MCKP_CONFIG or ./mckp.yaml)")
	fs.StringVarP(&o.datasetPath, "dataset", "d", "", "JSON or YAML dataset file")
	fs.Float64VarP(&o.budget, "budget", "b", 0, "weight budget (prompted when omitted)")
	fs.StringVarP(&o.objective, "objective", "o", "", "attribute to maximize (prompted when omitted)")
	fs.StringVar(&o.strategy, "strategy", "", "solving strategy: table, diagram or bruteforce")
	fs.StringVar(&o.logLevel, "log-level", "", "log level")
	fs.IntVar(&o.top, "top", 0, "print the N best configurations instead of only the best")
	fs.BoolVar(&o.jsonOut, "json", false, "print the result as JSON")
	fs.BoolVar(&o.count, "count", false, "print the number of configurations that fit the budget")
	fs.BoolVar(&o.listAttrs, "list-attributes", false, "print the attributes that can be maximized")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return fs, &o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "mckp: %v\n", err)
		return exitUsage
	}
	if fs.Changed("dataset") {
		cfg.Dataset.Path = o.datasetPath
	}
	if fs.Changed("strategy") {
		cfg.Solver.Strategy = o.strategy
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})
	logger := logging.WithComponent("cli")

	if cfg.Dataset.Path == "" {
		fmt.Fprintln(stderr, "mckp: no dataset given; use --dataset or MCKP_DATASET")
		return exitUsage
	}
	ds, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		fmt.Fprintf(stderr, "mckp: %v\n", err)
		return exitUsage
	}
	logger.Debug().Str("path", cfg.Dataset.Path).Int("categories", len(ds.Categories)).Msg("dataset loaded")

	schema := cfg.SchemaDef()
	attrs := ds.Attributes(schema)
	if o.listAttrs {
		for _, a := range attrs {
			fmt.Fprintln(stdout, a)
		}
		return exitOK
	}

	opts, err := cfg.SolverOptions(logging.WithComponent("solver"), nil)
	if err != nil {
		fmt.Fprintf(stderr, "mckp: %v\n", err)
		return exitUsage
	}
	solver := mckp.NewSolver(opts...)

	p := newPrompter(stdin, stdout)
	budget := o.budget
	if !fs.Changed("budget") {
		if budget, err = p.budget(); err != nil {
			fmt.Fprintf(stderr, "mckp: %v\n", err)
			return exitUsage
		}
	}

	if o.count {
		n, err := solver.Count(ctx, ds, budget)
		if err != nil {
			return reportError(stderr, err)
		}
		fmt.Fprintf(stdout, "Configurations: %d\n", n)
		return exitOK
	}

	objective := o.objective
	if objective == "" {
		if objective, err = p.attribute(attrs); err != nil {
			fmt.Fprintf(stderr, "mckp: %v\n", err)
			return exitUsage
		}
	}

	var results []mckp.Result
	if o.top > 0 {
		ranked, err := solver.Rank(ctx, ds, budget, objective, o.top)
		if err != nil {
			return reportError(stderr, err)
		}
		for _, c := range ranked {
			results = append(results, mckp.Result{
				Configuration: c,
				Stats:         mckp.Aggregate(ds, c, schema),
				Objective:     objective,
				Value:         c.Objective(ds, objective),
				Weight:        c.TotalWeight(ds),
				Budget:        budget,
			})
		}
	} else {
		res, err := solver.Optimize(ctx, ds, budget, objective, schema)
		if err != nil {
			return reportError(stderr, err)
		}
		results = append(results, res)
	}

	if o.jsonOut {
		var v any = results[0]
		if o.top > 0 {
			v = results
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "mckp: %v\n", err)
			return exitSolve
		}
		fmt.Fprintln(stdout, string(data))
		return exitOK
	}

	f := cfg.Formatter()
	for i, res := range results {
		if o.top > 0 {
			f.Heading = fmt.Sprintf("Configuration %d (%s %s)", i+1, objective, mckp.FormatNumber(res.Value, f.Decimals))
		}
		fmt.Fprint(stdout, f.Format(res.Configuration, res.Stats))
	}
	return exitOK
}

// reportError prints a solve error and picks the exit code.
func reportError(stderr io.Writer, err error) int {
	var infeasible *mckp.InfeasibleError
	switch {
	case errors.As(err, &infeasible):
		fmt.Fprintf(stderr, "mckp: no configuration fits a budget of %s; the lightest weighs %s\n",
			mckp.FormatNumber(infeasible.Budget, 2), mckp.FormatNumber(infeasible.MinWeight, 2))
		return exitSolve
	case errors.Is(err, mckp.ErrInvalidInput), errors.Is(err, mckp.ErrUnknownAttribute):
		fmt.Fprintf(stderr, "mckp: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "mckp: %v\n", err)
		return exitSolve
	}
}
