package mckp

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Evaluator computes a result from a built diagram.
//
// Evaluators traverse the diagram bottom-up with memoization, so each node is
// visited once regardless of how many paths share it.
type Evaluator[T any] interface {
	Evaluate(ctx context.Context, d *Diagram) (T, error)
}

// EvaluateDiagram runs an evaluator against a diagram.
func EvaluateDiagram[T any](ctx context.Context, d *Diagram, e Evaluator[T]) (T, error) {
	var zero T
	if d == nil || d.root == NullNode {
		return zero, fmt.Errorf("%w: diagram not built", ErrInvalidConfiguration)
	}
	return e.Evaluate(ctx, d)
}

// CountEvaluator counts feasible configurations.
// Counts saturate at math.MaxUint64.
type CountEvaluator struct{}

// Evaluate counts all root-to-OneNode paths.
func (CountEvaluator) Evaluate(ctx context.Context, d *Diagram) (uint64, error) {
	memo := make(map[NodeID]uint64)
	return countRecursive(ctx, d, d.root, memo)
}

func countRecursive(ctx context.Context, d *Diagram, id NodeID, memo map[NodeID]uint64) (uint64, error) {
	switch id {
	case ZeroNode:
		return 0, nil
	case OneNode:
		return 1, nil
	}
	if n, ok := memo[id]; ok {
		return n, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	node, err := d.GetNode(id)
	if err != nil {
		return 0, err
	}

	var total uint64
	for _, arc := range node.Arcs {
		n, err := countRecursive(ctx, d, arc.Child, memo)
		if err != nil {
			return 0, err
		}
		if total > math.MaxUint64-n {
			total = math.MaxUint64
		} else {
			total += n
		}
	}
	memo[id] = total
	return total, nil
}

// BestResult is the optimal path through a diagram.
type BestResult struct {
	// Picks holds the chosen item index per category
	Picks []int

	// Value is the summed objective of the picks
	Value float64
}

// BestEvaluator finds the configuration with the highest objective.
// Among equal optima it returns the earliest in listed item order.
type BestEvaluator struct{}

type bestMemo struct {
	value float64
	arc   int
}

// Evaluate computes the best objective per node, then walks from the root
// following the first arc that attains it.
func (BestEvaluator) Evaluate(ctx context.Context, d *Diagram) (BestResult, error) {
	if !d.Feasible() {
		return BestResult{}, ErrInfeasible
	}

	memo := make(map[NodeID]bestMemo)
	value, err := bestRecursive(ctx, d, d.root, memo)
	if err != nil {
		return BestResult{}, err
	}

	picks := make([]int, 0, d.Layers())
	for id := d.root; id != OneNode; {
		node, err := d.GetNode(id)
		if err != nil {
			return BestResult{}, err
		}
		arc := node.Arcs[memo[id].arc]
		picks = append(picks, arc.Item)
		id = arc.Child
	}
	return BestResult{Picks: picks, Value: value}, nil
}

func bestRecursive(ctx context.Context, d *Diagram, id NodeID, memo map[NodeID]bestMemo) (float64, error) {
	if id == OneNode {
		return 0, nil
	}
	if m, ok := memo[id]; ok {
		return m.value, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	node, err := d.GetNode(id)
	if err != nil {
		return 0, err
	}

	best := bestMemo{value: math.Inf(-1), arc: -1}
	for a, arc := range node.Arcs {
		child, err := bestRecursive(ctx, d, arc.Child, memo)
		if err != nil {
			return 0, err
		}
		if v := d.p.values[node.Layer][arc.Item] + child; v > best.value {
			best = bestMemo{value: v, arc: a}
		}
	}
	memo[id] = best
	return best.value, nil
}

// TopKEvaluator finds the K configurations with the highest objective,
// best first. Equal values keep listed item order, so the first entry always
// matches BestEvaluator.
type TopKEvaluator struct {
	K int
}

// Evaluate merges the ranked lists of each node's children, keeping at most
// K entries per node.
func (e TopKEvaluator) Evaluate(ctx context.Context, d *Diagram) ([]BestResult, error) {
	if e.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfiguration, e.K)
	}
	if !d.Feasible() {
		return nil, ErrInfeasible
	}
	memo := make(map[NodeID][]BestResult)
	return e.rankRecursive(ctx, d, d.root, memo)
}

func (e TopKEvaluator) rankRecursive(ctx context.Context, d *Diagram, id NodeID, memo map[NodeID][]BestResult) ([]BestResult, error) {
	if id == OneNode {
		return []BestResult{{}}, nil
	}
	if ranked, ok := memo[id]; ok {
		return ranked, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node, err := d.GetNode(id)
	if err != nil {
		return nil, err
	}

	var candidates []BestResult
	for _, arc := range node.Arcs {
		children, err := e.rankRecursive(ctx, d, arc.Child, memo)
		if err != nil {
			return nil, err
		}
		v := d.p.values[node.Layer][arc.Item]
		for _, child := range children {
			picks := make([]int, 0, len(child.Picks)+1)
			picks = append(picks, arc.Item)
			candidates = append(candidates, BestResult{
				Picks: append(picks, child.Picks...),
				Value: v + child.Value,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})
	if len(candidates) > e.K {
		candidates = candidates[:e.K]
	}
	memo[id] = candidates
	return candidates, nil
}

// FuncEvaluator adapts a function to the Evaluator interface.
type FuncEvaluator[T any] struct {
	// Name prefixes errors returned by Fn
	Name string
	Fn   func(ctx context.Context, d *Diagram) (T, error)
}

// Evaluate calls Fn.
func (e FuncEvaluator[T]) Evaluate(ctx context.Context, d *Diagram) (T, error) {
	var zero T
	if e.Fn == nil {
		return zero, fmt.Errorf("%w: evaluator %q has no function", ErrInvalidConfiguration, e.Name)
	}
	res, err := e.Fn(ctx, d)
	if err != nil && e.Name != "" {
		return zero, fmt.Errorf("%s: %w", e.Name, err)
	}
	return res, err
}
