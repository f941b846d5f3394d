package mckp

import (
	"context"
	"fmt"
	"math"
)

// combinations returns the size of the cross product of all categories,
// saturating at limit+1.
func (p *problem) combinations(limit int) int {
	total := 1
	for _, ws := range p.weights {
		if total > (limit+1)/len(ws) {
			return limit + 1
		}
		total *= len(ws)
	}
	return total
}

// solveBruteForce enumerates every configuration in lexicographic listed
// order and keeps the first one with a strictly better objective.
//
// It shares the discretized weights with the other strategies so all of them
// agree on feasibility, and sums values in the same order as the table so
// ties compare exactly.
func solveBruteForce(ctx context.Context, p *problem, limit int) ([]int, error) {
	if n := p.combinations(limit); n > limit {
		return nil, fmt.Errorf("%w: more than %d configurations to enumerate", ErrInvalidConfiguration, limit)
	}

	n := p.categories()
	idx := make([]int, n)
	var best []int
	bestValue := math.Inf(-1)

	for steps := 0; ; steps++ {
		if steps%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		weight := 0
		value := 0.0
		for c := n - 1; c >= 0; c-- {
			weight += p.weights[c][idx[c]]
			value = p.values[c][idx[c]] + value
		}
		if weight <= p.capacity && value > bestValue {
			bestValue = value
			best = append(best[:0], idx...)
		}

		// advance the odometer, last category fastest
		c := n - 1
		for ; c >= 0; c-- {
			idx[c]++
			if idx[c] < len(p.weights[c]) {
				break
			}
			idx[c] = 0
		}
		if c < 0 {
			break
		}
	}

	if best == nil {
		return nil, ErrInfeasible
	}
	return best, nil
}
