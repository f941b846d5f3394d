package mckp

import (
	"context"
	"fmt"
	"math"
)

// solveTable runs the dense dynamic program.
//
// Categories are folded last to first. After folding category c, best[r] holds
// the best objective reachable by choosing exactly one item from each of the
// categories c..n-1 with a scaled weight of at most r, and choice[c][r] holds
// the first listed item of category c attaining it (-1 when nothing fits).
// The empty suffix is the only base case, so every feasible value includes
// exactly one item per category.
//
// Reconstruction walks forward from the full capacity following choice, which
// yields the lexicographically earliest optimal selection in listed order.
func solveTable(ctx context.Context, p *problem, maxCapacity int) ([]int, error) {
	if p.capacity > maxCapacity {
		return nil, fmt.Errorf("%w: scaled budget %d exceeds table limit %d", ErrInvalidConfiguration, p.capacity, maxCapacity)
	}

	n := p.categories()
	width := p.capacity + 1

	next := make([]float64, width) // empty suffix: zero everywhere
	best := make([]float64, width)
	choice := make([][]int32, n)

	for c := n - 1; c >= 0; c-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		weights, values := p.weights[c], p.values[c]
		choice[c] = make([]int32, width)
		for r := 0; r < width; r++ {
			v := math.Inf(-1)
			pick := int32(-1)
			for i, w := range weights {
				if w > r {
					continue
				}
				// strict comparison keeps the earliest listed item on ties
				if nv := values[i] + next[r-w]; nv > v {
					v = nv
					pick = int32(i)
				}
			}
			best[r] = v
			choice[c][r] = pick
		}
		next, best = best, next
	}

	// next now holds the fold over all categories
	if math.IsInf(next[p.capacity], -1) {
		return nil, ErrInfeasible
	}

	picks := make([]int, n)
	r := p.capacity
	for c := 0; c < n; c++ {
		i := choice[c][r]
		if i < 0 {
			return nil, fmt.Errorf("%w: broken back-pointer at category %d", ErrInvalidConfiguration, c)
		}
		picks[c] = int(i)
		r -= p.weights[c][i]
	}
	return picks, nil
}
