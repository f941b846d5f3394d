package mckp

import (
	"fmt"
	"math"
)

// weightTolerance absorbs floating point noise when scaling weights and when
// checking a configuration against its budget.
const weightTolerance = 1e-6

// maxScaledCapacity keeps scaled budgets inside int32 back-pointer tables.
const maxScaledCapacity = math.MaxInt32 - 1

// problem is the discretized form of a solve request shared by all strategies.
// Category c offers items 0..len(weights[c])-1 in listed order.
type problem struct {
	weights  [][]int
	values   [][]float64
	capacity int

	// minWeight is the weight of the lightest configuration, in real units.
	minWeight float64
}

// newProblem discretizes a validated dataset.
//
// Item weights are rounded up and the budget rounded down, so a selection that
// fits the scaled capacity also fits the real budget. The capacity is clamped
// to the heaviest configuration, and item weights above the capacity are
// clamped to capacity+1 since they can never be chosen.
//
// When objective is empty every value is zero; Count uses this.
func newProblem(ds Dataset, budget float64, objective string, scale int) (*problem, error) {
	n := len(ds.Categories)
	p := &problem{
		weights: make([][]int, n),
		values:  make([][]float64, n),
	}

	scaled := make([][]float64, n)
	maxTotal := 0.0
	for c, cat := range ds.Categories {
		scaled[c] = make([]float64, len(cat.Items))
		p.values[c] = make([]float64, len(cat.Items))

		heaviest := 0.0
		lightest := math.Inf(1)
		for i, it := range cat.Items {
			w := math.Ceil(it.Weight*float64(scale) - weightTolerance)
			if w < 0 {
				w = 0
			}
			scaled[c][i] = w
			heaviest = math.Max(heaviest, w)
			lightest = math.Min(lightest, it.Weight)

			if objective == "" {
				continue
			}
			v, ok := it.Value(objective)
			if !ok {
				return nil, &UnknownAttributeError{Attribute: objective, Category: cat.Name, Item: it.Name}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &InvalidInputError{Reason: ReasonInvalidValue, Category: cat.Name, Item: it.Name}
			}
			p.values[c][i] = v
		}
		maxTotal += heaviest
		p.minWeight += lightest
	}

	capacity := math.Floor(budget*float64(scale) + weightTolerance)
	if capacity > maxTotal {
		capacity = maxTotal
	}
	if capacity > maxScaledCapacity {
		return nil, fmt.Errorf("%w: scaled budget %.0f exceeds %d, lower the scale", ErrInvalidConfiguration, capacity, maxScaledCapacity)
	}
	p.capacity = int(capacity)

	for c := range scaled {
		p.weights[c] = make([]int, len(scaled[c]))
		for i, w := range scaled[c] {
			if w > capacity {
				p.weights[c][i] = p.capacity + 1
				continue
			}
			p.weights[c][i] = int(w)
		}
	}

	return p, nil
}

// categories returns the number of categories.
func (p *problem) categories() int {
	return len(p.weights)
}

// configuration maps item indices back to names.
func (p *problem) configuration(ds Dataset, picks []int) Configuration {
	cfg := Configuration{Choices: make([]Choice, len(picks))}
	for c, i := range picks {
		cat := ds.Categories[c]
		cfg.Choices[c] = Choice{Category: cat.Name, Item: cat.Items[i].Name}
	}
	return cfg
}
