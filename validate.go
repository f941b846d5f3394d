package mckp

import (
	"fmt"
	"math"
)

// Validate checks that a dataset and budget form a well-posed problem.
//
// The dataset must contain at least one category, every category must hold at
// least one item, category names and item names within a category must be
// unique, item weights must be non-negative numbers, and the budget must be a
// non-negative number. The first violation is returned as *InvalidInputError.
func Validate(ds Dataset, budget float64) error {
	if len(ds.Categories) == 0 {
		return &InvalidInputError{Reason: ReasonEmptyDataset}
	}
	if math.IsNaN(budget) || budget < 0 {
		return &InvalidInputError{Reason: ReasonNegativeBudget}
	}

	categories := make(map[string]struct{}, len(ds.Categories))
	for _, c := range ds.Categories {
		if _, dup := categories[c.Name]; dup {
			return &InvalidInputError{Reason: ReasonDuplicateCategory, Category: c.Name}
		}
		categories[c.Name] = struct{}{}

		if len(c.Items) == 0 {
			return &InvalidInputError{Reason: ReasonEmptyCategory, Category: c.Name}
		}

		names := make(map[string]struct{}, len(c.Items))
		for _, it := range c.Items {
			if _, dup := names[it.Name]; dup {
				return &InvalidInputError{Reason: ReasonDuplicateItem, Category: c.Name, Item: it.Name}
			}
			names[it.Name] = struct{}{}

			if math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) || it.Weight < 0 {
				return &InvalidInputError{Reason: ReasonInvalidWeight, Category: c.Name, Item: it.Name}
			}
		}
	}
	return nil
}

// ValidateConfiguration checks that cfg is a valid selection for ds under budget:
// exactly one choice per category, in any order, each naming an existing item,
// with a total weight within the budget.
func ValidateConfiguration(ds Dataset, cfg Configuration, budget float64) error {
	if len(cfg.Choices) != len(ds.Categories) {
		return fmt.Errorf("%w: %d choices for %d categories", ErrInvalidConfiguration, len(cfg.Choices), len(ds.Categories))
	}
	seen := make(map[string]struct{}, len(cfg.Choices))
	total := 0.0
	for _, ch := range cfg.Choices {
		if _, dup := seen[ch.Category]; dup {
			return fmt.Errorf("%w: category %q chosen twice", ErrInvalidConfiguration, ch.Category)
		}
		seen[ch.Category] = struct{}{}

		cat, ok := ds.Category(ch.Category)
		if !ok {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidConfiguration, ch.Category)
		}
		it, idx := cat.Item(ch.Item)
		if idx < 0 {
			return fmt.Errorf("%w: unknown item %q in category %q", ErrInvalidConfiguration, ch.Item, ch.Category)
		}
		total += it.Weight
	}
	if total > budget+weightTolerance {
		return fmt.Errorf("%w: weight %.4f exceeds budget %.4f", ErrInvalidConfiguration, total, budget)
	}
	return nil
}
