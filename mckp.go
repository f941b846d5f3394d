// Package mckp solves the multiple-choice knapsack problem for equipment loadouts.
//
// # Overview
//
// A Dataset is an ordered list of categories (equipment slots such as Helmet or
// Chest), each holding an ordered list of candidate items. Every item has a
// weight and a set of named numeric attributes. Solving picks exactly one item
// per category so that the sum of one chosen attribute (the objective) is
// maximized while the summed weight stays within a shared budget.
//
// # Key Features
//
//   - Exact pseudo-polynomial dynamic programming over discretized weights
//   - Deterministic tie-breaking: the earliest listed items win among equal optima
//   - Alternative decision-diagram strategy that only visits reachable states
//   - Brute-force enumerator usable as a reference oracle on small datasets
//   - Aggregation of every attribute over the winning configuration
//   - Stable text rendering of results
//
// # Basic Usage
//
//	ds := mckp.Dataset{Categories: []mckp.Category{
//	    {Name: "Head", Items: []mckp.Item{
//	        mckp.NewItem("A", 2, mckp.Attribute{Name: "Power", Value: 5}),
//	        mckp.NewItem("B", 1, mckp.Attribute{Name: "Power", Value: 3}),
//	    }},
//	    // ...
//	}}
//
//	solver := mckp.NewSolver(mckp.WithStrategy(mckp.StrategyTable))
//	cfg, err := solver.Solve(ctx, ds, 4, "Power")
//	if errors.Is(err, mckp.ErrInfeasible) {
//	    // offer to raise the budget
//	}
//
//	stats := mckp.Aggregate(ds, cfg, mckp.DefaultSchema())
//	fmt.Print(mckp.DefaultFormatter().Format(cfg, stats))
//
// # Performance Considerations
//
// Runtime is O(categories × scaled budget × items per category). The budget is
// scaled by WithScale (100 by default) and clamped to the heaviest possible
// configuration, so very large budgets do not allocate larger tables than needed.
package mckp

// Reserved record keys. They identify an item and are never aggregated.
const (
	NameKey   = "Name"
	WeightKey = "Weight"
	RatioKey  = "Ratio"
)

// Attribute is a named numeric property of an item.
type Attribute struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Item is a single candidate within a category.
//
// Items are treated as read-only once they have been handed to the solver.
// Attributes keep their declared order so that derived statistics render in
// the same order as the source data.
type Item struct {
	// Name identifies the item within its category
	Name string `json:"name"`

	// Weight counts against the shared budget
	Weight float64 `json:"weight"`

	// Attributes holds every numeric property other than Name and Weight
	Attributes []Attribute `json:"attributes"`
}

// NewItem creates an item with the given attributes in declared order.
func NewItem(name string, weight float64, attrs ...Attribute) Item {
	a := make([]Attribute, len(attrs))
	copy(a, attrs)
	return Item{Name: name, Weight: weight, Attributes: a}
}

// Value returns the value of the named attribute and whether it is present.
func (it Item) Value(name string) (float64, bool) {
	for _, a := range it.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return 0, false
}

// Category is a slot from which exactly one item must be chosen.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item returns the item with the given name and its index in the category.
// The index is -1 when no such item exists.
func (c Category) Item(name string) (Item, int) {
	for i, it := range c.Items {
		if it.Name == name {
			return it, i
		}
	}
	return Item{}, -1
}

// Dataset is the normalized input of a solve: an ordered list of categories.
type Dataset struct {
	Categories []Category `json:"categories"`
}

// Category returns the category with the given name.
func (d Dataset) Category(name string) (Category, bool) {
	for _, c := range d.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Attributes lists the attribute names available for optimization.
//
// Names are taken from the first item of the first category, in declared
// order, minus the keys excluded by schema. An empty dataset has none.
func (d Dataset) Attributes(schema Schema) []string {
	if len(d.Categories) == 0 || len(d.Categories[0].Items) == 0 {
		return nil
	}
	first := d.Categories[0].Items[0]
	names := make([]string, 0, len(first.Attributes))
	for _, a := range first.Attributes {
		if schema.excludes(a.Name) {
			continue
		}
		names = append(names, a.Name)
	}
	return names
}

// Choice references one item of one category by name.
type Choice struct {
	Category string `json:"category"`
	Item     string `json:"item"`
}

// Configuration is one item per category, in dataset category order.
//
// It references items by (category, name) and does not own them.
type Configuration struct {
	Choices []Choice `json:"choices"`
}

// Lookup returns the item name chosen for a category.
func (c Configuration) Lookup(category string) (string, bool) {
	for _, ch := range c.Choices {
		if ch.Category == category {
			return ch.Item, true
		}
	}
	return "", false
}

// Items resolves the configuration against a dataset.
// Choices that do not resolve are skipped.
func (c Configuration) Items(ds Dataset) []Item {
	items := make([]Item, 0, len(c.Choices))
	for _, ch := range c.Choices {
		cat, ok := ds.Category(ch.Category)
		if !ok {
			continue
		}
		if it, idx := cat.Item(ch.Item); idx >= 0 {
			items = append(items, it)
		}
	}
	return items
}

// TotalWeight sums the weight of the chosen items.
func (c Configuration) TotalWeight(ds Dataset) float64 {
	total := 0.0
	for _, it := range c.Items(ds) {
		total += it.Weight
	}
	return total
}

// Objective sums the named attribute over the chosen items, treating missing
// values as zero.
func (c Configuration) Objective(ds Dataset, attribute string) float64 {
	total := 0.0
	for _, it := range c.Items(ds) {
		v, _ := it.Value(attribute)
		total += v
	}
	return total
}

// AggregateStats maps attribute names to their sums over a configuration.
// Names preserves the schema order used to build it.
type AggregateStats struct {
	Names  []string           `json:"names"`
	Values map[string]float64 `json:"values"`
}

// Get returns the summed value of a statistic, zero when absent.
func (s AggregateStats) Get(name string) float64 {
	return s.Values[name]
}
