package mckp

// Schema decides which record keys count as statistics.
type Schema struct {
	// Excluded lists keys that identify or annotate an item and are never summed.
	Excluded []string `json:"excluded" yaml:"excluded"`
}

// DefaultSchema excludes the reserved Name, Ratio and Weight keys.
func DefaultSchema() Schema {
	return Schema{Excluded: []string{NameKey, RatioKey, WeightKey}}
}

func (s Schema) excludes(key string) bool {
	for _, k := range s.Excluded {
		if k == key {
			return true
		}
	}
	return false
}

// Aggregate sums every statistic over the items chosen by cfg.
//
// Statistic names come from the first item of the first category, minus the
// schema's excluded keys, in declared order. A chosen item lacking a statistic
// contributes zero. Aggregate expects a configuration produced for ds; choices
// that do not resolve contribute nothing.
func Aggregate(ds Dataset, cfg Configuration, schema Schema) AggregateStats {
	names := ds.Attributes(schema)
	stats := AggregateStats{
		Names:  names,
		Values: make(map[string]float64, len(names)),
	}

	items := cfg.Items(ds)
	for _, name := range names {
		total := 0.0
		for _, it := range items {
			v, _ := it.Value(name)
			total += v
		}
		stats.Values[name] = total
	}
	return stats
}
