package mckp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultOrder is the display order of the armor slots.
var DefaultOrder = []string{"Helmet", "Chest", "Gauntlet", "Pant"}

// Formatter renders a configuration and its statistics as text.
type Formatter struct {
	// Heading is printed above the chosen items.
	Heading string

	// Order fixes the display order of categories. Categories missing from
	// Order follow in configuration order.
	Order []string

	// StatsPerRow is the number of statistics per output line.
	StatsPerRow int

	// Decimals is the number of decimal places statistics are rounded to.
	Decimals int
}

// DefaultFormatter matches the console output of the armor optimizer:
// slots Helmet, Chest, Gauntlet, Pant, four statistics per row, two decimals.
func DefaultFormatter() Formatter {
	return Formatter{
		Heading:     "Optimal Armor Configuration",
		Order:       DefaultOrder,
		StatsPerRow: 4,
		Decimals:    2,
	}
}

// Format renders cfg followed by stats.
//
//	Optimal Armor Configuration:
//	Helmet: Iron Helm
//	...
//
//	Total Stats:
//	Phy: 12.5	Fire: 3	...
func (f Formatter) Format(cfg Configuration, stats AggregateStats) string {
	var b strings.Builder
	title := cases.Title(language.English)

	fmt.Fprintf(&b, "\n%s:\n", f.Heading)
	for _, ch := range f.ordered(cfg) {
		fmt.Fprintf(&b, "%s: %s\n", ch.Category, title.String(ch.Item))
	}

	b.WriteString("\nTotal Stats:\n")
	perRow := max(f.StatsPerRow, 1)
	for i := 0; i < len(stats.Names); i += perRow {
		end := min(i+perRow, len(stats.Names))
		for _, name := range stats.Names[i:end] {
			fmt.Fprintf(&b, "%s: %s\t", name, FormatNumber(stats.Get(name), f.Decimals))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ordered returns the choices in display order.
func (f Formatter) ordered(cfg Configuration) []Choice {
	out := make([]Choice, 0, len(cfg.Choices))
	placed := make(map[string]bool, len(cfg.Choices))
	for _, cat := range f.Order {
		if item, ok := cfg.Lookup(cat); ok && !placed[cat] {
			out = append(out, Choice{Category: cat, Item: item})
			placed[cat] = true
		}
	}
	for _, ch := range cfg.Choices {
		if !placed[ch.Category] {
			out = append(out, ch)
			placed[ch.Category] = true
		}
	}
	return out
}

// FormatNumber rounds v to the given number of decimals and drops trailing zeros.
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0 // avoid "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatMenu renders a numbered attribute menu, perRow entries per line,
// numbered from 1.
func FormatMenu(attrs []string, perRow int) string {
	var b strings.Builder
	perRow = max(perRow, 1)
	b.WriteString("Select a parameter to maximize:\n")
	for i := 0; i < len(attrs); i += perRow {
		end := min(i+perRow, len(attrs))
		for j := i; j < end; j++ {
			fmt.Fprintf(&b, "%d. %s ", j+1, attrs[j])
		}
		b.WriteString("\n")
	}
	return b.String()
}
