// Package dataset reads item records from JSON or YAML files and normalizes
// them into an mckp.Dataset.
//
// The expected shape is a mapping from category name to a list of records:
//
//	{
//	  "Helmet": [
//	    {"Name": "iron helm", "Weight": 4.5, "Phy": 3.2, "Fire": 1.1},
//	    ...
//	  ],
//	  "Chest": [...]
//	}
//
// Category order, record order and attribute order are preserved as written.
// Every record needs a string Name and a numeric Weight; spreadsheet exports
// that use the column "Wgt" are accepted as well. All other keys must hold
// numbers and become attributes.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zzenonn/go-mckp"
)

// WeightAlias is the spreadsheet column name accepted in place of Weight.
const WeightAlias = "Wgt"

var (
	// ErrMalformed indicates records that do not follow the dataset shape.
	ErrMalformed = errors.New("malformed dataset")

	// ErrUnsupportedFormat indicates a file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// Format selects a decoder.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and normalizes a dataset file.
func Load(path string) (mckp.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return mckp.Dataset{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return mckp.Dataset{}, fmt.Errorf("reading dataset: %w", err)
	}
	ds, err := Decode(data, format)
	if err != nil {
		return mckp.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Decode normalizes raw dataset bytes.
func Decode(data []byte, format Format) (mckp.Dataset, error) {
	var (
		raw []rawCategory
		err error
	)
	switch format {
	case FormatJSON:
		raw, err = parseJSON(data)
	case FormatYAML:
		raw, err = parseYAML(data)
	default:
		return mckp.Dataset{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return mckp.Dataset{}, err
	}
	return normalize(raw)
}

// rawCategory is a parsed category before normalization.
type rawCategory struct {
	name    string
	records [][]field
}

// field is one key of a record in source order. Exactly one of text or
// number is meaningful, depending on isNumber.
type field struct {
	key      string
	text     string
	number   float64
	isNumber bool
}

func normalize(raw []rawCategory) (mckp.Dataset, error) {
	ds := mckp.Dataset{Categories: make([]mckp.Category, 0, len(raw))}
	for _, rc := range raw {
		cat := mckp.Category{Name: rc.name, Items: make([]mckp.Item, 0, len(rc.records))}
		for i, rec := range rc.records {
			it, err := normalizeRecord(rec)
			if err != nil {
				return mckp.Dataset{}, fmt.Errorf("%w: category %q record %d: %s", ErrMalformed, rc.name, i, err)
			}
			cat.Items = append(cat.Items, it)
		}
		ds.Categories = append(ds.Categories, cat)
	}
	return ds, nil
}

func normalizeRecord(rec []field) (mckp.Item, error) {
	var (
		it        mckp.Item
		hasName   bool
		hasWeight bool
	)
	for _, f := range rec {
		switch f.key {
		case mckp.NameKey:
			if f.isNumber || f.text == "" {
				return mckp.Item{}, errors.New("Name must be a non-empty string")
			}
			it.Name = f.text
			hasName = true
		case mckp.WeightKey, WeightAlias:
			if hasWeight {
				return mckp.Item{}, fmt.Errorf("both %s and %s given", mckp.WeightKey, WeightAlias)
			}
			if !f.isNumber {
				return mckp.Item{}, fmt.Errorf("%s %q is not a number", f.key, f.text)
			}
			it.Weight = f.number
			hasWeight = true
		default:
			if !f.isNumber {
				return mckp.Item{}, fmt.Errorf("attribute %s %q is not a number", f.key, f.text)
			}
			it.Attributes = append(it.Attributes, mckp.Attribute{Name: f.key, Value: f.number})
		}
	}
	if !hasName {
		return mckp.Item{}, errors.New("missing Name")
	}
	if !hasWeight {
		return mckp.Item{}, fmt.Errorf("item %q is missing Weight", it.Name)
	}
	return it, nil
}
