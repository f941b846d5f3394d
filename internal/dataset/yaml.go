package dataset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// parseYAML decodes into a yaml.Node tree, whose mappings keep key order.
func parseYAML(data []byte) ([]rawCategory, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of categories", ErrMalformed, root.Line)
	}

	cats := make([]rawCategory, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, list := root.Content[i], root.Content[i+1]
		if list.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: line %d: category %q is not a list", ErrMalformed, list.Line, key.Value)
		}
		rc := rawCategory{name: key.Value}
		for _, node := range list.Content {
			rec, err := yamlRecord(node)
			if err != nil {
				return nil, fmt.Errorf("category %q record %d: %w", key.Value, len(rc.records), err)
			}
			rc.records = append(rc.records, rec)
		}
		cats = append(cats, rc)
	}
	return cats, nil
}

func yamlRecord(node *yaml.Node) ([]field, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: record is not a mapping", ErrMalformed, node.Line)
	}
	rec := make([]field, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: %s holds a nested value", ErrMalformed, val.Line, key.Value)
		}
		f := field{key: key.Value, text: val.Value}
		if tag := val.ShortTag(); tag == "!!int" || tag == "!!float" {
			if err := val.Decode(&f.number); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, val.Line, err)
			}
			f.isNumber = true
		}
		rec = append(rec, f)
	}
	return rec, nil
}
