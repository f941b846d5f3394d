package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// parseJSON walks the token stream so that object key order survives.
func parseJSON(data []byte) ([]rawCategory, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var cats []rawCategory
	for dec.More() {
		name, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		rc := rawCategory{name: name}
		if err := expectDelim(dec, '['); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		for dec.More() {
			rec, err := jsonRecord(dec)
			if err != nil {
				return nil, fmt.Errorf("category %q record %d: %w", name, len(rc.records), err)
			}
			rc.records = append(rc.records, rec)
		}
		if err := expectDelim(dec, ']'); err != nil {
			return nil, err
		}
		cats = append(cats, rc)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after dataset", ErrMalformed)
	}
	return cats, nil
}

func jsonRecord(dec *json.Decoder) ([]field, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var rec []field
	for dec.More() {
		key, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		f := field{key: key}
		switch v := tok.(type) {
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
			}
			f.number, f.isNumber = n, true
		case string:
			f.text = v
		case bool:
			f.text = fmt.Sprint(v)
		case nil:
			f.text = "null"
		default:
			return nil, fmt.Errorf("%w: %s holds a nested value", ErrMalformed, key)
		}
		rec = append(rec, f)
	}
	return rec, expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, found %v", ErrMalformed, want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected a key, found %v", ErrMalformed, tok)
	}
	return s, nil
}
