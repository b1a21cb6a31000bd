// Package metricfile extracts the shape of the inverse-metric entry from
// a metric file, which is either a JSON document or a dump-format file
// holding an "inv_metric" variable.
package metricfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stanio/internal/rdump"
	"stanio/pkg/api"
)

// MetricKey is the entry every metric file must define.
const MetricKey = "inv_metric"

// Shape reads the metric file at path and returns the dimensions of its
// inv_metric entry: one dimension for a diagonal vector, two for a dense
// matrix. Dispatch is by extension; .json files are parsed as JSON and
// everything else as dump format.
func Shape(path string) ([]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metric file: %w", err)
	}
	return ShapeOf(path, raw)
}

// ShapeOf is Shape over already-read content; name selects the format by
// extension and identifies the input in errors.
func ShapeOf(name string, raw []byte) ([]int, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return jsonShape(name, raw)
	}
	return dumpShape(name, raw)
}

func jsonShape(name string, raw []byte) ([]int, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse metric file %s: %w", name, err)
	}
	entry, ok := doc[MetricKey]
	if !ok {
		return nil, missingEntry(name)
	}
	var v any
	if err := json.Unmarshal(entry, &v); err != nil {
		return nil, fmt.Errorf("parse metric file %s: %w", name, err)
	}
	shape, ok := nestedShape(v)
	if !ok || shape == nil {
		return nil, missingEntry(name)
	}
	return shape, nil
}

// nestedShape walks a decoded JSON value and returns the shape of a
// rectangular nested numeric array; ok is false for non-numeric content
// and shape is nil for a bare number.
func nestedShape(v any) ([]int, bool) {
	switch t := v.(type) {
	case float64:
		return nil, true
	case []any:
		if len(t) == 0 {
			return []int{0}, true
		}
		first, ok := nestedShape(t[0])
		if !ok {
			return nil, false
		}
		for _, e := range t[1:] {
			s, ok := nestedShape(e)
			if !ok || len(s) != len(first) {
				return nil, false
			}
			for i := range s {
				if s[i] != first[i] {
					return nil, false
				}
			}
		}
		return append([]int{len(t)}, first...), true
	default:
		return nil, false
	}
}

func dumpShape(name string, raw []byte) ([]int, error) {
	m, err := rdump.Decode(string(raw), name)
	if err != nil {
		return nil, err
	}
	v, ok := m.Get(MetricKey)
	if !ok || v.Kind() == rdump.Scalar {
		return nil, missingEntry(name)
	}
	return v.Shape(), nil
}

func missingEntry(name string) error {
	return &api.FormatError{
		Source: name,
		Expect: fmt.Sprintf("numeric array entry %q", MetricKey),
	}
}
