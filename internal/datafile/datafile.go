// Package datafile materializes a mapping of named numeric values as an
// input data file for the sampling engine, in either JSON or dump format,
// and reads such files back. The format is chosen by file extension.
package datafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"stanio/internal/rdump"
)

// Write stores the mapping at path, as JSON when the path ends in .json
// and as dump format otherwise.
func Write(path string, m *rdump.Map) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = WriteJSON(f, m)
	} else {
		err = WriteRdump(f, m)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRdump writes the mapping as dump-format assignments.
func WriteRdump(w io.Writer, m *rdump.Map) error {
	return rdump.Encode(w, m)
}

// WriteJSON writes the mapping as one JSON object, entries in map order:
// scalars as numbers, vectors as flat lists, arrays as nested row-major
// lists.
func WriteJSON(w io.Writer, m *rdump.Map) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.Names() {
		if i > 0 {
			buf.WriteString(", ")
		}
		v, _ := m.Get(name)
		key, err := json.Marshal(name)
		if err != nil {
			return fmt.Errorf("encode data entry %s: %w", name, err)
		}
		val, err := json.Marshal(jsonValue(v))
		if err != nil {
			return fmt.Errorf("encode data entry %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func jsonValue(v rdump.Value) any {
	switch v.Kind() {
	case rdump.Scalar:
		if v.IsInt() {
			return int64(v.Scalar())
		}
		return v.Scalar()
	case rdump.Vector:
		return v.Elems()
	default:
		return nest(v.Elems(), v.Dims())
	}
}

// nest folds row-major elements into nested lists, outermost dimension
// first.
func nest(elems []float64, dims []int) any {
	if len(dims) <= 1 {
		return elems
	}
	stride := len(elems) / dims[0]
	out := make([]any, dims[0])
	for i := range out {
		out[i] = nest(elems[i*stride:(i+1)*stride], dims[1:])
	}
	return out
}

// Read loads a data file into a mapping, dispatching on extension like
// Write.
func Read(path string) (*rdump.Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(raw, path)
	}
	return rdump.Decode(string(raw), path)
}

// ReadJSON parses a JSON data object into a mapping, preserving the
// document's key order.
func ReadJSON(raw []byte, name string) (*rdump.Map, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", name, err)
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("parse data file %s: top-level value must be an object", name)
	}
	m := rdump.NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse data file %s: %w", name, err)
		}
		key := keyTok.(string)
		var elem any
		if err := dec.Decode(&elem); err != nil {
			return nil, fmt.Errorf("parse data file %s: %w", name, err)
		}
		v, err := fromJSON(elem)
		if err != nil {
			return nil, fmt.Errorf("data file %s, entry %s: %w", name, key, err)
		}
		m.Set(key, v)
	}
	return m, nil
}

func fromJSON(raw any) (rdump.Value, error) {
	switch t := raw.(type) {
	case float64:
		if t == float64(int64(t)) {
			return rdump.Int(int64(t)), nil
		}
		return rdump.Float(t), nil
	case []any:
		elems, dims, err := flatten(t)
		if err != nil {
			return rdump.Value{}, err
		}
		return rdump.ArrayOf(elems, dims)
	default:
		return rdump.Value{}, fmt.Errorf("unsupported value of type %T", raw)
	}
}

// flatten walks a nested JSON array into row-major elements plus its
// rectangular shape.
func flatten(list []any) ([]float64, []int, error) {
	if len(list) == 0 {
		return nil, []int{0}, nil
	}
	if _, nested := list[0].([]any); !nested {
		elems := make([]float64, len(list))
		for i, e := range list {
			f, ok := e.(float64)
			if !ok {
				return nil, nil, fmt.Errorf("non-numeric element of type %T", e)
			}
			elems[i] = f
		}
		return elems, []int{len(list)}, nil
	}
	var elems []float64
	var inner []int
	for i, e := range list {
		sub, ok := e.([]any)
		if !ok {
			return nil, nil, fmt.Errorf("mixed nesting at index %d", i)
		}
		subElems, subDims, err := flatten(sub)
		if err != nil {
			return nil, nil, err
		}
		if i == 0 {
			inner = subDims
		} else if !equalDims(inner, subDims) {
			return nil, nil, fmt.Errorf("ragged array at index %d", i)
		}
		elems = append(elems, subElems...)
	}
	return elems, append([]int{len(list)}, inner...), nil
}

func equalDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
