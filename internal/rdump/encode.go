package rdump

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode writes the mapping as dump-format assignment statements, one per
// entry, in the map's insertion order.
func Encode(w io.Writer, m *Map) error {
	for _, name := range m.Names() {
		v, _ := m.Get(name)
		if _, err := io.WriteString(w, EncodeValue(name, v)+"\n"); err != nil {
			return fmt.Errorf("write dump entry %s: %w", name, err)
		}
	}
	return nil
}

// EncodeValue formats one assignment statement. Single-element values take
// the scalar form; larger values are flattened column-major into c(...),
// wrapped in structure(..., .Dim = c(...)) when more than one dimension is
// declared.
func EncodeValue(name string, v Value) string {
	if v.Len() == 1 {
		return fmt.Sprintf("%s <- %s", name, formatScalar(v))
	}
	flat := toColumnMajor(v.Elems(), v.Dims())
	parts := make([]string, len(flat))
	for i, f := range flat {
		parts[i] = formatFloat(f)
	}
	c := "c(" + strings.Join(parts, ", ") + ")"
	dims := v.Dims()
	if len(dims) < 2 {
		return fmt.Sprintf("%s <- %s", name, c)
	}
	dimParts := make([]string, len(dims))
	for i, d := range dims {
		dimParts[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%s <- structure(%s, .Dim = c(%s))", name, c, strings.Join(dimParts, ", "))
}

func formatScalar(v Value) string {
	f := v.Elems()[0]
	if v.IsInt() {
		return strconv.FormatInt(int64(f), 10)
	}
	return formatFloat(f)
}

// formatFloat uses the shortest representation that round-trips exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
