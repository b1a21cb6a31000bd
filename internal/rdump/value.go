// Package rdump encodes and decodes the legacy dump data format: one or
// more `name <- value` assignment statements where a value is a scalar, a
// `c(...)` vector, or a `structure(c(...), .Dim = c(...))` array whose
// serialized element order is column-major ("Fortran order").
package rdump

import (
	"fmt"

	"stanio/pkg/api"
)

// Kind discriminates the three value forms the format can express.
type Kind int

const (
	Scalar Kind = iota
	Vector
	Array
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Array:
		return "array"
	}
	return "unknown"
}

// Value is one dump entry. Array elements are stored row-major with
// explicit dims; only the serialized form is column-major. Invariant:
// product(dims) == len(elems) for arrays.
type Value struct {
	kind  Kind
	num   float64
	isInt bool
	elems []float64
	dims  []int
}

// Float builds a floating-point scalar.
func Float(v float64) Value { return Value{kind: Scalar, num: v} }

// Int builds an integer scalar. It compares equal to the float scalar of
// the same magnitude; the flag only controls the encoded form.
func Int(v int64) Value { return Value{kind: Scalar, num: float64(v), isInt: true} }

// VectorOf builds a flat vector. A single element collapses to a scalar,
// matching the decoder's treatment of c(v).
func VectorOf(elems ...float64) Value {
	if len(elems) == 1 {
		return Float(elems[0])
	}
	return Value{kind: Vector, elems: elems}
}

// ArrayOf builds a dimensioned array from row-major elements. One
// dimension yields a plain vector.
func ArrayOf(elems []float64, dims []int) (Value, error) {
	if n := dimProduct(dims); n != len(elems) {
		return Value{}, &api.FormatError{
			Kind:   api.KindDimensionMismatch,
			Expect: fmt.Sprintf("%d elements for dimensions %v", n, dims),
			Found:  fmt.Sprintf("%d elements", len(elems)),
		}
	}
	if len(dims) <= 1 {
		return VectorOf(elems...), nil
	}
	return Value{kind: Array, elems: elems, dims: dims}, nil
}

func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar magnitude; zero for non-scalars.
func (v Value) Scalar() float64 { return v.num }

// IsInt reports whether a scalar came from (or encodes as) an integer
// literal.
func (v Value) IsInt() bool { return v.kind == Scalar && v.isInt }

// Elems returns the elements in row-major order; scalars yield a
// one-element slice.
func (v Value) Elems() []float64 {
	if v.kind == Scalar {
		return []float64{v.num}
	}
	return v.elems
}

// Dims returns the declared dimensions of an array; nil otherwise.
func (v Value) Dims() []int { return v.dims }

// Len is the total element count.
func (v Value) Len() int {
	if v.kind == Scalar {
		return 1
	}
	return len(v.elems)
}

// Shape is nil for scalars, [len] for vectors, and the declared dims for
// arrays.
func (v Value) Shape() []int {
	switch v.kind {
	case Scalar:
		return nil
	case Vector:
		return []int{len(v.elems)}
	default:
		return v.dims
	}
}

// Equal compares kind, shape, and element values exactly. The int/float
// lexical distinction between scalars is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if len(v.dims) != len(o.dims) {
		return false
	}
	for i := range v.dims {
		if v.dims[i] != o.dims[i] {
			return false
		}
	}
	a, b := v.Elems(), o.Elems()
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

func dimProduct(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

// Map is an insertion-ordered mapping from variable name to Value.
// Decode preserves file order; Encode writes in the caller's order.
type Map struct {
	names []string
	vals  map[string]Value
}

func NewMap() *Map {
	return &Map{vals: map[string]Value{}}
}

// Set stores v under name. A name set twice keeps its original position.
func (m *Map) Set(name string, v Value) {
	if _, ok := m.vals[name]; !ok {
		m.names = append(m.names, name)
	}
	m.vals[name] = v
}

func (m *Map) Get(name string) (Value, bool) {
	v, ok := m.vals[name]
	return v, ok
}

// Names returns the insertion order.
func (m *Map) Names() []string { return m.names }

func (m *Map) Len() int { return len(m.names) }
