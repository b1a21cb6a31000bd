package rdump

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stanio/pkg/api"
)

// structureRE captures the inner value list and the optional .Dim list of
// a structure(...) right-hand side.
var structureRE = regexp.MustCompile(
	`^structure\(\s*c\(([^)]*)\)\s*(?:,\s*\.Dim\s*=\s*c\s*\(([^)]*)\s*\))?\s*\)`)

// Decode parses dump-format text into an ordered name-to-value mapping.
// Statements are separated by the assignment marker `<-`; a line without
// the marker continues the current statement's right-hand side. name
// identifies the input in errors.
func Decode(text, name string) (*Map, error) {
	m := NewMap()
	var stmt []string
	stmtLine := 0

	flush := func() error {
		if len(stmt) == 0 {
			return nil
		}
		err := decodeStatement(m, strings.Join(stmt, ""), stmtLine, name)
		stmt = stmt[:0]
		return err
	}

	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "<-") {
			if err := flush(); err != nil {
				return nil, err
			}
			stmtLine = i + 1
			stmt = append(stmt, line)
			continue
		}
		// continuation of the current right-hand side; content before the
		// first statement is ignored
		if len(stmt) > 0 {
			stmt = append(stmt, line)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeStatement(m *Map, stmt string, line int, name string) error {
	lhs, rhs, _ := strings.Cut(stmt, "<-")
	// legacy double-quoted identifiers and R long-integer suffixes
	ident := strings.TrimSpace(strings.ReplaceAll(lhs, `"`, ""))
	rhs = strings.TrimSpace(strings.ReplaceAll(rhs, "L", ""))
	if ident == "" {
		return &api.FormatError{
			Source: name, Line: line,
			Expect: "identifier before assignment marker", Found: stmt,
		}
	}
	v, err := parseRHS(rhs, line, name)
	if err != nil {
		return err
	}
	m.Set(ident, v)
	return nil
}

// parseRHS tries the right-hand-side alternatives in order: structure
// literal, vector literal, float literal, integer literal.
func parseRHS(rhs string, line int, name string) (Value, error) {
	switch {
	case strings.HasPrefix(rhs, "structure"):
		return parseStructure(rhs, line, name)
	case strings.HasPrefix(rhs, "c(") && strings.HasSuffix(rhs, ")"):
		elems, err := parseFloatList(rhs[2:len(rhs)-1], line, name)
		if err != nil {
			return Value{}, err
		}
		return VectorOf(elems...), nil
	case strings.ContainsAny(rhs, ".e"):
		f, err := strconv.ParseFloat(rhs, 64)
		if err != nil {
			return Value{}, &api.FormatError{
				Source: name, Line: line, Kind: api.KindInvalidNumericLiteral,
				Expect: "floating-point literal", Found: rhs,
			}
		}
		return Float(f), nil
	default:
		n, err := strconv.ParseInt(rhs, 10, 64)
		if err != nil {
			return Value{}, &api.FormatError{
				Source: name, Line: line, Kind: api.KindUnknownRHSLiteral,
				Expect: "scalar, c(...), or structure(...) literal", Found: rhs,
			}
		}
		return Int(n), nil
	}
}

func parseStructure(rhs string, line int, name string) (Value, error) {
	groups := structureRE.FindStringSubmatch(rhs)
	if groups == nil {
		return Value{}, &api.FormatError{
			Source: name, Line: line, Kind: api.KindUnknownRHSLiteral,
			Expect: "structure(c(...), .Dim = c(...)) literal", Found: rhs,
		}
	}
	elems, err := parseFloatList(groups[1], line, name)
	if err != nil {
		return Value{}, err
	}
	if groups[2] == "" {
		return VectorOf(elems...), nil
	}
	dims, err := parseDimList(groups[2], line, name)
	if err != nil {
		return Value{}, err
	}
	if n := dimProduct(dims); n != len(elems) {
		return Value{}, &api.FormatError{
			Source: name, Line: line, Kind: api.KindDimensionMismatch,
			Expect: fmt.Sprintf("%d elements for .Dim = %v", n, dims),
			Found:  fmt.Sprintf("%d elements", len(elems)),
		}
	}
	return ArrayOf(fromColumnMajor(elems, dims), dims)
}

func parseFloatList(list string, line int, name string) ([]float64, error) {
	parts := strings.Split(list, ",")
	elems := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &api.FormatError{
				Source: name, Line: line, Kind: api.KindInvalidNumericLiteral,
				Expect: "floating-point value", Found: strings.TrimSpace(p),
			}
		}
		elems[i] = f
	}
	return elems, nil
}

func parseDimList(list string, line int, name string) ([]int, error) {
	parts := strings.Split(list, ",")
	dims := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 {
			return nil, &api.FormatError{
				Source: name, Line: line, Kind: api.KindInvalidNumericLiteral,
				Expect: "non-negative dimension size", Found: strings.TrimSpace(p),
			}
		}
		dims[i] = d
	}
	return dims, nil
}
