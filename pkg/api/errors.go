package api

import "fmt"

// ErrorKind labels the structural violation a FormatError reports. Kinds
// are context on a single error type, not separate types.
type ErrorKind string

const (
	KindUnexpectedEOF         ErrorKind = "unexpected_eof"
	KindColumnCountMismatch   ErrorKind = "column_count_mismatch"
	KindUnknownRHSLiteral     ErrorKind = "unknown_rhs_literal"
	KindDimensionMismatch     ErrorKind = "dimension_mismatch"
	KindDrawCountMismatch     ErrorKind = "draw_count_mismatch"
	KindInvalidNumericLiteral ErrorKind = "invalid_numeric_literal"
)

// FormatError reports a structural violation in a run-output or dump file.
// Line is 1-based; zero means the input ended before the expected content.
type FormatError struct {
	Source string
	Line   int
	Kind   ErrorKind
	Expect string
	Found  string
}

func (e *FormatError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Line == 0 {
		where = "end of input"
	}
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	if e.Found == "" {
		return fmt.Sprintf("%s: %s: expected %s", src, where, e.Expect)
	}
	return fmt.Sprintf("%s: %s: expected %s, found %q", src, where, e.Expect, e.Found)
}
