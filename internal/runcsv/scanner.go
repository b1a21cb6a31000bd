package runcsv

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"stanio/pkg/api"
)

const (
	adaptationMarker = "# Adaptation terminated"
	diagMatrixLabel  = "# Diagonal elements of inverse mass matrix:"
	denseMatrixLabel = "# Elements of inverse mass matrix:"
)

// Scan reads a run-output file section by section: configuration comments,
// the column header, optional warmup rows, the adaptation/metric block
// (sampling runs only), and the draw rows. It returns the accumulated
// metadata or a *api.FormatError identifying the offending line.
func Scan(r io.Reader, name string, sampling bool) (*Metadata, error) {
	lr := newLineReader(r)
	md := &Metadata{
		Source: name,
		Metric: MetricDiag,
		Config: map[string]string{},
	}

	scanConfig(lr, md)
	if err := scanColumnNames(lr, name, md); err != nil {
		return nil, err
	}
	scanWarmup(lr, md)
	if sampling {
		if err := scanMetric(lr, name, md); err != nil {
			return nil, err
		}
	}
	if err := scanDraws(lr, name, md); err != nil {
		return nil, err
	}
	if err := lr.err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return md, nil
}

// scanConfig consumes the leading comment lines, recording each
// non-default "key = value" pair. A "file = ..." line naming a non-CSV
// path is the input data file; keys with fixed semantics land in typed
// fields and the rest in the residual config map.
func scanConfig(lr *lineReader, md *Metadata) {
	for {
		line, ok := lr.peek()
		if !ok || !strings.HasPrefix(line, "#") {
			return
		}
		lr.advance()
		md.Stats.ConfigLines++
		if strings.HasSuffix(line, "(Default)") {
			continue
		}
		entry := strings.TrimLeft(line, "# \t")
		kv := strings.Split(entry, "=")
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		switch key {
		case "file":
			if !strings.HasSuffix(val, "csv") {
				md.DataFile = val
			}
		case "metric":
			md.Metric = val
		case "save_warmup":
			md.SaveWarmup = true
		default:
			md.Config[key] = val
		}
	}
}

// scanColumnNames reads the comma-separated header row.
func scanColumnNames(lr *lineReader, name string, md *Metadata) error {
	line, ok := lr.readLine()
	if !ok {
		return unexpectedEOF(name, "column header row")
	}
	md.Stats.HeaderLines++
	names := strings.Split(line, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	md.ColumnNames = names
	md.NumParams = len(names) - 1
	return nil
}

// scanWarmup consumes retained warmup rows, if the config declared any.
// Only the count matters; the rows themselves are discarded.
func scanWarmup(lr *lineReader, md *Metadata) {
	if !md.SaveWarmup {
		return
	}
	for {
		line, ok := lr.peek()
		if !ok || line == "" || strings.HasPrefix(line, "#") {
			return
		}
		lr.advance()
		md.Stats.WarmupLines++
	}
}

// scanMetric consumes the adaptation block: the termination marker, the
// step size, the mass-matrix label matching the configured metric, and
// the matrix rows. The first row's element count becomes the
// authoritative NumParams; a dense metric must supply NumParams-1
// further rows of exactly NumParams elements each.
func scanMetric(lr *lineReader, name string, md *Metadata) error {
	line, ok := lr.readLine()
	if !ok {
		return unexpectedEOF(name, "adaptation terminated marker")
	}
	md.Stats.MetricLines++
	if line != adaptationMarker {
		return &api.FormatError{
			Source: name, Line: lr.line,
			Expect: fmt.Sprintf("%q", adaptationMarker), Found: line,
		}
	}

	line, ok = lr.readLine()
	if !ok {
		return unexpectedEOF(name, "step size")
	}
	md.Stats.MetricLines++
	label, value, found := strings.Cut(line, "=")
	if !found || !strings.HasPrefix(label, "# Step size") {
		return &api.FormatError{
			Source: name, Line: lr.line,
			Expect: "step size", Found: line,
		}
	}
	step, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return &api.FormatError{
			Source: name, Line: lr.line, Kind: api.KindInvalidNumericLiteral,
			Expect: "floating-point step size", Found: strings.TrimSpace(value),
		}
	}
	md.StepSize = step

	var wantLabel string
	switch md.Metric {
	case MetricDiag:
		wantLabel = diagMatrixLabel
	case MetricDense:
		wantLabel = denseMatrixLabel
	default:
		return &api.FormatError{
			Source: name, Line: lr.line,
			Expect: "metric diag_e or dense_e", Found: md.Metric,
		}
	}
	line, ok = lr.readLine()
	if !ok {
		return unexpectedEOF(name, "inverse mass matrix label")
	}
	md.Stats.MetricLines++
	if line != wantLabel {
		return &api.FormatError{
			Source: name, Line: lr.line,
			Expect: fmt.Sprintf("%q", wantLabel), Found: line,
		}
	}

	line, ok = lr.readLine()
	if !ok {
		return unexpectedEOF(name, "inverse mass matrix row")
	}
	md.Stats.MetricLines++
	count := len(strings.Split(strings.TrimLeft(line, "# \t"), ","))
	if count != len(md.ColumnNames)-1 {
		return &api.FormatError{
			Source: name, Line: lr.line, Kind: api.KindColumnCountMismatch,
			Expect: fmt.Sprintf("%d mass matrix elements", len(md.ColumnNames)-1),
			Found:  fmt.Sprintf("%d elements", count),
		}
	}
	md.NumParams = count
	if md.Metric == MetricDiag {
		return nil
	}
	for i := 1; i < md.NumParams; i++ {
		line, ok = lr.readLine()
		if !ok {
			return unexpectedEOF(name, "inverse mass matrix row")
		}
		md.Stats.MetricLines++
		n := len(strings.Split(strings.TrimLeft(line, "# \t"), ","))
		if n != md.NumParams {
			return &api.FormatError{
				Source: name, Line: lr.line, Kind: api.KindColumnCountMismatch,
				Expect: fmt.Sprintf("%d mass matrix elements", md.NumParams),
				Found:  fmt.Sprintf("%d elements", n),
			}
		}
	}
	return nil
}

// scanDraws consumes the contiguous draw rows, enforcing the header's
// column count on each and retaining the first row decoded to float64.
func scanDraws(lr *lineReader, name string, md *Metadata) error {
	numCols := len(md.ColumnNames)
	for {
		line, ok := lr.peek()
		if !ok || line == "" || strings.HasPrefix(line, "#") {
			return nil
		}
		lr.advance()
		md.Stats.DrawLines++
		fields := strings.Split(line, ",")
		if len(fields) != numCols {
			return &api.FormatError{
				Source: name, Line: lr.line, Kind: api.KindColumnCountMismatch,
				Expect: fmt.Sprintf("%d comma-separated values", numCols),
				Found:  fmt.Sprintf("%d values", len(fields)),
			}
		}
		if md.FirstDraw == nil {
			draw := make([]float64, len(fields))
			for i, f := range fields {
				v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
				if err != nil {
					return &api.FormatError{
						Source: name, Line: lr.line, Kind: api.KindInvalidNumericLiteral,
						Expect: "floating-point draw value", Found: strings.TrimSpace(f),
					}
				}
				draw[i] = v
			}
			md.FirstDraw = draw
		}
		md.Draws++
	}
}

func unexpectedEOF(name, expect string) error {
	return &api.FormatError{Source: name, Kind: api.KindUnexpectedEOF, Expect: expect}
}
