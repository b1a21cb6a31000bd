package runcsv

import "strconv"

// Metric kinds a sampling run can declare for its inverse mass matrix.
const (
	MetricDiag  = "diag_e"
	MetricDense = "dense_e"
)

const (
	defaultNumSamples = 1000
	defaultThin       = 1
)

// Metadata captures the structural facts recovered from one run-output
// file. Keys with fixed semantics get typed fields; open-ended engine
// settings stay in the residual Config map as written.
type Metadata struct {
	// Source identifies the scanned file or stream in error messages.
	Source string

	// ColumnNames is the header row, one entry per CSV column; the first
	// column is always an iteration/lp marker. Set exactly once.
	ColumnNames []string

	// NumParams is len(ColumnNames)-1 until a metric block overwrites it
	// with the authoritative mass-matrix element count.
	NumParams int

	// Metric is diag_e or dense_e; diag_e when the config never names one.
	Metric string

	// StepSize is the adapted step size from the metric section.
	StepSize float64

	// SaveWarmup records whether the config declared retained warmup rows.
	SaveWarmup bool

	// Draws is the number of draw rows found; FirstDraw holds the first
	// row decoded to float64, nil when the file has no draws.
	Draws     int
	FirstDraw []float64

	// DataFile is the input data path from a "file = ..." comment naming
	// a non-CSV file.
	DataFile string

	// Config holds the remaining non-default key = value comments.
	Config map[string]string

	// Stats counts the lines each section consumed.
	Stats Stats
}

// Stats records per-section line counts for one scan.
type Stats struct {
	ConfigLines int `json:"config_lines"`
	HeaderLines int `json:"header_lines"`
	WarmupLines int `json:"warmup_lines"`
	MetricLines int `json:"metric_lines"`
	DrawLines   int `json:"draw_lines"`
}

// NumSamples returns the configured sample count, defaulting to 1000.
func (m *Metadata) NumSamples() int {
	return m.configInt("num_samples", defaultNumSamples)
}

// Thin returns the configured thinning interval, defaulting to 1.
func (m *Metadata) Thin() int {
	return m.configInt("thin", defaultThin)
}

func (m *Metadata) configInt(key string, def int) int {
	v, ok := m.Config[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
