package runcsv

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stanio/pkg/api"
)

// buildRunOutput synthesizes a sampling run-output file with two
// parameter columns.
type runOutput struct {
	config      []string
	header      string
	warmupRows  int
	metricLines []string
	drawRows    []string
}

func defaultRunOutput() runOutput {
	return runOutput{
		config: []string{
			"# stan_version_major = 2",
			"# method = sample (Default)",
			"# num_samples = 4",
			"# metric = diag_e",
			"# file = bernoulli.data.json",
		},
		header: "lp__,alpha,beta",
		metricLines: []string{
			"# Adaptation terminated",
			"# Step size = 0.75",
			"# Diagonal elements of inverse mass matrix:",
			"# 0.5, 0.25",
		},
		drawRows: []string{
			"-7.1,0.21,0.34",
			"-7.3,0.22,0.31",
			"-7.2,0.19,0.36",
			"-7.0,0.25,0.33",
		},
	}
}

func (ro runOutput) text() string {
	var b strings.Builder
	for _, l := range ro.config {
		b.WriteString(l + "\n")
	}
	b.WriteString(ro.header + "\n")
	for i := 0; i < ro.warmupRows; i++ {
		b.WriteString(fmt.Sprintf("-9.%d,0.1,0.1\n", i))
	}
	for _, l := range ro.metricLines {
		b.WriteString(l + "\n")
	}
	for _, l := range ro.drawRows {
		b.WriteString(l + "\n")
	}
	return b.String()
}

func TestScanSamplingFile(t *testing.T) {
	ro := defaultRunOutput()
	md, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.NoError(t, err)

	require.Equal(t, []string{"lp__", "alpha", "beta"}, md.ColumnNames)
	require.Equal(t, 2, md.NumParams)
	require.Equal(t, MetricDiag, md.Metric)
	require.InDelta(t, 0.75, md.StepSize, 0)
	require.Equal(t, 4, md.Draws)
	require.Equal(t, []float64{-7.1, 0.21, 0.34}, md.FirstDraw)
	require.Equal(t, "bernoulli.data.json", md.DataFile)
	require.Equal(t, "4", md.Config["num_samples"])

	// default-marked and fixed-semantic keys stay out of the residual map
	require.NotContains(t, md.Config, "method")
	require.NotContains(t, md.Config, "metric")
	require.NotContains(t, md.Config, "file")
}

func TestScanEmptyConfigSection(t *testing.T) {
	text := "lp__,theta\n-5.0,0.5\n"
	md, err := Scan(strings.NewReader(text), "run.csv", false)
	require.NoError(t, err)
	require.Equal(t, []string{"lp__", "theta"}, md.ColumnNames)
	require.Equal(t, 1, md.Draws)
}

func TestScanZeroDraws(t *testing.T) {
	ro := defaultRunOutput()
	ro.drawRows = nil
	md, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.NoError(t, err)
	require.Equal(t, 0, md.Draws)
	require.Nil(t, md.FirstDraw)
}

func TestScanWarmupPositioning(t *testing.T) {
	ro := defaultRunOutput()
	ro.config = append(ro.config, "# save_warmup = 1")
	ro.warmupRows = 3

	md, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.NoError(t, err)
	require.True(t, md.SaveWarmup)
	require.Equal(t, 3, md.Stats.WarmupLines)
	require.Equal(t, 4, md.Draws)

	// Without the save_warmup flag the warmup rows are not skipped, so the
	// metric section scan lands on a draw row and must fail.
	ro2 := defaultRunOutput()
	ro2.warmupRows = 3
	_, err = Scan(strings.NewReader(ro2.text()), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Contains(t, ferr.Expect, "Adaptation terminated")
}

func TestScanColumnCountMismatch(t *testing.T) {
	ro := defaultRunOutput()
	ro.drawRows[2] = "-7.2,0.19" // one field short
	_, err := Scan(strings.NewReader(ro.text()), "run.csv", true)

	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, api.KindColumnCountMismatch, ferr.Kind)
	require.Equal(t, "3 comma-separated values", ferr.Expect)
	require.Equal(t, "2 values", ferr.Found)
	// config (5) + header (1) + metric (4) + two good draws + the bad one
	require.Equal(t, 13, ferr.Line)
}

func TestScanMetricLabelExclusivity(t *testing.T) {
	// dense_e declared but the diagonal label supplied
	ro := defaultRunOutput()
	ro.config[3] = "# metric = dense_e"
	_, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Contains(t, ferr.Expect, "Elements of inverse mass matrix")
}

func denseRunOutput(matrixRows []string) runOutput {
	ro := defaultRunOutput()
	ro.config[3] = "# metric = dense_e"
	ro.metricLines = append([]string{
		"# Adaptation terminated",
		"# Step size = 0.75",
		"# Elements of inverse mass matrix:",
	}, matrixRows...)
	return ro
}

func TestScanDenseMetric(t *testing.T) {
	ro := denseRunOutput([]string{"# 0.5, 0.1", "# 0.1, 0.5"})
	md, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.NoError(t, err)
	require.Equal(t, MetricDense, md.Metric)
	require.Equal(t, 2, md.NumParams)
	require.Equal(t, 4, md.Draws)
}

func TestScanDenseMetricShortMatrix(t *testing.T) {
	// N params but only the first matrix row: the scan expects a second
	// row and instead finds a draw row with the wrong element count.
	ro := denseRunOutput([]string{"# 0.5, 0.1"})
	_, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, api.KindColumnCountMismatch, ferr.Kind)
}

func TestScanDenseMetricExtraRowsLeftForDrawScan(t *testing.T) {
	// One matrix-shaped comment row too many: the metric scan consumes
	// exactly N rows and stops, the draw scan halts at the leftover
	// comment line, and the file reports zero draws.
	ro := denseRunOutput([]string{"# 0.5, 0.1", "# 0.1, 0.5", "# 0.2, 0.2"})
	md, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.NoError(t, err)
	require.Equal(t, 0, md.Draws)
	require.Error(t, Validate(md, false))
}

func TestScanMetricElementCountMismatch(t *testing.T) {
	ro := defaultRunOutput()
	ro.metricLines[3] = "# 0.5, 0.25, 0.1" // three elements, two params
	_, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, api.KindColumnCountMismatch, ferr.Kind)
	require.Equal(t, "2 mass matrix elements", ferr.Expect)
}

func TestScanBadStepSize(t *testing.T) {
	ro := defaultRunOutput()
	ro.metricLines[1] = "# Step size = not-a-number"
	_, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, api.KindInvalidNumericLiteral, ferr.Kind)
	require.Equal(t, "not-a-number", ferr.Found)
}

func TestScanTruncatedMetricSection(t *testing.T) {
	text := strings.Join([]string{
		"# num_samples = 4",
		"lp__,theta",
		"# Adaptation terminated",
	}, "\n") + "\n"
	_, err := Scan(strings.NewReader(text), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, api.KindUnexpectedEOF, ferr.Kind)
	require.Equal(t, 0, ferr.Line)
}

func TestScanMissingHeader(t *testing.T) {
	text := "# num_samples = 4\n"
	_, err := Scan(strings.NewReader(text), "run.csv", true)
	var ferr *api.FormatError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, api.KindUnexpectedEOF, ferr.Kind)
}

func TestScanNonSamplingSkipsMetric(t *testing.T) {
	text := strings.Join([]string{
		"# num_samples = 2",
		"lp__,theta",
		"-5.0,0.5",
		"-5.1,0.4",
	}, "\n") + "\n"
	md, err := Scan(strings.NewReader(text), "run.csv", false)
	require.NoError(t, err)
	require.Equal(t, 2, md.Draws)
	require.Equal(t, 0, md.Stats.MetricLines)
}

func TestScanStatsLineAccounting(t *testing.T) {
	ro := defaultRunOutput()
	ro.config = append(ro.config, "# save_warmup = 1")
	ro.warmupRows = 2
	md, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.NoError(t, err)
	require.Equal(t, Stats{
		ConfigLines: 6,
		HeaderLines: 1,
		WarmupLines: 2,
		MetricLines: 4,
		DrawLines:   4,
	}, md.Stats)
}

func TestScanErrorIsFormatError(t *testing.T) {
	ro := defaultRunOutput()
	ro.metricLines[0] = "# adaptation done"
	_, err := Scan(strings.NewReader(ro.text()), "run.csv", true)
	require.Error(t, err)
	var ferr *api.FormatError
	require.True(t, errors.As(err, &ferr))
	require.Equal(t, "run.csv", ferr.Source)
	require.Equal(t, 7, ferr.Line)
}
