package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleRunOutput = `# model = bernoulli_model
# num_samples = 2
# thin = 1
# metric = diag_e
lp__,alpha,beta
# Adaptation terminated
# Step size = 0.8
# Diagonal elements of inverse mass matrix:
# 1.5, 2.5
-7.1,0.25,1.1
-6.9,0.31,0.9
`

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, &out, &errb)
	return out.String(), errb.String(), code
}

func TestCheckCommand(t *testing.T) {
	path := writeFixture(t, "output.csv", sampleRunOutput)
	out, _, code := runCLI(t, "check", path)
	require.Equal(t, 0, code)
	require.Contains(t, out, path+": ok")
	require.Contains(t, out, "columns: 3  params: 2  metric: diag_e  draws: 2")
	require.Contains(t, out, "step size: 0.8")
}

func TestCheckCommandDrawCountMismatch(t *testing.T) {
	truncated := strings.Replace(sampleRunOutput, "-6.9,0.31,0.9\n", "", 1)
	path := writeFixture(t, "output.csv", truncated)
	out, errb, code := runCLI(t, "check", path)
	require.Equal(t, 1, code)
	require.NotContains(t, out, "ok")
	require.Contains(t, errb, "2 draws")
	require.Contains(t, errb, "1 draws")
}

func TestCheckCommandOptimize(t *testing.T) {
	content := `# algorithm = lbfgs
lp__,alpha
-5.2,0.4
`
	path := writeFixture(t, "opt.csv", content)
	out, _, code := runCLI(t, "check", "--optimize", path)
	require.Equal(t, 0, code)
	require.Contains(t, out, "draws: 1")
}

func TestMetricCommand(t *testing.T) {
	path := writeFixture(t, "metric.json", `{"inv_metric": [[1.0, 0.1], [0.1, 1.0]]}`)
	out, _, code := runCLI(t, "metric", path)
	require.Equal(t, 0, code)
	require.Equal(t, "inv_metric shape: [2 2]\n", out)
}

func TestDumpCommandCanonicalizes(t *testing.T) {
	path := writeFixture(t, "data.R", "N <-\n3L\ny <- structure(c(1, 4, 2, 5, 3, 6), .Dim = c(2, 3))\n")
	out, _, code := runCLI(t, "dump", path)
	require.Equal(t, 0, code)
	require.Equal(t, "N <- 3\ny <- structure(c(1, 4, 2, 5, 3, 6), .Dim = c(2, 3))\n", out)
}

func TestDumpCommandShapes(t *testing.T) {
	path := writeFixture(t, "data.R", "N <- 3\ny <- c(0.1, 0.2)\n")
	out, _, code := runCLI(t, "dump", "--shapes", path)
	require.Equal(t, 0, code)
	require.Contains(t, out, "N: scalar []")
	require.Contains(t, out, "y: vector [2]")
}

func TestConvertCommandJSONToDump(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.json")
	out := filepath.Join(dir, "data.R")
	require.NoError(t, os.WriteFile(in, []byte(`{"N": 3, "y": [0.5, 1.5]}`), 0o644))

	_, _, code := runCLI(t, "convert", in, out)
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "N <- 3\ny <- c(0.5, 1.5)\n", string(got))
}

func TestConvertCommandDumpToJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "data.R")
	out := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(in, []byte("N <- 3L\ny <- c(0.5, 1.5)\n"), 0o644))

	_, _, code := runCLI(t, "convert", in, out)
	require.Equal(t, 0, code)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "{\"N\": 3, \"y\": [0.5,1.5]}\n", string(got))
}

func TestVersionCommand(t *testing.T) {
	out, _, code := runCLI(t, "version")
	require.Equal(t, 0, code)
	require.NotEmpty(t, strings.TrimSpace(out))
}

func TestMissingFileFails(t *testing.T) {
	_, errb, code := runCLI(t, "check", filepath.Join(t.TempDir(), "absent.csv"))
	require.Equal(t, 1, code)
	require.NotEmpty(t, errb)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	cfgPath := writeFixture(t, "stanio.yaml", "max_input_bytes: 4\n")
	dataPath := writeFixture(t, "output.csv", sampleRunOutput)
	_, errb, code := runCLI(t, "--config", cfgPath, "check", dataPath)
	require.Equal(t, 1, code)
	require.Contains(t, errb, "max_input_bytes")
}
