package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCSV(t *testing.T, args ...string) ([][]string, string) {
	t.Helper()
	o, err := parseOptions(args)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), o, &stdout, &stderr))
	records, err := csv.NewReader(&stdout).ReadAll()
	require.NoError(t, err)
	return records, stderr.String()
}

func TestRunSampling(t *testing.T) {
	records, warnings := runCSV(t, "--problem=mixed-zdt1", "--n=12", "--seed=3")
	require.Len(t, records, 13)
	assert.Equal(t, []string{"x0", "x1", "x2", "x3", "x4"}, records[0])
	// MixedZDT1 cannot enumerate its own design space
	assert.Contains(t, warnings, "TrialRepairWarning")

	records, warnings = runCSV(t, "--problem=jenatton", "--n=8", "--mode=lhs")
	assert.Len(t, records, 9)
	assert.Empty(t, warnings)
}

func TestRunExhaustive(t *testing.T) {
	records, _ := runCSV(t, "--problem=mixed-zdt1-discrete", "--mode=exhaustive")
	assert.Len(t, records, 56)
}

func TestRunNSGAII(t *testing.T) {
	dir := t.TempDir()
	records, _ := runCSV(t, "--problem=zdt1", "--nsga2", "--n=10", "--generations=2", "--plot="+dir)
	require.Len(t, records, 11)
	assert.Len(t, records[0], 32)
	assert.Equal(t, "f1", records[0][31])
	assert.FileExists(t, filepath.Join(dir, "ZDT1_NSGA-II_results.html"))
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "args.yaml")
	require.NoError(t, os.WriteFile(config, []byte("removeDuplicates: false\nnCont: 2\n"), 0o600))

	// Two levels for each of the three continuous variables
	records, _ := runCSV(t, "--problem=mixed-zdt1", "--mode=exhaustive", "--config="+config)
	assert.Len(t, records, 1+50*2*2*2+50*2*2)

	require.NoError(t, os.WriteFile(config, []byte("nCont: 0\n"), 0o600))
	o, err := parseOptions([]string{"--config=" + config})
	require.NoError(t, err)
	assert.Error(t, run(context.Background(), o, &bytes.Buffer{}, &bytes.Buffer{}))
}

func TestParseOptions(t *testing.T) {
	o, err := parseOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, "mixed-zdt1", o.problem)
	assert.Equal(t, modeRandom, o.mode)

	_, err = parseOptions([]string{"--problem=unknown"})
	assert.Error(t, err)
	_, err = parseOptions([]string{"--mode=grid"})
	assert.Error(t, err)
	_, err = parseOptions([]string{"--nsga2", "--mode=exhaustive"})
	assert.Error(t, err)

	_, err = parseOptions([]string{"-v=4"})
	assert.NoError(t, err)
}
