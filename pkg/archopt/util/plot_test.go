package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archopt/archopt/pkg/archopt/benchmarks"
	"github.com/archopt/archopt/pkg/archopt/framework"
)

func TestPlotResults(t *testing.T) {
	dir := t.TempDir()
	p := benchmarks.NewZDT1(3)

	path, err := PlotResults(dir, []framework.ObjectiveSpacePoint{{0, 1}, {0.5, 0.4}}, p, "Test")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ZDT1_Test_results.html"), path)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "True Pareto Front")

	_, err = PlotResults(dir, nil, p, "Test")
	assert.Error(t, err)
	_, err = PlotResults(dir, []framework.ObjectiveSpacePoint{{0, 1, 2}}, p, "Test")
	assert.Error(t, err)
}

func TestPlotSamples(t *testing.T) {
	dir := t.TempDir()
	p := benchmarks.NewMixedZDT1(false)
	x, isActive := p.CorrectX(framework.Matrix{
		{0.1, 2, 0.5, 3, 0.9},
		{0.7, 8, 0.2, 1, 0.3},
	})

	path, err := PlotSamples(dir, p, framework.Population{X: x, IsActive: isActive}, "random", 0, 4)
	require.NoError(t, err)
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Inactive")

	_, err = PlotSamples(dir, p, framework.Population{X: x}, "random", 0, 5)
	assert.Error(t, err)
	_, err = PlotSamples(dir, p, framework.Population{}, "random", 0, 1)
	assert.Error(t, err)
}
