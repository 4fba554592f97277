package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/archopt/archopt/pkg/archopt/framework"
)

func newScatter(title, xName, yName string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))
	return scatter
}

func render(scatter *charts.Scatter, path string) (string, error) {
	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return "", err
	}
	return path, nil
}

// PlotResults creates a scatter plot comparing the true Pareto front of the given Problem
// with the final population resulted from the algorithm. The HTML file is
// written to outDir and its path returned.
func PlotResults(outDir string, results []framework.ObjectiveSpacePoint, problem framework.Problem, algorithmName string) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("results are empty for %s Benchmark", problem.Name())
	}

	if len(results[0]) != 2 {
		return "", fmt.Errorf("can only plot 2D for %s Benchmark", problem.Name())
	}

	scatter := newScatter(fmt.Sprintf("%s Results for %s Benchmark", algorithmName, problem.Name()), "f1(x)", "f2(x)")

	trueParetoFront := problem.TrueParetoFront(100)
	trueX := make([]opts.ScatterData, len(trueParetoFront))
	for i, p := range trueParetoFront {
		trueX[i] = opts.ScatterData{
			Value:      []float64(p),
			Symbol:     "circle",
			SymbolSize: 10,
		}
	}

	foundX := make([]opts.ScatterData, len(results))
	for i, res := range results {
		foundX[i] = opts.ScatterData{
			Value:      []float64{res[0], res[1]},
			Symbol:     "triangle",
			SymbolSize: 10,
		}
	}

	scatter.AddSeries("True Pareto Front", trueX).
		AddSeries(fmt.Sprintf("%s Solutions", algorithmName), foundX)

	return render(scatter, filepath.Join(outDir, fmt.Sprintf("%s_%s_results.html", problem.Name(), algorithmName)))
}

// PlotSamples creates a scatter plot of two design variables of a sampled
// population. Samples where either variable is inactive are drawn as a
// separate series.
func PlotSamples(outDir string, problem framework.Problem, pop framework.Population, samplerName string, colX, colY int) (string, error) {
	nVar := problem.DesignSpace().NVar()
	if colX < 0 || colY < 0 || colX >= nVar || colY >= nVar {
		return "", fmt.Errorf("columns %d and %d out of range for %d variables of %s", colX, colY, nVar, problem.Name())
	}
	if pop.Len() == 0 {
		return "", fmt.Errorf("no samples for %s", problem.Name())
	}

	scatter := newScatter(fmt.Sprintf("%s Samples for %s", samplerName, problem.Name()),
		fmt.Sprintf("x%d", colX), fmt.Sprintf("x%d", colY))

	var active, inactive []opts.ScatterData
	for i, row := range pop.X {
		point := opts.ScatterData{
			Value:      []float64{row[colX], row[colY]},
			Symbol:     "circle",
			SymbolSize: 8,
		}
		if pop.IsActive != nil && (!pop.IsActive[i][colX] || !pop.IsActive[i][colY]) {
			inactive = append(inactive, point)
			continue
		}
		active = append(active, point)
	}
	scatter.AddSeries("Active", active)
	if len(inactive) > 0 {
		scatter.AddSeries("Inactive", inactive)
	}

	return render(scatter, filepath.Join(outDir, fmt.Sprintf("%s_%s_samples.html", problem.Name(), samplerName)))
}
