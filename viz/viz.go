// Package viz renders planner convergence diagnostics, such as
// per-iteration Bellman residuals, to an HTML line chart with go-echarts.
package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Curve is one named sequence of residuals (or values) to plot against
// iteration index, e.g. a planner's max-residual-per-sweep history.
type Curve struct {
	Name   string
	Values []float64
}

// Convergence writes an HTML page at path containing a line chart of every
// curve's values against iteration index, one series per curve.
func Convergence(path string, curves ...Curve) error {
	if len(curves) == 0 {
		return fmt.Errorf("viz: at least one curve is required")
	}

	numSteps := 0
	for _, c := range curves {
		if len(c.Values) > numSteps {
			numSteps = len(c.Values)
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "planner convergence",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "iteration",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "residual",
		}),
	)

	steps := make([]string, numSteps)
	for i := range steps {
		steps[i] = fmt.Sprintf("%d", i)
	}
	line.SetXAxis(steps)

	for _, c := range curves {
		items := make([]opts.LineData, len(c.Values))
		for i, v := range c.Values {
			items[i] = opts.LineData{Value: v}
		}
		line.AddSeries(c.Name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("viz: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	defer f.Close()

	return renderTo(page, f)
}

func renderTo(page *components.Page, w io.Writer) error {
	if err := page.Render(w); err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	return nil
}
