package viz

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotConvergence writes a PNG line plot of the residual recorded at each
// solver evaluation, oldest first. The y axis is logarithmic when every
// residual is positive, since gradient solvers tend to converge by orders
// of magnitude.
func PlotConvergence(history []float64, outPath string) error {
	if len(history) == 0 {
		return errors.New("no residual history to plot")
	}

	p := plot.New()
	p.Title.Text = "Solver convergence"
	p.X.Label.Text = "evaluation"
	p.Y.Label.Text = "residual"

	logScale := true
	for _, r := range history {
		if r <= 0 {
			logScale = false
			break
		}
	}
	if logScale {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	pts := make(plotter.XYs, len(history))
	for i, r := range history {
		pts[i].X = float64(i)
		pts[i].Y = r
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "cannot build residual line")
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line, plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, outPath); err != nil {
		return errors.Wrap(err, "cannot save convergence plot")
	}
	return nil
}
