package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// scatterPlot writes a scatter plot of a per-gene feature against
// the total codon weight.
func scatterPlot(fn, label string, values, totals []float64) error {
	p := plot.New()
	p.X.Label.Text = label
	p.Y.Label.Text = "total codon weight"

	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i].X = values[i]
		pts[i].Y = totals[i]
	}

	if err := plotutil.AddScatters(p, label, pts); err != nil {
		return err
	}

	return p.Save(4*vg.Inch, 4*vg.Inch, fn)
}
