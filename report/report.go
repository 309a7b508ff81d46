// Package report renders evaluation results: the metric printout and a
// predicted-versus-actual plot.
package report

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// Metric labels in print order.
const (
	LabelMAE               = "MAE"
	LabelMSE               = "MSE"
	LabelRMSE              = "RMSE"
	LabelExplainedVariance = "Explained Var Score"
)

// WriteMetrics prints one "<label> <value>" line per metric in the order
// MAE, MSE, RMSE, Explained Var Score. Values use the shortest decimal form
// that round-trips.
func WriteMetrics(w io.Writer, m metrics.Regression) error {
	lines := []struct {
		label string
		value float64
	}{
		{LabelMAE, m.MAE},
		{LabelMSE, m.MSE},
		{LabelRMSE, m.RMSE},
		{LabelExplainedVariance, m.ExplainedVariance},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s %s\n", l.label, FormatValue(l.value)); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

// FormatValue formats v in plain decimal notation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PlotPredictions saves a scatter plot of predicted against actual values
// with the identity line to path. The image format follows the file
// extension (png, svg, pdf, ...).
func PlotPredictions(yTrue, yPred *mat.VecDense, path string) error {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return errors.NewValueError("report.PlotPredictions", "empty vector")
	}
	if yTrue.Len() != yPred.Len() {
		return errors.NewDimensionError("report.PlotPredictions", yTrue.Len(), yPred.Len(), 0)
	}

	p := plot.New()
	p.Title.Text = "Predicted vs actual"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	lo, hi := math.Inf(1), math.Inf(-1)
	pts := make(plotter.XYs, yTrue.Len())
	for i := range pts {
		pts[i].X = yTrue.AtVec(i)
		pts[i].Y = yPred.AtVec(i)
		lo = math.Min(lo, math.Min(pts[i].X, pts[i].Y))
		hi = math.Max(hi, math.Max(pts[i].X, pts[i].Y))
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "build scatter")
	}
	s.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	s.Radius = vg.Points(1.5)
	p.Add(s)

	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "build identity line")
	}
	l.Color = color.RGBA{R: 255, A: 255}
	l.LineStyle.Width = vg.Points(1)
	p.Add(l)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
