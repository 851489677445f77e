package evaluation

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/pipekit/core/model"
	"github.com/YuminosukeSato/pipekit/metrics"
	"github.com/YuminosukeSato/pipekit/pkg/errors"
)

// ROCSeries is one labelled ROC curve.
type ROCSeries struct {
	Name string
	FPR  []float64
	TPR  []float64
	AUC  float64
}

// NewROCSeries computes the ROC curve of clf on X against yTrue.
func NewROCSeries(name string, clf model.ProbabilisticClassifier, X mat.Matrix, yTrue *mat.VecDense) (ROCSeries, error) {
	if isNil(clf) {
		return ROCSeries{}, errors.NewInvalidArgumentError("NewROCSeries", 2, "model", "must be a probabilistic classifier")
	}

	proba, err := PositiveProba(clf, X)
	if err != nil {
		return ROCSeries{}, err
	}

	fpr, tpr, _, err := metrics.ROCCurve(yTrue, proba)
	if err != nil {
		return ROCSeries{}, err
	}
	auc, err := metrics.AUC(yTrue, proba)
	if err != nil {
		return ROCSeries{}, err
	}
	return ROCSeries{Name: name, FPR: fpr, TPR: tpr, AUC: auc}, nil
}

// PlotROC draws every curve on one chart, together with the chance
// diagonal, and writes it to w. format is any format accepted by
// plot.Plot.WriterTo ("png", "svg", "pdf", ...).
func PlotROC(w io.Writer, format string, curves []ROCSeries) error {
	if len(curves) == 0 {
		return errors.NewInvalidArgumentError("PlotROC", 3, "curves", "must be a non-empty list")
	}

	p := plot.New()
	p.Title.Text = "ROC curve"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false
	p.Legend.Left = false

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "building chance line")
	}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	for i, c := range curves {
		if len(c.FPR) != len(c.TPR) {
			return errors.NewDimensionError("PlotROC", len(c.FPR), len(c.TPR), 0)
		}

		pts := make(plotter.XYs, len(c.FPR))
		for j := range c.FPR {
			pts[j] = plotter.XY{X: c.FPR[j], Y: c.TPR[j]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "building curve '%s'", c.Name)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (AUC = %.3f)", c.Name, c.AUC), line)
	}

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return errors.Wrapf(err, "rendering ROC plot as %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing ROC plot")
	}
	return nil
}
