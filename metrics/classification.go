package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/pipekit/pkg/errors"
)

// logLossEpsilon clips probabilities away from 0 and 1 before taking logs.
const logLossEpsilon = 1e-15

// binaryLabels returns yTrue as booleans (1 -> true) and the positive count.
// Any label other than 0 or 1 is a ValueError.
func binaryLabels(op string, yTrue *mat.VecDense) ([]bool, int, error) {
	n := yTrue.Len()
	labels := make([]bool, n)
	positives := 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			labels[i] = true
			positives++
		case 0:
		default:
			return nil, 0, errors.NewValueError(op, "y_true must contain only binary labels (0 or 1)")
		}
	}
	return labels, positives, nil
}

// ROCCurve computes the receiver operating characteristic of a binary
// classifier. fpr and tpr are non-decreasing and start at (0, 0); thresholds
// are the matching score cutoffs, highest first.
func ROCCurve(yTrue, yScore *mat.VecDense) (fpr, tpr, thresholds []float64, err error) {
	n, err := checkPair("ROCCurve", yTrue, yScore)
	if err != nil {
		return nil, nil, nil, err
	}
	labels, positives, err := binaryLabels("ROCCurve", yTrue)
	if err != nil {
		return nil, nil, nil, err
	}
	if positives == 0 || positives == n {
		return nil, nil, nil, errors.NewValueError("ROCCurve", "only one class present in y_true")
	}

	// stat.ROC wants scores sorted ascending with classes in the same order.
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = yScore.AtVec(i)
	}
	inds := make([]int, n)
	floats.Argsort(scores, inds)
	classes := make([]bool, n)
	for i, idx := range inds {
		classes[i] = labels[idx]
	}

	tpr, fpr, thresholds = stat.ROC(nil, scores, classes, nil)
	return fpr, tpr, thresholds, nil
}

// AUC computes the area under the ROC curve.
// When y_true holds a single class the score is undefined: AUC returns 0.5
// and emits an UndefinedMetricWarning.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	_, positives, err := binaryLabels("AUC", yTrue)
	if err != nil {
		return 0, err
	}
	if positives == 0 || positives == n {
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", "only one class present in y_true", 0.5))
		return 0.5, nil
	}

	fpr, tpr, _, err := ROCCurve(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(fpr, tpr), nil
}

// AUCMatrix computes AUC on the first column of matrix inputs.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := firstColumns("AUCMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return AUC(yTrueVec, yPredVec)
}

func firstColumns(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 || rPred == 0 || cPred == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	return mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)), mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)), nil
}

// BinaryLogLoss computes the mean negative log-likelihood of the positive
// class probabilities. Probabilities are clipped to [eps, 1-eps].
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	labels, _, err := binaryLabels("BinaryLogLoss", yTrue)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred.AtVec(i), logLossEpsilon), 1-logLossEpsilon)
		if labels[i] {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(n), nil
}

// BrierScore is the mean squared difference between the positive-class
// probability and the binary outcome.
func BrierScore(yTrue, yPred *mat.VecDense) (float64, error) {
	if _, err := checkPair("BrierScore", yTrue, yPred); err != nil {
		return 0, err
	}
	if _, _, err := binaryLabels("BrierScore", yTrue); err != nil {
		return 0, err
	}
	return MSE(yTrue, yPred)
}

// AveragePrecision summarizes the precision-recall curve as the sum over
// distinct score thresholds, highest first, of (R_n - R_{n-1}) * P_n.
// Samples with equal scores share one threshold. Returns 0 when there are no
// positives.
func AveragePrecision(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("AveragePrecision", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	labels, positives, err := binaryLabels("AveragePrecision", yTrue)
	if err != nil {
		return 0, err
	}
	if positives == 0 {
		return 0, nil
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = yPred.AtVec(i)
	}
	inds := make([]int, n)
	floats.Argsort(scores, inds)

	// scores is ascending now; walk it from the top.
	var tp, fp int
	var ap, prevRecall float64
	for i := n - 1; i >= 0; i-- {
		if labels[inds[i]] {
			tp++
		} else {
			fp++
		}
		if i > 0 && scores[i-1] == scores[i] {
			continue
		}
		recall := float64(tp) / float64(positives)
		precision := float64(tp) / float64(tp+fp)
		ap += (recall - prevRecall) * precision
		prevRecall = recall
	}
	return ap, nil
}

// Accuracy is the fraction of predicted labels equal to the true labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError is 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// BinaryAccuracy thresholds positive-class probabilities at 0.5 and returns
// the accuracy of the resulting labels.
func BinaryAccuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("BinaryAccuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	labels, _, err := binaryLabels("BinaryAccuracy", yTrue)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if (yPred.AtVec(i) >= 0.5) == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
