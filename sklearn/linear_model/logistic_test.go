package linear_model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pipekit/core/model"
	"github.com/YuminosukeSato/pipekit/pkg/errors"
)

// separable returns linearly separable data.
// Class 0: points around (1, 1)
// Class 1: points around (3, 3)
func separable() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(6, 2, []float64{
		0.5, 0.5,
		1.0, 1.5,
		1.5, 1.0,
		3.0, 2.5,
		2.5, 3.0,
		3.5, 3.5,
	})
	y := mat.NewDense(6, 1, []float64{
		0, 0, 0,
		1, 1, 1,
	})
	return X, y
}

func TestLogisticRegression_FitPredict_Binary(t *testing.T) {
	X, y := separable()

	lr := NewLogisticRegression(
		WithLRMaxIter(1000),
		WithLRTol(1e-4),
	)
	require.NoError(t, lr.Fit(X, y))
	assert.True(t, lr.IsFitted())
	assert.Equal(t, []int{0, 1}, lr.Classes())
	assert.Greater(t, lr.NIter(), 0)

	predictions, err := lr.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		assert.Equal(t, y.At(i, 0), predictions.At(i, 0), "sample %d", i)
	}

	XTest := mat.NewDense(2, 2, []float64{
		1.0, 1.0, // class 0
		3.0, 3.0, // class 1
	})
	testPreds, err := lr.Predict(XTest)
	require.NoError(t, err)
	assert.Equal(t, 0.0, testPreds.At(0, 0))
	assert.Equal(t, 1.0, testPreds.At(1, 0))

	// Both clusters sit on the positive quadrant, so the boundary needs a
	// negative intercept.
	assert.Less(t, lr.Intercept(), 0.0)
}

func TestLogisticRegression_PredictProba(t *testing.T) {
	X, y := separable()

	lr := NewLogisticRegression(WithLRMaxIter(500))
	require.NoError(t, lr.Fit(X, y))

	probas, err := lr.PredictProba(X)
	require.NoError(t, err)

	rows, cols := probas.Dims()
	require.Equal(t, 6, rows)
	require.Equal(t, 2, cols)

	for i := 0; i < rows; i++ {
		p0, p1 := probas.At(i, 0), probas.At(i, 1)
		assert.GreaterOrEqual(t, p1, 0.0)
		assert.LessOrEqual(t, p1, 1.0)
		assert.InDelta(t, 1.0, p0+p1, 1e-12)
	}
	// Positive-class probability is higher on the class-1 cluster.
	assert.Greater(t, probas.At(5, 1), probas.At(0, 1))
}

func TestLogisticRegression_NonZeroLabels(t *testing.T) {
	X, _ := separable()
	y := mat.NewDense(6, 1, []float64{-1, -1, -1, 1, 1, 1})

	lr := NewLogisticRegression(WithLRMaxIter(1000), WithLRC(10.0))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, []int{-1, 1}, lr.Classes())

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestLogisticRegression_Regularization(t *testing.T) {
	X, y := separable()

	strong := NewLogisticRegression(WithLRC(0.01), WithLRMaxIter(1000))
	require.NoError(t, strong.Fit(X, y))

	weak := NewLogisticRegression(WithLRC(100.0), WithLRMaxIter(1000))
	require.NoError(t, weak.Fit(X, y))

	norm := func(w []float64) float64 {
		s := 0.0
		for _, v := range w {
			s += v * v
		}
		return math.Sqrt(s)
	}
	assert.Less(t, norm(strong.Coef()), norm(weak.Coef()),
		"strong regularization should shrink coefficients")
}

func TestLogisticRegression_RejectsNonBinary(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{0, 1, 2, 3, 4, 5})

	tests := []struct {
		name string
		y    []float64
	}{
		{name: "single class", y: []float64{1, 1, 1, 1, 1, 1}},
		{name: "three classes", y: []float64{0, 0, 1, 1, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewLogisticRegression().Fit(X, mat.NewDense(6, 1, tt.y))
			require.Error(t, err)
			var valueErr *errors.ValueError
			assert.True(t, errors.As(err, &valueErr))
		})
	}
}

func TestLogisticRegression_FitValidation(t *testing.T) {
	X, y := separable()

	err := NewLogisticRegression().Fit(X, mat.NewDense(5, 1, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	err = NewLogisticRegression(WithLRC(0)).Fit(X, y)
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "C", valErr.ParamName)

	err = NewLogisticRegression(WithLRPenalty("l1")).Fit(X, y)
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "penalty", valErr.ParamName)
}

func TestLogisticRegression_GetSetParams(t *testing.T) {
	lr := NewLogisticRegression()

	params := lr.GetParams()
	assert.Equal(t, 1.0, params["C"])
	assert.Equal(t, 100, params["max_iter"])
	assert.Equal(t, "l2", params["penalty"])
	assert.Equal(t, true, params["fit_intercept"])

	require.NoError(t, lr.SetParams(map[string]interface{}{
		"C":        2.0,
		"max_iter": 200,
		"penalty":  "none",
		"tol":      1e-5,
	}))
	assert.Equal(t, 2.0, lr.C)
	assert.Equal(t, 200, lr.maxIter)
	assert.Equal(t, "none", lr.penalty)
	assert.Equal(t, 1e-5, lr.tol)

	err := lr.SetParams(map[string]interface{}{"alpha": 1.0})
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "alpha", valErr.ParamName)

	err = lr.SetParams(map[string]interface{}{"max_iter": "many"})
	assert.Error(t, err)
}

func TestLogisticRegression_Clone(t *testing.T) {
	X, y := separable()

	lr := NewLogisticRegression(WithLRC(5.0), WithLRMaxIter(300), WithLogisticFitIntercept(false))
	require.NoError(t, lr.Fit(X, y))
	assert.Equal(t, 0.0, lr.Intercept(), "intercept stays at zero when not fitted")

	cloned, ok := lr.Clone().(*LogisticRegression)
	require.True(t, ok)
	assert.NotSame(t, lr, cloned)
	assert.Equal(t, lr.GetParams(), cloned.GetParams())
	assert.False(t, cloned.IsFitted(), "clone must be unfitted")

	// Changing the clone leaves the original alone.
	require.NoError(t, cloned.SetParams(map[string]interface{}{"C": 0.5}))
	assert.Equal(t, 5.0, lr.GetParams()["C"])

	var _ model.Cloner = lr
	var _ model.Classifier = lr
}

func TestLogisticRegression_NotFitted(t *testing.T) {
	lr := NewLogisticRegression()

	X := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})

	_, err := lr.Predict(X)
	var nfErr *errors.NotFittedError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "PredictProba", nfErr.Method)

	_, err = lr.PredictProba(X)
	assert.Error(t, err)
}

func TestLogisticRegression_FeatureMismatch(t *testing.T) {
	X, y := separable()
	lr := NewLogisticRegression()
	require.NoError(t, lr.Fit(X, y))

	_, err := lr.PredictProba(mat.NewDense(1, 3, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}
