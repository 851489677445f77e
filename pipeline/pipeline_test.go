package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pipekit/pkg/errors"
	"github.com/YuminosukeSato/pipekit/preprocessing"
	"github.com/YuminosukeSato/pipekit/sklearn/linear_model"
)

// opaqueTransformer is a Transformer without Clone.
type opaqueTransformer struct{}

func (opaqueTransformer) Fit(mat.Matrix) error                         { return nil }
func (opaqueTransformer) Transform(X mat.Matrix) (mat.Matrix, error)    { return X, nil }
func (opaqueTransformer) FitTransform(X mat.Matrix) (mat.Matrix, error) { return X, nil }

func trainingData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		10, 200,
		12, 180,
		11, 210,
		13, 190,
		30, 600,
		32, 580,
		31, 620,
		29, 590,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func stepNames(p *Pipeline) []string {
	names := make([]string, 0, p.Len())
	for _, s := range p.Steps() {
		names = append(names, s.Name)
	}
	return names
}

func TestPipeline_FitPredictProba(t *testing.T) {
	X, y := trainingData()

	p := New(
		Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
		Step{Name: "clf", Estimator: linear_model.NewLogisticRegression(linear_model.WithLRMaxIter(500))},
	)
	require.NoError(t, p.Fit(X, y))
	assert.True(t, p.IsFitted())

	probas, err := p.PredictProba(X)
	require.NoError(t, err)
	_, cols := probas.Dims()
	assert.Equal(t, 2, cols)

	preds, err := p.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		assert.Equal(t, y.At(i, 0), preds.At(i, 0), "sample %d", i)
	}

	score, err := p.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestPipeline_NotFitted(t *testing.T) {
	X, _ := trainingData()
	p := Make(preprocessing.NewStandardScalerDefault(), linear_model.NewLogisticRegression())

	_, err := p.PredictProba(X)
	var nfErr *errors.NotFittedError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "Pipeline", nfErr.ModelName)
	assert.Equal(t, []string{"step1", "step2"}, stepNames(p))
}

func TestPipeline_FitRejectsNonTransformerIntermediate(t *testing.T) {
	X, y := trainingData()
	p := New(
		Step{Name: "clf", Estimator: linear_model.NewLogisticRegression()},
		Step{Name: "clf2", Estimator: linear_model.NewLogisticRegression()},
	)

	err := p.Fit(X, y)
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "clf", valErr.Value)
}

func TestPipeline_Transform(t *testing.T) {
	X, y := trainingData()
	p := New(Step{Name: "minmax", Estimator: preprocessing.NewMinMaxScalerDefault()})
	require.NoError(t, p.Fit(X, y))

	Xt, err := p.Transform(X)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, Xt.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, Xt.At(5, 0), 1e-12)
}

func TestPipeline_GetParams(t *testing.T) {
	p := New(
		Step{Name: "scaler", Estimator: preprocessing.NewStandardScaler(false, true)},
		Step{Name: "clf", Estimator: linear_model.NewLogisticRegression(linear_model.WithLRC(3))},
	)

	params := p.GetParams()
	assert.Equal(t, false, params["scaler__with_mean"])
	assert.Equal(t, 3.0, params["clf__C"])
}

func TestPipeline_Clone(t *testing.T) {
	X, y := trainingData()
	scaler := preprocessing.NewStandardScalerDefault()
	clf := linear_model.NewLogisticRegression(linear_model.WithLRC(2))
	p := New(Step{Name: "scaler", Estimator: scaler}, Step{Name: "clf", Estimator: clf})
	require.NoError(t, p.Fit(X, y))

	cloned, err := p.Clone()
	require.NoError(t, err)

	assert.NotSame(t, p, cloned)
	assert.False(t, cloned.IsFitted(), "clone must be unfitted")
	assert.Equal(t, stepNames(p), stepNames(cloned))
	assert.Equal(t, p.GetParams(), cloned.GetParams())

	named := cloned.NamedSteps()
	assert.NotSame(t, scaler, named["scaler"])
	assert.NotSame(t, clf, named["clf"])

	// Parameter changes on the clone do not reach the original.
	require.NoError(t, named["clf"].(*linear_model.LogisticRegression).SetParams(map[string]interface{}{"C": 9.0}))
	assert.Equal(t, 2.0, clf.GetParams()["C"])

	// Structural changes on the clone do not reach the original.
	require.NoError(t, cloned.Prepend(Step{Name: "extra", Estimator: preprocessing.NewMinMaxScalerDefault()}))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 3, cloned.Len())
}

func TestPipeline_CloneNotCloneable(t *testing.T) {
	p := New(
		Step{Name: "opaque", Estimator: opaqueTransformer{}},
		Step{Name: "clf", Estimator: linear_model.NewLogisticRegression()},
	)

	cloned, err := p.Clone()
	assert.Nil(t, cloned)
	assert.True(t, errors.Is(err, errors.ErrNotCloneable))

	var modelErr *errors.ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "step 'opaque'", modelErr.Kind)
}

func TestPipeline_Prepend(t *testing.T) {
	X, y := trainingData()
	p := New(Step{Name: "C", Estimator: linear_model.NewLogisticRegression()})
	require.NoError(t, p.Fit(X, y))

	require.NoError(t, p.Prepend(
		Step{Name: "A", Estimator: preprocessing.NewStandardScalerDefault()},
		Step{Name: "B", Estimator: preprocessing.NewMinMaxScalerDefault()},
	))

	assert.Equal(t, []string{"A", "B", "C"}, stepNames(p))
	assert.False(t, p.IsFitted())
	assert.Contains(t, p.NamedSteps(), "A")

	require.NoError(t, p.Fit(X, y))
	_, err := p.PredictProba(X)
	assert.NoError(t, err)
}

func TestPipeline_StepsReturnsCopy(t *testing.T) {
	p := New(Step{Name: "clf", Estimator: linear_model.NewLogisticRegression()})
	steps := p.Steps()
	steps[0].Name = "changed"
	assert.Equal(t, []string{"clf"}, stepNames(p))
}

func TestPipeline_PrependDuplicateName(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
	}{
		{
			name:  "clashes with existing step",
			steps: []Step{{Name: "clf", Estimator: preprocessing.NewStandardScalerDefault()}},
		},
		{
			name: "clashes within prepended steps",
			steps: []Step{
				{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
				{Name: "scaler", Estimator: preprocessing.NewMinMaxScalerDefault()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X, y := trainingData()
			p := New(Step{Name: "clf", Estimator: linear_model.NewLogisticRegression()})
			require.NoError(t, p.Fit(X, y))

			err := p.Prepend(tt.steps...)
			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, "step name", valErr.ParamName)

			// Unchanged on failure.
			assert.Equal(t, []string{"clf"}, stepNames(p))
			assert.Len(t, p.NamedSteps(), 1)
			assert.True(t, p.IsFitted())
		})
	}
}
