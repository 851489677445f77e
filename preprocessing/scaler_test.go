package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pipekit/core/model"
	"github.com/YuminosukeSato/pipekit/pkg/errors"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 10,
		3, 10,
		4, 10,
	})

	scaler := NewStandardScalerDefault()
	Xt, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, scaler.Mean[0], 1e-9)
	assert.InDelta(t, 1.118034, scaler.Scale[0], 1e-6)
	// 定数特徴量はスケール1
	assert.Equal(t, 1.0, scaler.Scale[1])
	assert.InDelta(t, -1.341641, Xt.At(0, 0), 1e-6)
	assert.Equal(t, 0.0, Xt.At(2, 1))

	back, err := scaler.InverseTransform(Xt)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = scaler.Transform(mat.NewDense(1, 3, []float64{1, 2, 3}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	err = scaler.Fit(&mat.Dense{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestStandardScaler_LargeInputUsesAllRows(t *testing.T) {
	n := 2500
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i % 2)
	}
	X := mat.NewDense(n, 1, data)

	Xt, err := NewStandardScalerDefault().FitTransform(X)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		assert.InDelta(t, float64(2*(i%2)-1), Xt.At(i, 0), 1e-9)
	}
}

func TestStandardScaler_CloneAndParams(t *testing.T) {
	scaler := NewStandardScaler(false, true)
	require.NoError(t, scaler.Fit(mat.NewDense(2, 1, []float64{1, 3})))

	clone, ok := scaler.Clone().(*StandardScaler)
	require.True(t, ok)
	assert.False(t, clone.IsFitted())
	assert.Equal(t, scaler.GetParams(), clone.GetParams())

	require.NoError(t, clone.SetParams(map[string]interface{}{"with_mean": true}))
	assert.True(t, clone.WithMean)
	assert.False(t, scaler.WithMean)

	err := clone.SetParams(map[string]interface{}{"copy": true})
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	var _ model.Transformer = scaler
	var _ model.Cloner = scaler
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		0, 5,
		5, 5,
		10, 5,
	})

	scaler := NewMinMaxScaler([2]float64{-1, 1})
	Xt, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, -1.0, Xt.At(0, 0))
	assert.Equal(t, 0.0, Xt.At(1, 0))
	assert.Equal(t, 1.0, Xt.At(2, 0))
	assert.Equal(t, -1.0, Xt.At(1, 1))

	back, err := scaler.InverseTransform(Xt)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))
}

func TestMinMaxScaler_CloneAndParams(t *testing.T) {
	scaler := NewMinMaxScalerDefault()
	require.NoError(t, scaler.SetParams(map[string]interface{}{"feature_range": []interface{}{-2, 2}}))
	assert.Equal(t, [2]float64{-2, 2}, scaler.FeatureRange)

	require.NoError(t, scaler.Fit(mat.NewDense(2, 1, []float64{0, 1})))
	clone := scaler.Clone().(*MinMaxScaler)
	assert.False(t, clone.IsFitted())
	assert.Equal(t, scaler.FeatureRange, clone.FeatureRange)

	bad := NewMinMaxScaler([2]float64{1, 0})
	assert.Error(t, bad.Fit(mat.NewDense(1, 1, []float64{1})))
}
