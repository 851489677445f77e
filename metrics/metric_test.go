package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMetricOf(t *testing.T) {
	tests := []struct {
		fn   MetricFunc
		want string
	}{
		{fn: AUC, want: "AUC"},
		{fn: BinaryLogLoss, want: "BinaryLogLoss"},
		{fn: BrierScore, want: "BrierScore"},
		{fn: MSE, want: "MSE"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m := MetricOf(tt.fn)
			assert.Equal(t, tt.want, m.Name)
			assert.NotNil(t, m.Func)
		})
	}
}

func TestNewMetric(t *testing.T) {
	m := NewMetric("roc_auc", AUC)
	assert.Equal(t, "roc_auc", m.Name)
}

func TestFuncName(t *testing.T) {
	assert.Equal(t, "", FuncName(nil))
	assert.Equal(t, "", FuncName(42))

	var nilFn MetricFunc
	assert.Equal(t, "", FuncName(nilFn))

	anon := func(yTrue, yScore *mat.VecDense) (float64, error) { return 0, nil }
	assert.Contains(t, FuncName(anon), "TestFuncName")
}

func TestBinaryProbabilityMetrics(t *testing.T) {
	names := make([]string, 0)
	for _, m := range BinaryProbabilityMetrics() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"AUC", "AveragePrecision", "BinaryLogLoss", "BrierScore", "BinaryAccuracy"}, names)
}
