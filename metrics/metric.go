// Package metrics provides evaluation metrics for binary classifiers and the
// named Metric type used to label evaluation results.
package metrics

import (
	"reflect"
	"runtime"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// MetricFunc scores predictions against ground truth. For probability
// metrics yScore holds positive-class probabilities.
type MetricFunc func(yTrue, yScore *mat.VecDense) (float64, error)

// Metric is a MetricFunc together with the name its results are reported under.
type Metric struct {
	Name string
	Func MetricFunc
}

// NewMetric labels fn with an explicit name.
func NewMetric(name string, fn MetricFunc) Metric {
	return Metric{Name: name, Func: fn}
}

// MetricOf labels fn with its own function name, so MetricOf(AUC).Name is "AUC".
// Anonymous functions get names such as "TestX.func1".
func MetricOf(fn MetricFunc) Metric {
	return Metric{Name: FuncName(fn), Func: fn}
}

// FuncName returns the unqualified name of a function value, or "" when fn is
// not a non-nil function.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}

	// "github.com/org/repo/pkg.Name" -> "Name"
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}

// BinaryProbabilityMetrics returns the standard metrics for positive-class
// probabilities, in reporting order.
func BinaryProbabilityMetrics() []Metric {
	return []Metric{
		MetricOf(AUC),
		MetricOf(AveragePrecision),
		MetricOf(BinaryLogLoss),
		MetricOf(BrierScore),
		MetricOf(BinaryAccuracy),
	}
}
