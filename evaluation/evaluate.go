// Package evaluation scores fitted binary classifiers and pipeline
// collections against a list of named metrics.
package evaluation

import (
	"fmt"
	"reflect"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pipekit/core/model"
	"github.com/YuminosukeSato/pipekit/metrics"
	"github.com/YuminosukeSato/pipekit/pipeline"
	"github.com/YuminosukeSato/pipekit/pkg/errors"
	"github.com/YuminosukeSato/pipekit/pkg/log"
)

// Option configures Evaluate and EvaluateCollection.
type Option func(*options)

type options struct {
	identifier string
	logger     log.Logger
}

// WithIdentifier reports every result under <metric>_<identifier>.
// An empty identifier keeps the bare metric names.
func WithIdentifier(identifier string) Option {
	return func(o *options) {
		o.identifier = identifier
	}
}

// WithLogger sets the logger used for evaluation records.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.GetLoggerWithName("evaluation")
	}
	return o
}

// ResultKey returns the key a metric result is reported under.
func ResultKey(metricName, identifier string) string {
	if identifier == "" {
		return metricName
	}
	return metricName + "_" + identifier
}

// Evaluate scores clf on X against yTrue with every metric, in order.
//
// Positive-class probabilities (column 1 of PredictProba) are computed once
// and passed to each metric. Results are keyed by metric name, suffixed with
// _<identifier> when WithIdentifier is given. A metric without a Name is
// reported under its function name. Metrics sharing a key overwrite earlier
// results.
//
// Errors from PredictProba and from the metric functions are returned as
// they are.
func Evaluate(clf model.ProbabilisticClassifier, metricList []metrics.Metric, X mat.Matrix, yTrue *mat.VecDense, opts ...Option) (map[string]float64, error) {
	if isNil(clf) {
		return nil, errors.NewInvalidArgumentError("Evaluate", 1, "model", "must be a probabilistic classifier")
	}
	if len(metricList) == 0 {
		return nil, errors.NewInvalidArgumentError("Evaluate", 2, "metrics", "must be a non-empty list")
	}
	for i, m := range metricList {
		if m.Func == nil {
			return nil, errors.NewInvalidArgumentError("Evaluate", 2, "metrics",
				fmt.Sprintf("element %d has no function", i))
		}
	}

	o := newOptions(opts)

	proba, err := PositiveProba(clf, X)
	if err != nil {
		o.logger.Error("Predicting probabilities failed", err,
			log.OperationKey, log.OperationEvaluate,
		)
		return nil, err
	}

	results := make(map[string]float64, len(metricList))
	for _, m := range metricList {
		name := m.Name
		if name == "" {
			name = metrics.FuncName(m.Func)
		}

		value, err := m.Func(yTrue, proba)
		if err != nil {
			o.logger.Error("Metric failed", err,
				log.OperationKey, log.OperationEvaluate,
				log.MetricNameKey, name,
			)
			return nil, err
		}

		key := ResultKey(name, o.identifier)
		results[key] = value
		o.logger.Debug("Metric computed",
			log.MetricNameKey, key,
			log.MetricValueKey, value,
		)
	}

	o.logger.Debug("Evaluation complete",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, proba.Len(),
		log.MetricsCountKey, len(metricList),
		log.IdentifierKey, o.identifier,
	)
	return results, nil
}

// isNil reports whether clf is nil or a nil pointer behind the interface.
func isNil(clf model.ProbabilisticClassifier) bool {
	if clf == nil {
		return true
	}
	v := reflect.ValueOf(clf)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// PositiveProba returns column 1 of clf.PredictProba(X). The output must
// have exactly two columns.
func PositiveProba(clf model.ProbabilisticClassifier, X mat.Matrix) (*mat.VecDense, error) {
	proba, err := clf.PredictProba(X)
	if err != nil {
		return nil, err
	}

	rows, cols := proba.Dims()
	if cols != 2 {
		return nil, errors.NewDimensionError("PositiveProba", 2, cols, 1)
	}
	return mat.NewVecDense(rows, mat.Col(nil, 1, proba)), nil
}

// EvaluateCollection runs Evaluate on every fitted pipeline of pipelines, in
// sorted name order, and returns the results keyed by pipeline name. The
// first failure stops the run; it is wrapped with the pipeline name.
func EvaluateCollection(pipelines pipeline.Collection, metricList []metrics.Metric, X mat.Matrix, yTrue *mat.VecDense, opts ...Option) (map[string]map[string]float64, error) {
	if len(pipelines) == 0 {
		return nil, errors.NewInvalidArgumentError("EvaluateCollection", 1, "pipelines", "must be a non-empty collection")
	}
	if len(metricList) == 0 {
		return nil, errors.NewInvalidArgumentError("EvaluateCollection", 2, "metrics", "must be a non-empty list")
	}

	o := newOptions(opts)

	out := make(map[string]map[string]float64, len(pipelines))
	for _, name := range pipelines.Names() {
		if pipelines[name] == nil {
			return nil, errors.NewInvalidArgumentError("EvaluateCollection", 1, "pipelines",
				fmt.Sprintf("entry '%s' is nil", name))
		}
		scores, err := Evaluate(pipelines[name], metricList, X, yTrue, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating pipeline '%s'", name)
		}
		out[name] = scores
	}

	o.logger.Info("Evaluated pipeline collection",
		log.OperationKey, log.OperationEvaluate,
		log.PipelinesCountKey, len(pipelines),
		log.MetricsCountKey, len(metricList),
	)
	return out, nil
}
