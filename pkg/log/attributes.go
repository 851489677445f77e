// Package log defines standard attribute keys for pipekit operations.
//
// The keys follow a hierarchical naming convention (e.g., "model.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model or pipeline.
	// Examples: "LogisticRegression", "StandardScaler", "Pipeline"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict_proba", "evaluate", "rename", "prepend_steps"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is logging.
	// Examples: "evaluation", "pipeline", "preprocessing"
	ComponentKey = "ml.component"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Evaluation Context
const (
	// MetricsCountKey records how many metric functions were applied.
	MetricsCountKey = "metrics.count"

	// MetricNameKey records the result label of a single metric.
	MetricNameKey = "metrics.name"

	// MetricValueKey records the value of a single metric.
	MetricValueKey = "metrics.value"

	// IdentifierKey records the suffix used to label results or pipeline names.
	IdentifierKey = "run.identifier"
)

// Pipeline Collection Context
const (
	// PipelineNameKey identifies a pipeline within a collection.
	PipelineNameKey = "pipeline.name"

	// PipelinesCountKey records the size of a pipeline collection.
	PipelinesCountKey = "pipeline.count"

	// StepsCountKey records the number of steps involved in an operation.
	StepsCountKey = "pipeline.steps"

	// StepNameKey identifies a single pipeline step.
	StepNameKey = "pipeline.step"
)

// Error Context
const (
	// ErrAttrKey carries the error value itself.
	ErrAttrKey = "error"

	// StacktraceKey contains stack trace information for debugging.
	// Populated from cockroachdb/errors safe details.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants for common operations.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationPredictProba = "predict_proba"
	OperationTransform    = "transform"
	OperationEvaluate     = "evaluate"
	OperationRename       = "rename"
	OperationPrependSteps = "prepend_steps"
	OperationClone        = "clone"
	OperationLoad         = "load"
)
