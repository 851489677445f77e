// Package pipekit provides helpers for building, comparing and scoring
// binary-classification pipelines in Go.
//
// pipekit sits on a small scikit-learn-like modeling layer (scalers, a
// logistic regression, a Pipeline type) and adds three operations that are
// handy when many candidate pipelines are evaluated side by side:
//
//   - evaluation.Evaluate scores a fitted classifier with a list of named
//     metrics, optionally suffixing every result key with an identifier.
//   - pipeline.RenameInPlace suffixes every key of a pipeline collection.
//   - pipeline.PrependSteps clones every pipeline of a collection and puts
//     the same preprocessing steps in front of each.
//
// # Quick Start
//
//	base := pipeline.Collection{
//	    "logistic": pipeline.Make(linear_model.NewLogisticRegression()),
//	}
//
//	scaled, err := pipeline.PrependSteps(
//	    []pipeline.Step{{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()}},
//	    base,
//	    pipeline.WithIdentifier("scaled"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := pipeline.FitCollection(scaled, X, y); err != nil {
//	    log.Fatal(err)
//	}
//
//	scores, err := evaluation.Evaluate(scaled["logistic_scaled"],
//	    metrics.BinaryProbabilityMetrics(), X, yTrue, evaluation.WithIdentifier("holdout"))
//	// scores["AUC_holdout"], scores["BinaryLogLoss_holdout"], ...
//
// # Packages
//
//   - core/model: Core interfaces (Estimator, Transformer, Cloner, ...)
//   - core/parallel: Row-range parallel processing utilities
//   - preprocessing: StandardScaler, MinMaxScaler
//   - sklearn/linear_model: Binary LogisticRegression
//   - metrics: AUC, log loss, Brier score and the Metric type
//   - pipeline: Pipeline, collections, YAML loading
//   - evaluation: Evaluate, EvaluateCollection, ROC plots
//   - pkg/errors: Typed errors with stack traces
//   - pkg/log: Structured logging backed by zerolog
//
// # Errors
//
// Precondition violations (an empty metric list, step list or pipeline
// collection) return an *errors.InvalidArgumentError naming the argument
// position. Errors raised by models, metrics and cloning are returned
// unchanged.
//
// # Logging
//
// Logs go through pkg/log. The default zerolog provider writes to stderr at
// the level named by the PIPEKIT_LOG_LEVEL environment variable (info when
// unset).
package pipekit
