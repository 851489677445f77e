// Package model provides the interfaces shared by estimators, transformers and
// pipelines.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// ProbabilisticClassifier is implemented by fitted classifiers that expose class
// probabilities. For binary problems the output has two columns and column 1
// holds the positive-class probability.
type ProbabilisticClassifier interface {
	PredictProba(X mat.Matrix) (mat.Matrix, error)
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	ProbabilisticClassifier

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// Cloner is implemented by estimators that can produce an unfitted copy of
// themselves with identical hyperparameters. The copy must not share any
// mutable state with the receiver.
type Cloner interface {
	Clone() Cloner
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}
