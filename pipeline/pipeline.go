// Package pipeline implements a scikit-learn style Pipeline for chaining
// transformers and a final estimator, plus helpers that operate on named
// collections of pipelines.
package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pipekit/core/model"
	"github.com/YuminosukeSato/pipekit/pkg/errors"
	"github.com/YuminosukeSato/pipekit/pkg/log"
)

// Step represents a single step in the pipeline.
// Each step is a tuple of (name, transformer/estimator).
type Step struct {
	Name      string      // Name of this step (for identification)
	Estimator interface{} // Can be Transformer or Estimator
}

// Pipeline chains multiple transforms and optionally a final estimator.
// Intermediate steps must be transformers (i.e., have a Transform method).
// The final step can be a transformer or an estimator.
type Pipeline struct {
	// State management using composition
	state  *model.StateManager
	logger log.Logger

	steps       []Step
	namedSteps_ map[string]interface{}
}

// New creates a new Pipeline with the given steps.
// This is equivalent to sklearn.pipeline.Pipeline(steps)
func New(steps ...Step) *Pipeline {
	p := &Pipeline{
		state:  model.NewStateManager(),
		logger: log.GetLoggerWithName("Pipeline"),
		steps:  append([]Step(nil), steps...),
	}
	p.indexSteps()
	return p
}

// Make is a convenience function similar to sklearn.pipeline.make_pipeline.
// Steps are named step1, step2, ...
func Make(estimators ...interface{}) *Pipeline {
	steps := make([]Step, len(estimators))
	for i, estimator := range estimators {
		steps[i] = Step{Name: fmt.Sprintf("step%d", i+1), Estimator: estimator}
	}
	return New(steps...)
}

func (p *Pipeline) indexSteps() {
	p.namedSteps_ = make(map[string]interface{}, len(p.steps))
	for _, step := range p.steps {
		p.namedSteps_[step.Name] = step.Estimator
	}
}

// Fit trains the pipeline.
// Fit all the transformers one after the other and transform the
// data, then fit the final estimator.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	if len(p.steps) == 0 {
		return errors.NewModelError("Pipeline.Fit", "pipeline has no steps", errors.ErrEmptyData)
	}

	Xt := X
	var err error

	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]

		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return errors.NewValidationError(
				"pipeline step",
				"all intermediate steps must be transformers",
				step.Name,
			)
		}

		if err = transformer.Fit(Xt); err != nil {
			return errors.Wrapf(err, "failed to fit step '%s'", step.Name)
		}

		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return errors.Wrapf(err, "failed to transform at step '%s'", step.Name)
		}
	}

	// The final step can be either an estimator or a transformer
	finalStep := p.steps[len(p.steps)-1]
	switch final := finalStep.Estimator.(type) {
	case model.Fitter:
		err = final.Fit(Xt, y)
	case model.Transformer:
		err = final.Fit(Xt)
	default:
		return errors.NewValidationError(
			"pipeline final step",
			"final step must have Fit method",
			finalStep.Name,
		)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to fit final step '%s'", finalStep.Name)
	}

	rows, cols := X.Dims()
	p.state.SetDimensions(cols, rows)
	p.state.SetFitted()

	p.logger.Debug("Pipeline fitted",
		log.OperationKey, log.OperationFit,
		log.StepsCountKey, len(p.steps),
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
	)
	return nil
}

// Predict applies transforms to the data, and predicts with the final estimator.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("Pipeline", "Predict"); err != nil {
		return nil, err
	}

	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}

	finalStep := p.steps[len(p.steps)-1]
	predictor, ok := finalStep.Estimator.(model.Predictor)
	if !ok {
		return nil, errors.NewValidationError(
			"pipeline final step",
			"final step must have Predict method for prediction",
			finalStep.Name,
		)
	}
	return predictor.Predict(Xt)
}

// PredictProba applies transforms to the data, and PredictProba with the
// final estimator.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("Pipeline", "PredictProba"); err != nil {
		return nil, err
	}

	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}

	finalStep := p.steps[len(p.steps)-1]
	classifier, ok := finalStep.Estimator.(model.ProbabilisticClassifier)
	if !ok {
		return nil, errors.NewValidationError(
			"pipeline final step",
			"final step must have PredictProba method",
			finalStep.Name,
		)
	}
	return classifier.PredictProba(Xt)
}

// Transform applies every step, including the last, as a transformer.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("Pipeline", "Transform"); err != nil {
		return nil, err
	}

	Xt := X
	var err error
	for _, step := range p.steps {
		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(
				"pipeline step",
				"all steps must be transformers for Transform",
				step.Name,
			)
		}

		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to transform at step '%s'", step.Name)
		}
	}
	return Xt, nil
}

// Score returns the score of the final estimator.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if err := p.state.RequireFitted("Pipeline", "Score"); err != nil {
		return 0, err
	}

	Xt, err := p.transform(X)
	if err != nil {
		return 0, err
	}

	finalStep := p.steps[len(p.steps)-1]
	scorer, ok := finalStep.Estimator.(interface {
		Score(mat.Matrix, mat.Matrix) (float64, error)
	})
	if !ok {
		return 0, errors.NewValidationError(
			"pipeline final step",
			"final step must have Score method",
			finalStep.Name,
		)
	}
	return scorer.Score(Xt, y)
}

// transform applies all transforms except the final estimator.
func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	var err error

	for i := 0; i < len(p.steps)-1; i++ {
		step := p.steps[i]
		transformer, ok := step.Estimator.(model.Transformer)
		if !ok {
			return nil, errors.NewValidationError(
				"pipeline step",
				"intermediate steps must be transformers",
				step.Name,
			)
		}

		Xt, err = transformer.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to transform at step '%s'", step.Name)
		}
	}
	return Xt, nil
}

// IsFitted reports whether Fit has completed since the last structural change.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}

// GetParams returns the parameters of every step, keyed as step__param.
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	for _, step := range p.steps {
		getter, ok := step.Estimator.(model.ParameterGetter)
		if !ok {
			continue
		}
		for key, value := range getter.GetParams() {
			params[fmt.Sprintf("%s__%s", step.Name, key)] = value
		}
	}
	return params
}

// NamedSteps returns the step estimators keyed by step name.
func (p *Pipeline) NamedSteps() map[string]interface{} {
	named := make(map[string]interface{}, len(p.namedSteps_))
	for k, v := range p.namedSteps_ {
		named[k] = v
	}
	return named
}

// Steps returns a copy of the list of steps.
func (p *Pipeline) Steps() []Step {
	steps := make([]Step, len(p.steps))
	copy(steps, p.steps)
	return steps
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Clone returns an unfitted Pipeline with its own step list in which every
// step estimator has been cloned. A step whose estimator does not implement
// model.Cloner makes Clone fail with a ModelError wrapping ErrNotCloneable.
func (p *Pipeline) Clone() (*Pipeline, error) {
	steps := make([]Step, len(p.steps))
	for i, step := range p.steps {
		estimator, err := cloneEstimator(step)
		if err != nil {
			return nil, err
		}
		steps[i] = Step{Name: step.Name, Estimator: estimator}
	}

	cloned := New(steps...)
	cloned.logger = p.logger
	return cloned, nil
}

func cloneEstimator(step Step) (interface{}, error) {
	cloner, ok := step.Estimator.(model.Cloner)
	if !ok {
		return nil, errors.NewModelError("Pipeline.Clone", fmt.Sprintf("step '%s'", step.Name), errors.ErrNotCloneable)
	}
	return cloner.Clone(), nil
}

// Prepend inserts steps at the front of the pipeline, keeping their given
// order: after Prepend(a, b) on [c] the steps are [a, b, c]. The pipeline
// becomes unfitted. Step names must stay unique; on a duplicate name the
// pipeline is left unchanged and a ValidationError is returned.
func (p *Pipeline) Prepend(steps ...Step) error {
	seen := make(map[string]bool, len(p.steps)+len(steps))
	for _, step := range p.steps {
		seen[step.Name] = true
	}
	for _, step := range steps {
		if seen[step.Name] {
			return errors.NewValidationError("step name", "already used in pipeline", step.Name)
		}
		seen[step.Name] = true
	}

	for i := len(steps) - 1; i >= 0; i-- {
		p.steps = append([]Step{steps[i]}, p.steps...)
	}
	p.indexSteps()
	p.state.Reset()
	return nil
}
