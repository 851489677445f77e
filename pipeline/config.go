package pipeline

import (
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/pipekit/core/model"
	"github.com/YuminosukeSato/pipekit/pkg/errors"
	"github.com/YuminosukeSato/pipekit/pkg/log"
	"github.com/YuminosukeSato/pipekit/preprocessing"
	"github.com/YuminosukeSato/pipekit/sklearn/linear_model"
)

// StepConfig describes one step of a declarative pipeline.
type StepConfig struct {
	Name   string                 `yaml:"name"`
	Kind   string                 `yaml:"kind"`
	Params map[string]interface{} `yaml:"params"`
}

// PipelineConfig describes one pipeline as an ordered list of steps.
type PipelineConfig struct {
	Steps []StepConfig `yaml:"steps"`
}

// CollectionConfig is the document read by LoadCollection:
//
//	pipelines:
//	  baseline:
//	    steps:
//	      - name: clf
//	        kind: logistic_regression
//	        params: {C: 0.5}
type CollectionConfig struct {
	Pipelines map[string]PipelineConfig `yaml:"pipelines"`
}

// Factory builds a fresh estimator for a step kind.
type Factory func() interface{}

// Registry maps a step kind to its factory.
type Registry map[string]Factory

// DefaultRegistry knows the estimators shipped with pipekit.
func DefaultRegistry() Registry {
	return Registry{
		"standard_scaler": func() interface{} { return preprocessing.NewStandardScalerDefault() },
		"minmax_scaler":   func() interface{} { return preprocessing.NewMinMaxScalerDefault() },
		"logistic_regression": func() interface{} {
			return linear_model.NewLogisticRegression()
		},
	}
}

// Kinds returns the registered step kinds in sorted order.
func (r Registry) Kinds() []string {
	kinds := make([]string, 0, len(r))
	for kind := range r {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Build creates the estimator for one step and applies its params.
func (r Registry) Build(cfg StepConfig) (interface{}, error) {
	factory, ok := r[cfg.Kind]
	if !ok {
		return nil, errors.NewValidationError("kind", "unknown step kind", cfg.Kind)
	}
	estimator := factory()

	if len(cfg.Params) == 0 {
		return estimator, nil
	}
	setter, ok := estimator.(model.ParameterSetter)
	if !ok {
		return nil, errors.NewValidationError("params", "step kind does not accept parameters", cfg.Kind)
	}
	if err := setter.SetParams(cfg.Params); err != nil {
		return nil, errors.Wrapf(err, "step '%s'", cfg.Name)
	}
	return estimator, nil
}

// LoadCollection reads a YAML CollectionConfig from r and builds every
// pipeline with reg. Unknown document fields are rejected.
func LoadCollection(r io.Reader, reg Registry) (Collection, error) {
	logger := log.GetLoggerWithName("pipeline")

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg CollectionConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding pipeline collection")
	}

	return BuildCollection(cfg, reg, logger)
}

// BuildCollection builds every pipeline described by cfg.
func BuildCollection(cfg CollectionConfig, reg Registry, logger log.Logger) (Collection, error) {
	if len(cfg.Pipelines) == 0 {
		return nil, errors.NewValidationError("pipelines", "must define at least one pipeline", len(cfg.Pipelines))
	}

	out := make(Collection, len(cfg.Pipelines))
	for name, pc := range cfg.Pipelines {
		if len(pc.Steps) == 0 {
			return nil, errors.NewValidationError("steps", "pipeline must define at least one step", name)
		}

		steps := make([]Step, len(pc.Steps))
		for i, sc := range pc.Steps {
			if sc.Name == "" {
				return nil, errors.NewValidationError("name", "step name is required", name)
			}
			estimator, err := reg.Build(sc)
			if err != nil {
				return nil, errors.Wrapf(err, "pipeline '%s'", name)
			}
			steps[i] = Step{Name: sc.Name, Estimator: estimator}
		}
		out[name] = New(steps...)
	}

	logger.Debug("Loaded pipeline collection",
		log.OperationKey, log.OperationLoad,
		log.PipelinesCountKey, len(out),
	)
	return out, nil
}
