package pipeline

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pipekit/pkg/errors"
	"github.com/YuminosukeSato/pipekit/pkg/log"
)

// Collection maps a pipeline name to its pipeline. Each entry owns its
// pipeline; no two entries produced by this package share one.
type Collection map[string]*Pipeline

// Names returns the collection keys in sorted order.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FitCollection fits every pipeline on X and y in sorted name order. The
// first failure stops the run and is wrapped with the pipeline name.
func FitCollection(pipelines Collection, X, y mat.Matrix) error {
	if len(pipelines) == 0 {
		return errors.NewInvalidArgumentError("FitCollection", 1, "pipelines", "must be a non-empty collection")
	}
	for _, name := range pipelines.Names() {
		if pipelines[name] == nil {
			return errors.NewInvalidArgumentError("FitCollection", 1, "pipelines",
				fmt.Sprintf("entry '%s' is nil", name))
		}
	}
	for _, name := range pipelines.Names() {
		if err := pipelines[name].Fit(X, y); err != nil {
			return errors.Wrapf(err, "fitting pipeline '%s'", name)
		}
	}
	return nil
}

// Option configures PrependSteps.
type Option func(*options)

type options struct {
	identifier string
	logger     log.Logger
}

// WithIdentifier renames every returned pipeline to <name>_<identifier>.
// An empty identifier leaves the names unchanged.
func WithIdentifier(identifier string) Option {
	return func(o *options) {
		o.identifier = identifier
	}
}

// WithLogger sets the logger used for operation records.
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
		o.logger = log.GetLoggerWithName("pipeline")
	}
	return o
}

// RenameInPlace replaces every key of pipelines with <key>_<identifier>.
//
// The key set is captured before any entry moves, so each original key is
// renamed exactly once. Keys are processed in sorted order. Two keys that end
// up with the same new name overwrite each other without an error; callers
// that mix suffixed and unsuffixed names must check for that themselves.
func RenameInPlace(pipelines Collection, identifier string) error {
	if len(pipelines) == 0 {
		return errors.NewInvalidArgumentError("RenameInPlace", 1, "pipelines", "must be a non-empty collection")
	}

	for _, oldName := range pipelines.Names() {
		p := pipelines[oldName]
		delete(pipelines, oldName)
		pipelines[oldName+"_"+identifier] = p
	}
	return nil
}

// Renamed is RenameInPlace on a shallow copy: pipelines itself is left
// untouched and the returned collection shares its pipeline values.
func Renamed(pipelines Collection, identifier string) (Collection, error) {
	if len(pipelines) == 0 {
		return nil, errors.NewInvalidArgumentError("Renamed", 1, "pipelines", "must be a non-empty collection")
	}

	out := make(Collection, len(pipelines))
	for name, p := range pipelines {
		out[name] = p
	}
	if err := RenameInPlace(out, identifier); err != nil {
		return nil, err
	}
	return out, nil
}

// PrependSteps returns a new collection holding a clone of every pipeline
// with steps inserted at its front in their given order. Step estimators are
// cloned for each pipeline so the returned pipelines never share a step.
// The input collection and its pipelines are not modified.
//
// Both steps and pipelines must be non-empty and no pipeline may be nil.
// A prepended step whose name is already used in a pipeline is a
// ValidationError. Clone failures are returned as
// they are; on any failure no collection is returned.
func PrependSteps(steps []Step, pipelines Collection, opts ...Option) (Collection, error) {
	if len(steps) == 0 {
		return nil, errors.NewInvalidArgumentError("PrependSteps", 1, "steps", "must be a non-empty list")
	}
	if len(pipelines) == 0 {
		return nil, errors.NewInvalidArgumentError("PrependSteps", 2, "pipelines", "must be a non-empty collection")
	}

	for _, name := range pipelines.Names() {
		if pipelines[name] == nil {
			return nil, errors.NewInvalidArgumentError("PrependSteps", 2, "pipelines",
				fmt.Sprintf("entry '%s' is nil", name))
		}
	}

	o := newOptions(opts)

	out := make(Collection, len(pipelines))
	for _, name := range pipelines.Names() {
		cloned, err := pipelines[name].Clone()
		if err != nil {
			o.logger.Error("Cloning pipeline failed", err,
				log.OperationKey, log.OperationPrependSteps,
				log.PipelineNameKey, name,
			)
			return nil, err
		}

		prefix := make([]Step, len(steps))
		for i, step := range steps {
			estimator, err := cloneEstimator(step)
			if err != nil {
				o.logger.Error("Cloning step failed", err,
					log.OperationKey, log.OperationPrependSteps,
					log.StepNameKey, step.Name,
				)
				return nil, err
			}
			prefix[i] = Step{Name: step.Name, Estimator: estimator}
		}

		if err := cloned.Prepend(prefix...); err != nil {
			return nil, err
		}
		out[name] = cloned
	}

	if o.identifier != "" {
		if err := RenameInPlace(out, o.identifier); err != nil {
			return nil, err
		}
	}

	o.logger.Debug("Prepended steps",
		log.OperationKey, log.OperationPrependSteps,
		log.PipelinesCountKey, len(out),
		log.StepsCountKey, len(steps),
		log.IdentifierKey, o.identifier,
	)
	return out, nil
}
