package model

import (
	"github.com/YuminosukeSato/pipekit/pkg/errors"
)

// ParamFloat converts a hyperparameter value to float64.
// Integer values are accepted since YAML and JSON decoders produce them for
// whole numbers.
func ParamFloat(name string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.NewValidationError(name, "must be a number", value)
	}
}

// ParamInt converts a hyperparameter value to int. Floats must be whole.
func ParamInt(name string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.NewValidationError(name, "must be an integer", value)
		}
		return int(v), nil
	default:
		return 0, errors.NewValidationError(name, "must be an integer", value)
	}
}

// ParamBool converts a hyperparameter value to bool.
func ParamBool(name string, value interface{}) (bool, error) {
	b, ok := value.(bool)
	if !ok {
		return false, errors.NewValidationError(name, "must be a boolean", value)
	}
	return b, nil
}

// ParamString converts a hyperparameter value to string.
func ParamString(name string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", errors.NewValidationError(name, "must be a string", value)
	}
	return s, nil
}

// ParamFloatPair converts a two-element sequence to [2]float64.
func ParamFloatPair(name string, value interface{}) ([2]float64, error) {
	var out [2]float64
	var items []interface{}
	switch v := value.(type) {
	case [2]float64:
		return v, nil
	case []float64:
		for _, f := range v {
			items = append(items, f)
		}
	case []interface{}:
		items = v
	default:
		return out, errors.NewValidationError(name, "must be a pair of numbers", value)
	}
	if len(items) != 2 {
		return out, errors.NewValidationError(name, "must be a pair of numbers", value)
	}
	for i, item := range items {
		f, err := ParamFloat(name, item)
		if err != nil {
			return out, err
		}
		out[i] = f
	}
	return out, nil
}
