package model

import "fmt"

// The pipeline raises four error kinds at stage boundaries. None of them is
// ever downgraded to a default value: a stage that detects bad input fails
// immediately and the orchestrating caller decides what to present.

// ValidationError reports malformed input, typically a duplicated
// (entity, date) key.
type ValidationError struct {
	Key string
	Msg string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("validation: %s (key %s)", e.Msg, e.Key)
	}
	return "validation: " + e.Msg
}

// ConfigError reports an invalid stage parameter such as a non-positive
// productivity ratio or lag offset.
type ConfigError struct {
	Param string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Param, e.Msg)
}

// InsufficientDataError reports too few periods for the requested split, lag
// or window.
type InsufficientDataError struct {
	Need int
	Have int
	Msg  string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s (need %d, have %d)", e.Msg, e.Need, e.Have)
}

// ModelFitError reports that a forecaster could not be trained, e.g. a
// degenerate training set or a solver failure.
type ModelFitError struct {
	Model string
	Msg   string
	Err   error
}

func (e *ModelFitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model fit: %s: %s: %v", e.Model, e.Msg, e.Err)
	}
	return fmt.Sprintf("model fit: %s: %s", e.Model, e.Msg)
}

func (e *ModelFitError) Unwrap() error { return e.Err }
