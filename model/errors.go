package model

import "fmt"

// ConfigError reports invalid construction parameters.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("invalid config: %s=%v %s", e.Field, e.Value, e.Reason)
}

// ShapeError reports an input whose shape a forward pass cannot handle.
type ShapeError struct {
	Op     string
	Shape  []int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: invalid shape %v: %s", e.Op, e.Shape, e.Reason)
}

// RangeError reports a token id outside of the vocabulary.
type RangeError struct {
	ID    int32
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("token id %d out of range [0, %d)", e.ID, e.Limit)
}
