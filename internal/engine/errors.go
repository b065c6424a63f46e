package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches any *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidFilter marks malformed analyst input.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ConfigurationError is fatal to the computation that raised it. It signals a
// broken dataset or constant set, never a missing scenario.
type ConfigurationError struct {
	Op     string
	Reason string
}

func NewConfigurationError(op, reason string) *ConfigurationError {
	return &ConfigurationError{Op: op, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
