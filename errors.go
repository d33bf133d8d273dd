package einstein

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is returned when an input lies outside the domain of a formula.
	ErrDomain = errors.New("domain error")
	// ErrIntegration is returned when the two-body integration cannot complete.
	ErrIntegration = errors.New("integration failed")
	// ErrConfig is returned for unusable scenario configuration.
	ErrConfig = errors.New("invalid configuration")
)

// DomainError describes which quantity was out of its domain.
type DomainError struct {
	Quantity string
	Value    float64
	Reason   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrDomain, e.Quantity, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrDomain).
func (e *DomainError) Unwrap() error {
	return ErrDomain
}

func integrationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIntegration, fmt.Sprintf(format, args...))
}

func configErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
