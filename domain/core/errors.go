package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Precondition violations (malformed arguments, caught at the boundary)
	ErrPrecondition = errors.New("precondition violated")

	// Statistical computation errors
	ErrInvalidAdjustmentSpec = errors.New("invalid adjustment spec")
	ErrSingularCovariance    = errors.New("covariance matrix not positive definite")
	ErrDataShape             = errors.New("malformed data shape")

	// Persistence errors
	ErrNotFound = errors.New("resource not found")
)

// Error constructors with context
func NewPreconditionError(argument string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrPrecondition, argument, reason)
}

func NewAdjustmentSpecError(covariate string) error {
	return fmt.Errorf("%w: covariate %q not present in historical data", ErrInvalidAdjustmentSpec, covariate)
}

func NewSingularCovarianceError(columns []string) error {
	return fmt.Errorf("%w: columns %v are collinear or under-determined", ErrSingularCovariance, columns)
}

func NewDataShapeError(column string, reason string) error {
	return fmt.Errorf("%w: column %q %s", ErrDataShape, column, reason)
}

// Error checking helpers
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

func IsAdjustmentSpecError(err error) bool {
	return errors.Is(err, ErrInvalidAdjustmentSpec)
}

func IsSingularCovarianceError(err error) bool {
	return errors.Is(err, ErrSingularCovariance)
}

func IsDataShapeError(err error) bool {
	return errors.Is(err, ErrDataShape)
}
