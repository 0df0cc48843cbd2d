package usecase

import (
	"errors"
	"fmt"

	"github.com/qpfl/league-core/internal/domain/roster"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrValidation            = errors.New("validation failed")
	ErrConflict              = errors.New("conflict")
	ErrNotFound              = errors.New("resource not found")
	ErrIntegrity             = errors.New("integrity violation")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Kind is the caller-facing error category.
type Kind string

const (
	KindNone         Kind = ""
	KindInvalidInput Kind = "invalid_input"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindIntegrity    Kind = "integrity"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrIntegrity):
		return KindIntegrity
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDependencyUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// ViolationError reports rule breaches as data alongside the error kind.
type ViolationError struct {
	Kind       error
	Violations roster.Violations
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Violations.Error())
}

func (e *ViolationError) Unwrap() error {
	return e.Kind
}

// violationErr picks integrity over validation when any violation is league-wide corruption.
func violationErr(vs roster.Violations) error {
	kind := ErrValidation
	for _, v := range vs {
		if v.IsIntegrity() {
			kind = ErrIntegrity
			break
		}
	}
	return &ViolationError{Kind: kind, Violations: vs}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
