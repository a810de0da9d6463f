// Package errs defines the errors returned by fieldset packages.
//
// Simple failures are reported with the exported sentinel values and may be
// wrapped with additional context. Failures that carry details a caller needs to
// fix the call (field names, candidate sources, missing dependencies) are
// reported with the error types below, all of which unwrap to their sentinel so
// errors.Is works uniformly.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Field registry and resolution errors.
var (
	ErrUnknownField        = errors.New("unknown field")
	ErrAmbiguousField      = errors.New("ambiguous field")
	ErrMissingDependencies = errors.New("missing dependencies")
	ErrDuplicateField      = errors.New("field already registered")
	ErrDuplicateSource     = errors.New("source already registered")
	ErrHashCollision       = errors.New("field identity hash collision")
	ErrDependencyCycle     = errors.New("dependency cycle")
	ErrInvalidFieldName    = errors.New("invalid field name")
)

// Value container errors.
var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrTimeOutOfRange    = errors.New("time out of range")
	ErrLengthMismatch    = errors.New("length mismatch")
	ErrInvalidTimeline   = errors.New("invalid timeline")
	ErrNotNumeric        = errors.New("container is not numeric")
	ErrNoValidSamples    = errors.New("no valid samples")
	ErrInvalidWindow     = errors.New("invalid window length")
	ErrKindMismatch      = errors.New("container kind mismatch")
	ErrIncompatibleUnits = errors.New("incompatible units")
	ErrUnknownUnit       = errors.New("unknown unit")
	ErrInvalidDate       = errors.New("invalid date")
)

// Source errors.
var (
	ErrNoTimeColumn          = errors.New("no time column")
	ErrUnsupportedColumnType = errors.New("unsupported column type")
)

// Alignment and export errors.
var (
	ErrTimeAlignmentMismatch = errors.New("time alignment mismatch")
	ErrDestinationExists     = errors.New("destination already exists")
	ErrNoFields              = errors.New("no fields given")
	ErrUnsupportedFormat     = errors.New("unsupported export format")
)

// UnknownFieldError reports a field reference that does not resolve to any
// registered entry.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownField, e.Field)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// AmbiguousFieldError reports a bare field name that is registered under more
// than one source type.
type AmbiguousFieldError struct {
	Name    string
	Sources []string
}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf("%s: %q exists in sources [%s], qualify it with a source",
		ErrAmbiguousField, e.Name, strings.Join(e.Sources, ", "))
}

func (e *AmbiguousFieldError) Unwrap() error { return ErrAmbiguousField }

// MissingDependenciesError reports every dependency of a derived field that is
// absent from the registry at registration time.
type MissingDependenciesError struct {
	Field   string
	Missing []string
}

func (e *MissingDependenciesError) Error() string {
	return fmt.Sprintf("%s for %q: [%s]", ErrMissingDependencies, e.Field, strings.Join(e.Missing, ", "))
}

func (e *MissingDependenciesError) Unwrap() error { return ErrMissingDependencies }

// TimeAlignmentError reports fields whose timestamp arrays differ where an
// operation requires them to be identical.
type TimeAlignmentError struct {
	Reference  string
	Mismatched []string
}

func (e *TimeAlignmentError) Error() string {
	return fmt.Sprintf("%s: [%s] not aligned with %q",
		ErrTimeAlignmentMismatch, strings.Join(e.Mismatched, ", "), e.Reference)
}

func (e *TimeAlignmentError) Unwrap() error { return ErrTimeAlignmentMismatch }

// DestinationExistsError reports an export target that already exists while
// overwrite was not requested.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDestinationExists, e.Path)
}

func (e *DestinationExistsError) Unwrap() error { return ErrDestinationExists }
