// Package errors provides error handling for type-transform.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints attached to infrastructure failures
//
// Diagnostics about the TypeScript input (lex, parse, resolution, emission)
// are not errors in this sense; they live in package diag and travel inside a
// transform result. This package covers everything else: unreadable files,
// unknown targets, unwritable outputs, broken configuration.
//
// Usage:
//
//	// Wrap with context
//	if err := os.WriteFile(path, data, 0o644); err != nil {
//	    return errors.Wrapf(err, "failed to write %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "use an output path ending in .swift or .kt")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Assertions and panics
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is().
var (
	// ErrUnknownTarget indicates no emitter matches the requested language or output extension
	ErrUnknownTarget = New("unknown target language")

	// ErrFatalDiagnostics indicates the input produced lex or parse errors and no output was written
	ErrFatalDiagnostics = New("transform failed")

	// ErrStale indicates an existing output file does not match freshly generated output
	ErrStale = New("generated output is out of date")

	// ErrVersionMismatch indicates the binary does not satisfy a configured version constraint
	ErrVersionMismatch = New("version constraint not satisfied")

	// ErrInvalidConfig indicates a configuration value is malformed
	ErrInvalidConfig = New("invalid configuration")
)

// IsUnknownTargetError checks if an error is or wraps ErrUnknownTarget
func IsUnknownTargetError(err error) bool {
	return err != nil && Is(err, ErrUnknownTarget)
}

// IsStaleError checks if an error is or wraps ErrStale
func IsStaleError(err error) bool {
	return err != nil && Is(err, ErrStale)
}

// NewUnknownTargetError creates an unknown-target error with a formatted message
func NewUnknownTargetError(format string, args ...interface{}) error {
	return Wrap(ErrUnknownTarget, Newf(format, args...).Error())
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
