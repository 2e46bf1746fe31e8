// Package errors provides error handling for tsclientgen.
//
// This package re-exports github.com/cockroachdb/errors, providing stack traces,
// wrapping with context, hints and details for users, and marker-based identity
// checks. It also defines the generator's fatal error taxonomy (see taxonomy.go).
//
// Usage:
//
//	if err := r.Resolve(name); err != nil {
//	    return errors.Wrapf(err, "rendering property %s", key)
//	}
//
//	if errors.IsUnresolvedReference(err) {
//	    // fix the IR
//	}
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
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	Mark           = crdb.Mark
)

// Assertions
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
	IsAssertionFailure               = crdb.IsAssertionFailure
)

// Sentinels for conditions outside the generation taxonomy.
var (
	// ErrNotFound indicates a requested file or declaration does not exist
	ErrNotFound = New("not found")

	// ErrInvalidConfig indicates the configuration failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrDrift indicates generated output differs from what is on disk
	ErrDrift = New("generated output is out of date")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsDrift checks if an error is or wraps ErrDrift.
func IsDrift(err error) bool {
	return err != nil && Is(err, ErrDrift)
}
