package errors

import (
	"fmt"
	"strings"
)

// Fatal generation errors. None of these are retried: they mean either the IR
// or the generator must be fixed.
var (
	// ErrUnresolvedReference marks a named type, error or service reference
	// that has no declaration in the IR.
	ErrUnresolvedReference = New("unresolved reference")

	// ErrCyclicAlias marks an alias chain that never reaches a non-alias shape.
	ErrCyclicAlias = New("cyclic alias")

	// ErrInvariantViolation marks a broken internal contract.
	ErrInvariantViolation = New("invariant violation")

	// ErrUnsupportedShape marks an IR variant with no rendering rule.
	ErrUnsupportedShape = New("unsupported shape")
)

// UnresolvedReferenceError names the reference that failed to resolve.
type UnresolvedReferenceError struct {
	Kind string // "type", "error" or "service"
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s reference: %s", e.Kind, e.Name)
}

func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// CyclicAliasError carries the alias chain in visit order; the last element
// repeats an earlier one.
type CyclicAliasError struct {
	Chain []string
}

func (e *CyclicAliasError) Error() string {
	return "cyclic alias chain: " + strings.Join(e.Chain, " -> ")
}

func (e *CyclicAliasError) Is(target error) bool {
	return target == ErrCyclicAlias
}

// UnsupportedShapeError reports a discriminator value the generator cannot render.
type UnsupportedShapeError struct {
	Context string // e.g. "type reference", "shape"
	Type    string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Context, e.Type)
}

func (e *UnsupportedShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

// NewUnresolvedReference returns an UnresolvedReferenceError with a stack trace.
func NewUnresolvedReference(kind, name string) error {
	return WithHint(
		WithStack(&UnresolvedReferenceError{Kind: kind, Name: name}),
		"every named reference must have a declaration in the IR",
	)
}

// NewCyclicAlias returns a CyclicAliasError with a stack trace.
func NewCyclicAlias(chain []string) error {
	return WithStack(&CyclicAliasError{Chain: append([]string(nil), chain...)})
}

// NewUnsupportedShape returns an UnsupportedShapeError with a stack trace.
func NewUnsupportedShape(context, typ string) error {
	return WithStack(&UnsupportedShapeError{Context: context, Type: typ})
}

// NewInvariantViolation reports a broken internal contract as an assertion
// failure marked with ErrInvariantViolation.
func NewInvariantViolation(format string, args ...interface{}) error {
	return Mark(AssertionFailedf(format, args...), ErrInvariantViolation)
}

// IsUnresolvedReference checks if an error is or wraps an unresolved reference.
func IsUnresolvedReference(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvedReferenceError
	return As(err, &e) || Is(err, ErrUnresolvedReference)
}

// IsCyclicAlias checks if an error is or wraps a cyclic alias chain.
func IsCyclicAlias(err error) bool {
	if err == nil {
		return false
	}
	var e *CyclicAliasError
	return As(err, &e) || Is(err, ErrCyclicAlias)
}

// IsInvariantViolation checks if an error is or wraps an invariant violation.
func IsInvariantViolation(err error) bool {
	return err != nil && Is(err, ErrInvariantViolation)
}

// IsUnsupportedShape checks if an error is or wraps an unsupported shape.
func IsUnsupportedShape(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedShapeError
	return As(err, &e) || Is(err, ErrUnsupportedShape)
}
