package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("bad range"), "use a semver range like ^1.2.0")
	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "use a semver range like ^1.2.0", hints[0])
}

func TestSentinels(t *testing.T) {
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "ir file")))
	assert.False(t, IsNotFoundError(nil))
	assert.True(t, IsDrift(Wrapf(ErrDrift, "%d files", 3)))
	assert.False(t, IsDrift(New("other")))
}

func TestUnresolvedReference(t *testing.T) {
	err := NewUnresolvedReference("type", "geometry/Point")
	wrapped := Wrap(err, "rendering Shape")

	assert.True(t, IsUnresolvedReference(wrapped))
	assert.False(t, IsCyclicAlias(wrapped))

	var target *UnresolvedReferenceError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "type", target.Kind)
	assert.Equal(t, "geometry/Point", target.Name)
	assert.Contains(t, wrapped.Error(), "unresolved type reference: geometry/Point")
	assert.NotEmpty(t, GetAllHints(wrapped))
}

func TestCyclicAlias(t *testing.T) {
	chain := []string{"A", "B", "A"}
	err := NewCyclicAlias(chain)
	chain[0] = "mutated"

	var target *CyclicAliasError
	require.True(t, As(err, &target))
	assert.Equal(t, []string{"A", "B", "A"}, target.Chain)
	assert.Equal(t, "cyclic alias chain: A -> B -> A", target.Error())
	assert.True(t, IsCyclicAlias(Wrap(err, "context")))
}

func TestUnsupportedShape(t *testing.T) {
	err := NewUnsupportedShape("type reference", "tuple")
	assert.True(t, IsUnsupportedShape(err))
	assert.Equal(t, `unsupported type reference "tuple"`, err.Error())
}

func TestInvariantViolation(t *testing.T) {
	err := NewInvariantViolation("operation %s has no request wrapper", "subscribe")
	assert.True(t, IsInvariantViolation(err))
	assert.True(t, IsAssertionFailure(err))
	assert.Contains(t, err.Error(), "operation subscribe has no request wrapper")
	assert.False(t, IsInvariantViolation(New("plain")))
}

func TestTaxonomyStackTrace(t *testing.T) {
	err := NewUnresolvedReference("error", "NotFound")
	formatted := fmt.Sprintf("%+v", err)
	assert.Contains(t, formatted, "NewUnresolvedReference")
}
