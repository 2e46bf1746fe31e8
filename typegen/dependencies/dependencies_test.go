package dependencies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsclientgen/errors"
)

func TestAddDependencyDeduplicates(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddDependency("uuid", "^9.0.0", Options{}))
	require.NoError(t, m.AddDependency("uuid", "^8.0.0", Options{}))

	deps := m.Dependencies()
	require.Len(t, deps, 1)
	assert.Equal(t, Dependency{Name: "uuid", VersionRange: "^9.0.0"}, deps[0])
}

func TestPreferPeerUpgradesNeverDowngrades(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddDependency("ws", "^8.0.0", Options{}))
	require.NoError(t, m.AddDependency("ws", "^8.0.0", Options{PreferPeer: true}))
	require.NoError(t, m.AddDependency("ws", "^8.0.0", Options{}))

	dep, ok := m.Get("ws")
	require.True(t, ok)
	assert.True(t, dep.PreferPeer)
}

func TestOrderIsRegistrationOrder(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Add(UUIDTypes))
	require.NoError(t, m.Add(UUID))
	require.NoError(t, m.AddDependency("axios", ">=1.0.0 <2.0.0", Options{}))

	var names []string
	for _, d := range m.Dependencies() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"@types/uuid", "uuid", "axios"}, names)
}

func TestInvalidRange(t *testing.T) {
	m := NewManager()
	err := m.AddDependency("uuid", "not-a-range", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version range")
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Empty(t, m.Dependencies())

	assert.True(t, errors.IsInvariantViolation(m.AddDependency("", "^1.0.0", Options{})))
}

func TestDependenciesReturnsCopies(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Add(UUID))
	deps := m.Dependencies()
	deps[0].VersionRange = "mutated"

	dep, _ := m.Get("uuid")
	assert.Equal(t, "^9.0.0", dep.VersionRange)
}
