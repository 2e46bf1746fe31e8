// Package dependencies tracks the third-party packages emitted code imports.
package dependencies

import (
	"github.com/Masterminds/semver/v3"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/tsclientgen/errors"
)

// Dependency is one npm package required by the generated client.
type Dependency struct {
	Name         string
	VersionRange string
	// PreferPeer asks packaging to declare the dependency as a peer so the
	// consumer's copy is shared.
	PreferPeer bool
}

// Options adjust how a dependency is resolved.
type Options struct {
	PreferPeer bool
}

// Well-known runtime dependencies of emitted code.
var (
	UUID      = Dependency{Name: "uuid", VersionRange: "^9.0.0"}
	UUIDTypes = Dependency{Name: "@types/uuid", VersionRange: "^9.0.0"}
)

// Manager deduplicates dependencies by name for one run.
type Manager struct {
	deps *orderedmap.OrderedMap[string, *Dependency]
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{deps: orderedmap.New[string, *Dependency]()}
}

// AddDependency registers name at versionRange. Re-registering keeps the first
// range; PreferPeer can be turned on by a later call but never off.
func (m *Manager) AddDependency(name, versionRange string, opts Options) error {
	if name == "" {
		return errors.NewInvariantViolation("dependency with empty name")
	}
	if _, err := semver.NewConstraint(versionRange); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "invalid version range %q for %s", versionRange, name),
			"use a semver range such as ^1.2.0",
		)
	}

	if existing, ok := m.deps.Get(name); ok {
		if opts.PreferPeer {
			existing.PreferPeer = true
		}
		return nil
	}
	m.deps.Set(name, &Dependency{Name: name, VersionRange: versionRange, PreferPeer: opts.PreferPeer})
	return nil
}

// Add registers a predefined dependency.
func (m *Manager) Add(dep Dependency) error {
	return m.AddDependency(dep.Name, dep.VersionRange, Options{PreferPeer: dep.PreferPeer})
}

// Dependencies returns the registered dependencies in first-registration order.
func (m *Manager) Dependencies() []Dependency {
	out := make([]Dependency, 0, m.deps.Len())
	for pair := m.deps.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out
}

// Get returns the dependency registered under name.
func (m *Manager) Get(name string) (Dependency, bool) {
	d, ok := m.deps.Get(name)
	if !ok {
		return Dependency{}, false
	}
	return *d, true
}
