package tsfile

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// moduleImport is everything one file imports from a single module specifier.
type moduleImport struct {
	namespace string
	// symbol -> local name
	named *orderedmap.OrderedMap[string, string]
}

// ImportsManager collects a file's imports keyed by module specifier, then by
// symbol, in first-registration order.
type ImportsManager struct {
	modules *orderedmap.OrderedMap[string, *moduleImport]
}

func newImportsManager() *ImportsManager {
	return &ImportsManager{modules: orderedmap.New[string, *moduleImport]()}
}

func (m *ImportsManager) module(specifier string) *moduleImport {
	mod, ok := m.modules.Get(specifier)
	if !ok {
		mod = &moduleImport{named: orderedmap.New[string, string]()}
		m.modules.Set(specifier, mod)
	}
	return mod
}

// named returns the local name already bound to symbol from specifier.
func (m *ImportsManager) named(specifier, symbol string) (string, bool) {
	mod, ok := m.modules.Get(specifier)
	if !ok {
		return "", false
	}
	return mod.named.Get(symbol)
}

func (m *ImportsManager) namespace(specifier string) (string, bool) {
	mod, ok := m.modules.Get(specifier)
	if !ok || mod.namespace == "" {
		return "", false
	}
	return mod.namespace, true
}

func (m *ImportsManager) addNamed(specifier, symbol, local string) {
	m.module(specifier).named.Set(symbol, local)
}

func (m *ImportsManager) addNamespace(specifier, alias string) {
	m.module(specifier).namespace = alias
}

// Len returns the number of import statements Render would emit.
func (m *ImportsManager) Len() int {
	n := 0
	for pair := m.modules.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.namespace != "" {
			n++
		}
		if pair.Value.named.Len() > 0 {
			n++
		}
	}
	return n
}

// Specifiers returns the imported module specifiers in registration order.
func (m *ImportsManager) Specifiers() []string {
	out := make([]string, 0, m.modules.Len())
	for pair := m.modules.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Render emits one import statement per (specifier, kind).
func (m *ImportsManager) Render() string {
	var b strings.Builder
	for pair := m.modules.Oldest(); pair != nil; pair = pair.Next() {
		spec, mod := pair.Key, pair.Value
		if mod.namespace != "" {
			b.WriteString("import * as " + mod.namespace + " from \"" + spec + "\";\n")
		}
		if mod.named.Len() == 0 {
			continue
		}
		var names []string
		for n := mod.named.Oldest(); n != nil; n = n.Next() {
			if n.Key == n.Value {
				names = append(names, n.Key)
			} else {
				names = append(names, n.Key+" as "+n.Value)
			}
		}
		b.WriteString("import { " + strings.Join(names, ", ") + " } from \"" + spec + "\";\n")
	}
	return b.String()
}
