// Package tsfile stages generated TypeScript files: their imports, exported
// symbols and statements, and the project that owns them for one run.
package tsfile

import (
	"path"
	"strconv"
	"strings"

	"github.com/teranos/tsclientgen/errors"
)

const reservedOwner = "#reserved"

// Header is written at the top of every generated file.
const Header = "/* eslint-disable */\n// Code generated by tsclientgen. DO NOT EDIT.\n"

// File is one generated source file. Paths are slash separated and relative
// to the package root, e.g. "api/resources/geometry/types/Point.ts".
type File struct {
	path       string
	imports    *ImportsManager
	exports    []string
	statements []string

	// local name -> owner ("" for the file's own declarations)
	locals map[string]string
}

func newFile(p string) *File {
	return &File{
		path:    p,
		imports: newImportsManager(),
		locals:  make(map[string]string),
	}
}

// Path returns the file's path relative to the package root.
func (f *File) Path() string { return f.path }

// Module returns the path without its extension, the form used in specifiers.
func (f *File) Module() string { return strings.TrimSuffix(f.path, path.Ext(f.path)) }

// Imports exposes the file's import set.
func (f *File) Imports() *ImportsManager { return f.imports }

// Exports returns the symbols declared by this file in declaration order.
func (f *File) Exports() []string { return append([]string(nil), f.exports...) }

// Declare registers a symbol exported by this file. Declaring the same name
// twice is an invariant violation; so is declaring a name already taken by
// an import.
func (f *File) Declare(symbol string) error {
	if owner, ok := f.locals[symbol]; ok {
		if owner == "" {
			return errors.NewInvariantViolation("%s declares %s twice", f.path, symbol)
		}
		return errors.NewInvariantViolation("%s declares %s after importing it from %s", f.path, symbol, owner)
	}
	f.locals[symbol] = ""
	f.exports = append(f.exports, symbol)
	return nil
}

// Declares reports whether the file itself declares symbol.
func (f *File) Declares(symbol string) bool {
	owner, ok := f.locals[symbol]
	return ok && owner == ""
}

// Reserve keeps names out of the import namespace: later imports of these
// names are aliased. Used for identifiers a file declares in a nested scope.
func (f *File) Reserve(names ...string) {
	for _, n := range names {
		if _, ok := f.locals[n]; !ok {
			f.locals[n] = reservedOwner
		}
	}
}

// AddStatement appends top-level code. Statements are separated by a blank line.
func (f *File) AddStatement(code string) {
	f.statements = append(f.statements, strings.TrimRight(code, "\n"))
}

// ImportNamed binds symbol from the module at target (a module path without
// extension) and returns the local name to use. Repeated calls return the same
// name and add nothing.
func (f *File) ImportNamed(target, symbol string) string {
	spec := ModuleSpecifier(f.path, target)
	if local, ok := f.imports.named(spec, symbol); ok {
		return local
	}
	local := f.allocate(symbol, spec)
	f.imports.addNamed(spec, symbol, local)
	return local
}

// ImportNamespace binds the whole module at target under an alias derived
// from hint and returns it.
func (f *File) ImportNamespace(target, hint string) string {
	spec := ModuleSpecifier(f.path, target)
	if alias, ok := f.imports.namespace(spec); ok {
		return alias
	}
	alias := f.allocate(hint, spec)
	f.imports.addNamespace(spec, alias)
	return alias
}

// ImportPackage binds symbol from a third-party package, e.g. v4 from "uuid".
func (f *File) ImportPackage(pkg, symbol, preferredLocal string) string {
	if local, ok := f.imports.named(pkg, symbol); ok {
		return local
	}
	local := f.allocate(preferredLocal, pkg)
	f.imports.addNamed(pkg, symbol, local)
	return local
}

// allocate picks the first free local name among want, want_2, want_3...
func (f *File) allocate(want, owner string) string {
	candidate := want
	for i := 2; ; i++ {
		if _, taken := f.locals[candidate]; !taken {
			f.locals[candidate] = owner
			return candidate
		}
		candidate = want + "_" + strconv.Itoa(i)
	}
}

// Content renders the header, imports and statements.
func (f *File) Content() string {
	var b strings.Builder
	b.WriteString(Header)
	if imports := f.imports.Render(); imports != "" {
		b.WriteString("\n")
		b.WriteString(imports)
	}
	for _, stmt := range f.statements {
		b.WriteString("\n")
		b.WriteString(stmt)
		b.WriteString("\n")
	}
	return b.String()
}

// ModuleSpecifier returns the relative specifier for importing target (a
// module path without extension) from the file at from.
func ModuleSpecifier(from, target string) string {
	rel := relative(path.Dir(from), target)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return rel
	}
	return "./" + rel
}

// relative is path.Rel for clean slash paths that share the package root.
func relative(base, target string) string {
	baseParts := splitPath(base)
	targetParts := splitPath(target)

	i := 0
	for i < len(baseParts) && i < len(targetParts) && baseParts[i] == targetParts[i] {
		i++
	}
	var parts []string
	for range baseParts[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[i:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
