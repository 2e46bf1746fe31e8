// Package reference renders IR type references as TypeScript type text from
// the point of view of a particular file, registering whatever imports that
// text needs.
package reference

import (
	"fmt"
	"strings"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/layout"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/resolver"
	"github.com/teranos/tsclientgen/typegen/tsfile"
)

// ImportStrategy selects how a referenced declaration is brought into scope.
type ImportStrategy int

const (
	// NamedImport imports the single symbol: import { Point } from "./Point".
	NamedImport ImportStrategy = iota
	// NamespaceImport imports the declaring module: import * as point from "./Point".
	NamespaceImport
)

func (s ImportStrategy) String() string {
	if s == NamespaceImport {
		return "namespace"
	}
	return "named"
}

// Resolver renders references. It is stateless apart from the type resolver,
// so rendering the same reference from the same file is idempotent.
type Resolver struct {
	types *resolver.Resolver
}

// New returns a Resolver backed by types.
func New(types *resolver.Resolver) *Resolver {
	return &Resolver{types: types}
}

// Types exposes the underlying type resolver.
func (r *Resolver) Types() *resolver.Resolver { return r.types }

// Render returns the type text for ref as seen from the file from.
func (r *Resolver) Render(ref ir.TypeReference, from *tsfile.File, strategy ImportStrategy) (string, error) {
	switch t := ref.(type) {
	case ir.NamedType:
		if _, err := r.types.ResolveTypeName(t.Name); err != nil {
			return "", err
		}
		return Symbol(from, layout.Module(layout.TypeFile(t.Name)), layout.TypeSymbol(t.Name), strategy), nil
	case ir.PrimitiveType:
		switch t.Primitive {
		case ir.Boolean:
			return "boolean", nil
		case ir.Integer, ir.Long, ir.Double:
			return "number", nil
		case ir.String:
			return "string", nil
		}
		return "", errors.NewUnsupportedShape("primitive", string(t.Primitive))
	case ir.MapType:
		key, err := r.Render(t.Key, from, strategy)
		if err != nil {
			return "", err
		}
		value, err := r.Render(t.Value, from, strategy)
		if err != nil {
			return "", err
		}
		return "Record<" + key + ", " + value + ">", nil
	case ir.ListType:
		return r.renderArray(t.Item, from, strategy)
	case ir.SetType:
		return r.renderArray(t.Item, from, strategy)
	case ir.OptionalType:
		item, err := r.Render(t.Item, from, strategy)
		if err != nil {
			return "", err
		}
		return item + " | null | undefined", nil
	case ir.UnknownType:
		return "unknown", nil
	case ir.VoidType:
		return "Record<string, never>", nil
	case nil:
		return "", errors.NewInvariantViolation("nil type reference rendered from %s", from.Path())
	}
	return "", errors.NewUnsupportedShape("type reference", fmt.Sprintf("%T", ref))
}

func (r *Resolver) renderArray(item ir.TypeReference, from *tsfile.File, strategy ImportStrategy) (string, error) {
	text, err := r.Render(item, from, strategy)
	if err != nil {
		return "", err
	}
	if strings.Contains(text, " | ") {
		text = "(" + text + ")"
	}
	return text + "[]", nil
}

// RenderError returns the type text for a declared error's body. Errors are
// always named imports so response unions read as plain names.
func (r *Resolver) RenderError(name ir.DeclaredName, from *tsfile.File) (string, error) {
	if _, err := r.types.ResolveError(name); err != nil {
		return "", err
	}
	return Symbol(from, layout.Module(layout.ErrorFile(name)), layout.ErrorSymbolFor(name), NamedImport), nil
}

// Symbol references symbol exported by the module at target (a path without
// extension) from the file from. A file referencing its own declaration
// needs no import.
func Symbol(from *tsfile.File, target, symbol string, strategy ImportStrategy) string {
	if from.Module() == target && from.Declares(symbol) {
		return symbol
	}
	if strategy == NamespaceImport {
		alias := from.ImportNamespace(target, naming.MemberName(symbol))
		return alias + "." + symbol
	}
	return from.ImportNamed(target, symbol)
}
