// Package resolver answers questions about declarations anywhere in the IR:
// what shape a named type has, and whether a shape can be spread into a
// containing object.
package resolver

import (
	"fmt"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
)

// Resolver indexes one IR. It never mutates the IR and memoizes
// extendability per declared type for the lifetime of a run.
type Resolver struct {
	types    map[string]ir.TypeDeclaration
	errors   map[string]ir.ErrorDeclaration
	services map[string]ir.HTTPService
	channels map[string]ir.WebSocketChannel

	extendable map[string]bool
}

// New indexes api by fully qualified name.
func New(api *ir.IntermediateRepresentation) *Resolver {
	r := &Resolver{
		types:      make(map[string]ir.TypeDeclaration, len(api.Types)),
		errors:     make(map[string]ir.ErrorDeclaration, len(api.Errors)),
		services:   make(map[string]ir.HTTPService, len(api.Services.HTTP)),
		channels:   make(map[string]ir.WebSocketChannel, len(api.Services.WebSocket)),
		extendable: make(map[string]bool),
	}
	for _, t := range api.Types {
		r.types[t.Name.Key()] = t
	}
	for _, e := range api.Errors {
		r.errors[e.Name.Key()] = e
	}
	for _, s := range api.Services.HTTP {
		r.services[s.Name.Key()] = s
	}
	for _, c := range api.Services.WebSocket {
		r.channels[c.Name.Key()] = c
	}
	return r
}

// ResolveTypeName returns the shape declared at name.
func (r *Resolver) ResolveTypeName(name ir.DeclaredName) (ir.Shape, error) {
	decl, ok := r.types[name.Key()]
	if !ok {
		return nil, errors.NewUnresolvedReference("type", name.Key())
	}
	return decl.Shape, nil
}

// ResolveError returns the error declared at name.
func (r *Resolver) ResolveError(name ir.DeclaredName) (ir.ErrorDeclaration, error) {
	decl, ok := r.errors[name.Key()]
	if !ok {
		return ir.ErrorDeclaration{}, errors.NewUnresolvedReference("error", name.Key())
	}
	return decl, nil
}

// ResolveService returns the HTTP service or WebSocket channel declared at
// name. Exactly one of the results is non-nil on success.
func (r *Resolver) ResolveService(name ir.DeclaredName) (*ir.HTTPService, *ir.WebSocketChannel, error) {
	if s, ok := r.services[name.Key()]; ok {
		return &s, nil, nil
	}
	if c, ok := r.channels[name.Key()]; ok {
		return nil, &c, nil
	}
	return nil, nil, errors.NewUnresolvedReference("service", name.Key())
}

// ResolveAlias follows ref through alias declarations and returns the first
// reference that is not a named alias. Named references to objects, unions
// and enums are returned unchanged.
func (r *Resolver) ResolveAlias(ref ir.TypeReference) (ir.TypeReference, error) {
	var chain []string
	seen := make(map[string]bool)
	for {
		named, ok := ref.(ir.NamedType)
		if !ok {
			return ref, nil
		}
		key := named.Name.Key()
		chain = append(chain, key)
		if seen[key] {
			return nil, errors.NewCyclicAlias(chain)
		}
		seen[key] = true

		shape, err := r.ResolveTypeName(named.Name)
		if err != nil {
			return nil, err
		}
		alias, ok := shape.(ir.AliasShape)
		if !ok {
			return ref, nil
		}
		ref = alias.AliasOf
	}
}

// IsVoid reports whether ref is void after following aliases.
func (r *Resolver) IsVoid(ref ir.TypeReference) (bool, error) {
	if ref == nil {
		return true, nil
	}
	resolved, err := r.ResolveAlias(ref)
	if err != nil {
		return false, err
	}
	return ir.IsVoid(resolved), nil
}

// IsExtendable reports whether shape is an object or an alias that resolves
// to one.
func (r *Resolver) IsExtendable(shape ir.Shape) (bool, error) {
	switch s := shape.(type) {
	case ir.ObjectShape:
		return true, nil
	case ir.AliasShape:
		return r.IsReferenceExtendable(s.AliasOf)
	case ir.UnionShape, ir.EnumShape:
		return false, nil
	}
	return false, errors.NewUnsupportedShape("shape", typeName(shape))
}

// IsReferenceExtendable reports whether a value of type ref can be spread.
// Only named references can be; primitives and containers never are.
func (r *Resolver) IsReferenceExtendable(ref ir.TypeReference) (bool, error) {
	named, ok := ref.(ir.NamedType)
	if !ok {
		return false, nil
	}
	key := named.Name.Key()
	if v, ok := r.extendable[key]; ok {
		return v, nil
	}

	resolved, err := r.ResolveAlias(named)
	if err != nil {
		return false, err
	}
	v := false
	if target, ok := resolved.(ir.NamedType); ok {
		shape, err := r.ResolveTypeName(target.Name)
		if err != nil {
			return false, err
		}
		_, v = shape.(ir.ObjectShape)
	}
	r.extendable[key] = v
	return v, nil
}

func typeName(v interface{}) string {
	return fmt.Sprintf("%T", v)
}

// PropertyKeys returns the property keys of the object ref resolves to,
// inherited ones included, in declaration order. Non-object references have
// no keys.
func (r *Resolver) PropertyKeys(ref ir.TypeReference) ([]string, error) {
	var keys []string
	seen := make(map[string]bool)
	var walk func(ref ir.TypeReference) error
	walk = func(ref ir.TypeReference) error {
		resolved, err := r.ResolveAlias(ref)
		if err != nil {
			return err
		}
		named, ok := resolved.(ir.NamedType)
		if !ok || seen[named.Name.Key()] {
			return nil
		}
		seen[named.Name.Key()] = true
		shape, err := r.ResolveTypeName(named.Name)
		if err != nil {
			return err
		}
		obj, ok := shape.(ir.ObjectShape)
		if !ok {
			return nil
		}
		for _, parent := range obj.Extends {
			if err := walk(ir.NamedType{Name: parent}); err != nil {
				return err
			}
		}
		for _, p := range obj.Properties {
			keys = append(keys, p.Key)
		}
		return nil
	}
	if err := walk(ref); err != nil {
		return nil, err
	}
	return keys, nil
}
