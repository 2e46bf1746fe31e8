// Package model emits the declaration file for a named type or error body.
package model

import (
	"fmt"
	"strings"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/reference"
	"github.com/teranos/tsclientgen/typegen/tsfile"
	"github.com/teranos/tsclientgen/typegen/union"
)

// Generator writes objects, aliases, enums and unions.
type Generator struct {
	refs   *reference.Resolver
	unions *union.Generator
}

// New returns a Generator.
func New(refs *reference.Resolver, unions *union.Generator) *Generator {
	return &Generator{refs: refs, unions: unions}
}

// Declare emits shape into file under symbol.
func (g *Generator) Declare(file *tsfile.File, symbol string, shape ir.Shape, docs string) error {
	switch s := shape.(type) {
	case ir.ObjectShape:
		return g.object(file, symbol, s, docs)
	case ir.AliasShape:
		return g.alias(file, symbol, s, docs)
	case ir.EnumShape:
		return g.enum(file, symbol, s, docs)
	case ir.UnionShape:
		variants := make([]union.Variant, len(s.Variants))
		for i, v := range s.Variants {
			variants[i] = union.Variant{DiscriminantValue: v.DiscriminantValue, Docs: v.Docs}
			if v.Payload != nil {
				variants[i].Payload = union.TypePayload(v.Payload)
			}
		}
		return g.unions.Generate(union.Args{
			File:         file,
			TypeName:     symbol,
			Docs:         docs,
			Discriminant: s.Discriminant,
			Variants:     variants,
		})
	}
	return errors.NewUnsupportedShape("shape", fmt.Sprintf("%T", shape))
}

func (g *Generator) object(file *tsfile.File, symbol string, s ir.ObjectShape, docs string) error {
	if err := file.Declare(symbol); err != nil {
		return err
	}

	var parents []string
	for _, ext := range s.Extends {
		text, err := g.refs.Render(ir.NamedType{Name: ext}, file, reference.NamedImport)
		if err != nil {
			return errors.Wrapf(err, "%s extends %s", symbol, ext.Key())
		}
		parents = append(parents, text)
	}

	type prop struct {
		key, text, docs string
		optional        bool
	}
	props := make([]prop, len(s.Properties))
	for i, p := range s.Properties {
		text, err := g.refs.Render(p.ValueType, file, reference.NamedImport)
		if err != nil {
			return errors.Wrapf(err, "%s.%s", symbol, p.Key)
		}
		_, optional := p.ValueType.(ir.OptionalType)
		props[i] = prop{key: naming.PropertyKey(p.Key), text: text, docs: p.Docs, optional: optional}
	}

	var w tsfile.Writer
	w.Docs(docs)
	header := "export interface " + symbol
	if len(parents) > 0 {
		header += " extends " + strings.Join(parents, ", ")
	}
	w.Block(header+" {", "}", func() {
		for _, p := range props {
			w.Docs(p.docs)
			if p.optional {
				w.Line("%s?: %s;", p.key, p.text)
			} else {
				w.Line("%s: %s;", p.key, p.text)
			}
		}
	})
	file.AddStatement(w.String())
	return nil
}

func (g *Generator) alias(file *tsfile.File, symbol string, s ir.AliasShape, docs string) error {
	if err := file.Declare(symbol); err != nil {
		return err
	}
	text, err := g.refs.Render(s.AliasOf, file, reference.NamedImport)
	if err != nil {
		return errors.Wrapf(err, "alias %s", symbol)
	}
	var w tsfile.Writer
	w.Docs(docs)
	w.Line("export type %s = %s;", symbol, text)
	file.AddStatement(w.String())
	return nil
}

func (g *Generator) enum(file *tsfile.File, symbol string, s ir.EnumShape, docs string) error {
	if err := file.Declare(symbol); err != nil {
		return err
	}

	var w tsfile.Writer
	w.Docs(docs)
	if len(s.Values) == 0 {
		w.Line("export type %s = never;", symbol)
	} else {
		literals := make([]string, len(s.Values))
		for i, v := range s.Values {
			literals[i] = naming.StringLiteral(v.Value)
		}
		w.Line("export type %s = %s;", symbol, strings.Join(literals, " | "))
	}
	w.Line("")
	w.Block("export const "+symbol+" = {", "} as const;", func() {
		for _, v := range s.Values {
			w.Docs(v.Docs)
			w.Line("%s: %s,", naming.PropertyKey(v.Value), naming.StringLiteral(v.Value))
		}
	})
	file.AddStatement(w.String())
	return nil
}
