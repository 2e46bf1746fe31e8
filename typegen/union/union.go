// Package union emits discriminated unions: the tagged union type, one
// interface per variant, a visitor contract, per-variant constructors, a
// dispatcher and the list of discriminant values.
//
// For a union Shape with discriminant "type" the output looks like
//
//	export type Shape = Shape.Circle | Shape.Label;
//
//	export declare namespace Shape {
//	    interface Circle extends Circle_2 { type: "circle"; }
//	    interface Label { type: "label"; label: string; }
//	    interface _Visitor<_Result> { ... }
//	}
//
//	export const Shape = { circle: ..., label: ..., _visit: ..., _types: ... } as const;
package union

import (
	"strconv"
	"strings"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/reference"
	"github.com/teranos/tsclientgen/typegen/tsfile"
)

// Payload is a variant's resolved value type as seen from the union's file.
type Payload struct {
	Type       string
	Extendable bool
}

// PayloadSource resolves a variant payload once the union's file is known.
// Returning a nil Payload means the variant carries only its tag.
type PayloadSource interface {
	Resolve(g *Generator, file *tsfile.File) (*Payload, error)
}

// Variant is one arm of the union.
type Variant struct {
	DiscriminantValue string
	Docs              string
	Payload           PayloadSource // nil for tag-only variants
}

// AdditionalProperty is injected into every variant regardless of payload.
type AdditionalProperty struct {
	Key       string
	ValueType ir.TypeReference
	// ValueConstructor returns the expression evaluated by each constructor
	// call, e.g. uuidv4(). It may register imports in file.
	ValueConstructor func(file *tsfile.File) (string, error)
}

// Args describe one union.
type Args struct {
	File                 *tsfile.File
	TypeName             string
	Docs                 string
	Discriminant         string
	Variants             []Variant
	AdditionalProperties []AdditionalProperty
}

// Generator emits unions, rendering payloads through refs.
type Generator struct {
	refs *reference.Resolver
}

// New returns a Generator.
func New(refs *reference.Resolver) *Generator {
	return &Generator{refs: refs}
}

// TypePayload resolves a payload declared as a type reference. Void payloads
// are tag-only.
func TypePayload(ref ir.TypeReference) PayloadSource {
	return typePayload{ref: ref}
}

type typePayload struct {
	ref ir.TypeReference
}

func (p typePayload) Resolve(g *Generator, file *tsfile.File) (*Payload, error) {
	void, err := g.refs.Types().IsVoid(p.ref)
	if err != nil || void {
		return nil, err
	}
	extendable, err := g.refs.Types().IsReferenceExtendable(p.ref)
	if err != nil {
		return nil, err
	}
	text, err := g.refs.Render(p.ref, file, reference.NamedImport)
	if err != nil {
		return nil, err
	}
	return &Payload{Type: text, Extendable: extendable}, nil
}

// ErrorPayload resolves a declared error's body. Errors whose shape is void
// are tag-only.
func ErrorPayload(name ir.DeclaredName) PayloadSource {
	return errorPayload{name: name}
}

type errorPayload struct {
	name ir.DeclaredName
}

func (p errorPayload) Resolve(g *Generator, file *tsfile.File) (*Payload, error) {
	decl, err := g.refs.Types().ResolveError(p.name)
	if err != nil {
		return nil, err
	}
	if alias, ok := decl.Shape.(ir.AliasShape); ok {
		void, err := g.refs.Types().IsVoid(alias.AliasOf)
		if err != nil || void {
			return nil, err
		}
	}
	extendable, err := g.refs.Types().IsExtendable(decl.Shape)
	if err != nil {
		return nil, err
	}
	text, err := g.refs.RenderError(p.name, file)
	if err != nil {
		return nil, err
	}
	return &Payload{Type: text, Extendable: extendable}, nil
}

type resolvedVariant struct {
	Variant
	payload       *Payload
	interfaceName string
	memberName    string
}

type resolvedProperty struct {
	key       string
	valueType string
	construct string
}

// Generate declares args.TypeName in args.File and emits the union.
func (g *Generator) Generate(args Args) error {
	file := args.File
	if err := file.Declare(args.TypeName); err != nil {
		return err
	}
	if args.Discriminant == "" {
		return errors.NewInvariantViolation("union %s has no discriminant", args.TypeName)
	}

	variants := make([]resolvedVariant, len(args.Variants))
	interfaces := map[string]bool{args.TypeName: true, "_Visitor": true}
	members := map[string]bool{"_visit": true, "_types": true}
	seen := make(map[string]bool, len(args.Variants))
	for i, v := range args.Variants {
		if seen[v.DiscriminantValue] {
			return errors.NewInvariantViolation("union %s repeats discriminant value %q", args.TypeName, v.DiscriminantValue)
		}
		seen[v.DiscriminantValue] = true
		variants[i] = resolvedVariant{
			Variant:       v,
			interfaceName: unique(naming.TypeName(v.DiscriminantValue), interfaces),
			memberName:    unique(naming.MemberName(v.DiscriminantValue), members),
		}
		// Imports must not shadow the namespace's interfaces.
		file.Reserve(variants[i].interfaceName)
	}

	for i, v := range variants {
		if v.Payload == nil {
			continue
		}
		payload, err := v.Payload.Resolve(g, file)
		if err != nil {
			return errors.Wrapf(err, "union %s variant %q", args.TypeName, v.DiscriminantValue)
		}
		variants[i].payload = payload
	}

	// An uninhabited union has no constructor to place the properties in.
	var props []resolvedProperty
	if len(variants) > 0 {
		props = make([]resolvedProperty, len(args.AdditionalProperties))
	}
	for i := range props {
		p := args.AdditionalProperties[i]
		valueType, err := g.refs.Render(p.ValueType, file, reference.NamedImport)
		if err != nil {
			return errors.Wrapf(err, "union %s property %s", args.TypeName, p.Key)
		}
		construct, err := p.ValueConstructor(file)
		if err != nil {
			return errors.Wrapf(err, "union %s property %s", args.TypeName, p.Key)
		}
		props[i] = resolvedProperty{key: p.Key, valueType: valueType, construct: construct}
	}

	u := unionWriter{args: args, variants: variants, props: props}
	file.AddStatement(u.typeAlias())
	file.AddStatement(u.namespace())
	file.AddStatement(u.utils())
	return nil
}

func unique(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + "_" + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

type unionWriter struct {
	args     Args
	variants []resolvedVariant
	props    []resolvedProperty
}

func (u unionWriter) qualified(v resolvedVariant) string {
	return u.args.TypeName + "." + v.interfaceName
}

func (u unionWriter) typeAlias() string {
	var w tsfile.Writer
	w.Docs(u.args.Docs)
	if len(u.variants) == 0 {
		w.Line("export type %s = never;", u.args.TypeName)
		return w.String()
	}
	members := make([]string, len(u.variants))
	for i, v := range u.variants {
		members[i] = u.qualified(v)
	}
	w.Line("export type %s = %s;", u.args.TypeName, strings.Join(members, " | "))
	return w.String()
}

func (u unionWriter) namespace() string {
	var w tsfile.Writer
	discriminant := naming.PropertyKey(u.args.Discriminant)
	w.Block("export declare namespace "+u.args.TypeName+" {", "}", func() {
		for _, v := range u.variants {
			w.Docs(v.Docs)
			header := "interface " + v.interfaceName
			if v.payload != nil && v.payload.Extendable {
				header += " extends " + v.payload.Type
			}
			w.Block(header+" {", "}", func() {
				w.Line("%s: %s;", discriminant, naming.StringLiteral(v.DiscriminantValue))
				if v.payload != nil && !v.payload.Extendable {
					w.Line("%s: %s;", naming.PropertyKey(v.DiscriminantValue), v.payload.Type)
				}
				for _, p := range u.props {
					w.Line("%s: %s;", naming.PropertyKey(p.key), p.valueType)
				}
			})
			w.Line("")
		}
		w.Block("interface _Visitor<_Result> {", "}", func() {
			for _, v := range u.variants {
				if v.payload == nil {
					w.Line("%s: () => _Result;", v.memberName)
				} else {
					w.Line("%s: (value: %s) => _Result;", v.memberName, v.payload.Type)
				}
			}
		})
	})
	return w.String()
}

func (u unionWriter) utils() string {
	var w tsfile.Writer
	name := u.args.TypeName
	w.Block("export const "+name+" = {", "} as const;", func() {
		for _, v := range u.variants {
			u.constructor(&w, v)
		}
		u.visit(&w)
		values := make([]string, len(u.variants))
		for i, v := range u.variants {
			values[i] = naming.StringLiteral(v.DiscriminantValue)
		}
		w.Line("_types: (): %s[%s][] => [%s],", name, naming.StringLiteral(u.args.Discriminant), strings.Join(values, ", "))
	})
	return w.String()
}

func (u unionWriter) constructor(w *tsfile.Writer, v resolvedVariant) {
	param := ""
	if v.payload != nil {
		param = "value: " + v.payload.Type
	}
	w.Block(v.memberName+": ("+param+"): "+u.qualified(v)+" => ({", "}),", func() {
		if v.payload != nil && v.payload.Extendable {
			w.Line("...value,")
		}
		w.Line("%s: %s,", naming.PropertyKey(u.args.Discriminant), naming.StringLiteral(v.DiscriminantValue))
		if v.payload != nil && !v.payload.Extendable {
			w.Line("%s: value,", naming.PropertyKey(v.DiscriminantValue))
		}
		for _, p := range u.props {
			w.Line("%s: %s,", naming.PropertyKey(p.key), p.construct)
		}
	})
}

func (u unionWriter) visit(w *tsfile.Writer) {
	name := u.args.TypeName
	signature := "_visit: <_Result>(value: " + name + ", visitor: " + name + "._Visitor<_Result>): _Result => {"
	w.Block(signature, "},", func() {
		if len(u.variants) == 0 {
			w.Line("const _unmatched: never = value;")
			w.Line("throw new Error(%s + JSON.stringify(_unmatched));", naming.StringLiteral("Unknown "+name+": "))
			return
		}
		w.Block("switch ("+naming.PropertyAccess("value", u.args.Discriminant)+") {", "}", func() {
			for _, v := range u.variants {
				w.Line("case %s:", naming.StringLiteral(v.DiscriminantValue))
				w.Indent(func() {
					switch {
					case v.payload == nil:
						w.Line("return visitor.%s();", v.memberName)
					case v.payload.Extendable:
						w.Line("return visitor.%s(value);", v.memberName)
					default:
						w.Line("return visitor.%s(%s);", v.memberName, naming.PropertyAccess("value", v.DiscriminantValue))
					}
				})
			}
			w.Block("default: {", "}", func() {
				w.Line("const _unmatched: never = value;")
				w.Line("throw new Error(%s + JSON.stringify((_unmatched as Record<string, unknown>)[%s]));",
					naming.StringLiteral("Unknown "+name+" "+u.args.Discriminant+": "),
					naming.StringLiteral(u.args.Discriminant))
			})
		})
	})
}
