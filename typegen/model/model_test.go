package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/typegen/layout"
	"github.com/teranos/tsclientgen/typegen/reference"
	"github.com/teranos/tsclientgen/typegen/resolver"
	"github.com/teranos/tsclientgen/typegen/tsfile"
	"github.com/teranos/tsclientgen/typegen/union"
)

func setup() (*Generator, *tsfile.Project) {
	api := &ir.IntermediateRepresentation{
		Types: []ir.TypeDeclaration{
			{Name: ir.DeclaredName{FernFilepath: []string{"geometry"}, Name: "Point"}, Shape: ir.ObjectShape{}},
			{Name: ir.DeclaredName{FernFilepath: []string{"geometry"}, Name: "Named"}, Shape: ir.ObjectShape{}},
			{Name: ir.DeclaredName{Name: "Id"}, Shape: ir.AliasShape{AliasOf: ir.Prim(ir.String)}},
		},
	}
	refs := reference.New(resolver.New(api))
	return New(refs, union.New(refs)), tsfile.NewProject()
}

func body(f *tsfile.File) string {
	prefix := tsfile.Header
	if imports := f.Imports().Render(); imports != "" {
		prefix += "\n" + imports
	}
	return strings.TrimPrefix(f.Content(), prefix+"\n")
}

func TestObject(t *testing.T) {
	g, p := setup()
	name := ir.DeclaredName{FernFilepath: []string{"geometry"}, Name: "Point"}
	f, _ := p.File(layout.TypeFile(name))

	require.NoError(t, g.Declare(f, "Point", ir.ObjectShape{
		Properties: []ir.ObjectProperty{
			{Key: "x", ValueType: ir.Prim(ir.Double), Docs: "Horizontal."},
			{Key: "y", ValueType: ir.Prim(ir.Double)},
		},
	}, "A point in the plane."))

	want := `/** A point in the plane. */
export interface Point {
    /** Horizontal. */
    x: number;
    y: number;
}
`
	assert.Equal(t, want, body(f))
	assert.Equal(t, 0, f.Imports().Len())
	assert.Equal(t, []string{"Point"}, f.Exports())
}

func TestObjectExtendsAndOptional(t *testing.T) {
	g, p := setup()
	f, _ := p.File("api/resources/geometry/types/Labeled.ts")

	require.NoError(t, g.Declare(f, "Labeled", ir.ObjectShape{
		Extends: []ir.DeclaredName{{FernFilepath: []string{"geometry"}, Name: "Point"}, {FernFilepath: []string{"geometry"}, Name: "Named"}},
		Properties: []ir.ObjectProperty{
			{Key: "id", ValueType: ir.Named("Id")},
			{Key: "x-note", ValueType: ir.Optional(ir.Prim(ir.String))},
		},
	}, ""))

	want := `export interface Labeled extends Point, Named {
    id: Id;
    "x-note"?: string | null | undefined;
}
`
	assert.Equal(t, want, body(f))
	assert.Equal(t,
		"import { Point } from \"./Point\";\nimport { Named } from \"./Named\";\nimport { Id } from \"../../../types/Id\";\n",
		f.Imports().Render())
}

func TestAlias(t *testing.T) {
	g, p := setup()
	f, _ := p.File("api/types/Ids.ts")
	require.NoError(t, g.Declare(f, "Ids", ir.AliasShape{AliasOf: ir.SetType{Item: ir.Named("Id")}}, ""))
	assert.Equal(t, "export type Ids = Id[];\n", body(f))
}

func TestEnum(t *testing.T) {
	g, p := setup()
	f, _ := p.File("api/types/Status.ts")
	require.NoError(t, g.Declare(f, "Status", ir.EnumShape{Values: []ir.EnumValue{
		{Value: "ACTIVE", Docs: "In use."},
		{Value: "in-review"},
	}}, ""))

	want := `export type Status = "ACTIVE" | "in-review";

export const Status = {
    /** In use. */
    ACTIVE: "ACTIVE",
    "in-review": "in-review",
} as const;
`
	assert.Equal(t, want, body(f))
}

func TestEmptyEnum(t *testing.T) {
	g, p := setup()
	f, _ := p.File("api/types/Nothing.ts")
	require.NoError(t, g.Declare(f, "Nothing", ir.EnumShape{}, ""))
	assert.Equal(t, "export type Nothing = never;\n\nexport const Nothing = {\n} as const;\n", body(f))
}

func TestUnionDelegates(t *testing.T) {
	g, p := setup()
	f, _ := p.File("api/types/Result.ts")
	require.NoError(t, g.Declare(f, "Result", ir.UnionShape{
		Discriminant: "type",
		Variants: []ir.SingleUnionVariant{
			{DiscriminantValue: "ok", Payload: ir.Named("Id")},
			{DiscriminantValue: "none"},
		},
	}, ""))
	out := body(f)
	assert.Contains(t, out, "export type Result = Result.Ok | Result.None;")
	assert.Contains(t, out, "return visitor.ok(value.ok);")
	assert.Contains(t, out, "return visitor.none();")
}

func TestDeclareErrors(t *testing.T) {
	g, p := setup()

	f, _ := p.File("api/types/A.ts")
	err := g.Declare(f, "A", ir.AliasShape{AliasOf: ir.Named("Ghost")}, "")
	assert.True(t, errors.IsUnresolvedReference(err))

	f, _ = p.File("api/types/B.ts")
	err = g.Declare(f, "B", nil, "")
	assert.True(t, errors.IsUnsupportedShape(err))

	f, _ = p.File("api/types/C.ts")
	require.NoError(t, g.Declare(f, "C", ir.AliasShape{AliasOf: ir.UnknownType{}}, ""))
	assert.True(t, errors.IsInvariantViolation(g.Declare(f, "C", ir.AliasShape{AliasOf: ir.UnknownType{}}, "")))
}
