package tsfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsclientgen/errors"
)

func TestModuleSpecifier(t *testing.T) {
	tests := []struct {
		from, target, want string
	}{
		{"api/types/Shape.ts", "api/types/Point", "./Point"},
		{"api/resources/a/types/A.ts", "api/resources/b/types/B", "../../b/types/B"},
		{"api/client/Service.ts", "api/service-types/Service/getUser", "../service-types/Service/getUser"},
		{"index.ts", "api", "./api"},
		{"api/types/index.ts", "api/types", "."},
		{"api/types/A.ts", "api", ".."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModuleSpecifier(tt.from, tt.target), "%s -> %s", tt.from, tt.target)
	}
}

func TestProjectFileIsLazyAndIdempotent(t *testing.T) {
	p := NewProject()
	f1, created := p.File("api/types/Point.ts")
	assert.True(t, created)
	f2, created := p.File("api/types/../types/Point.ts")
	assert.False(t, created)
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, p.Len())

	_, ok := p.Lookup("api/types/Missing.ts")
	assert.False(t, ok)
	assert.Equal(t, 1, p.Len())
}

func TestImportsDeduplicated(t *testing.T) {
	p := NewProject()
	f, _ := p.File("api/types/Shape.ts")
	require.NoError(t, f.Declare("Shape"))

	first := f.ImportNamed("api/types/Point", "Point")
	second := f.ImportNamed("api/types/Point", "Point")
	assert.Equal(t, "Point", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.Imports().Len())
	assert.Equal(t, "import { Point } from \"./Point\";\n", f.Imports().Render())
}

func TestImportCollisionGetsAlias(t *testing.T) {
	p := NewProject()
	f, _ := p.File("api/types/Shape.ts")
	require.NoError(t, f.Declare("Shape"))

	local := f.ImportNamed("api/resources/other/types/Shape", "Shape")
	assert.Equal(t, "Shape_2", local)

	a := f.ImportNamed("api/resources/a/types/Id", "Id")
	b := f.ImportNamed("api/resources/b/types/Id", "Id")
	assert.Equal(t, "Id", a)
	assert.Equal(t, "Id_2", b)

	assert.Equal(t,
		"import { Shape as Shape_2 } from \"../resources/other/types/Shape\";\n"+
			"import { Id } from \"../resources/a/types/Id\";\n"+
			"import { Id as Id_2 } from \"../resources/b/types/Id\";\n",
		f.Imports().Render())
}

func TestNamespaceAndPackageImports(t *testing.T) {
	p := NewProject()
	f, _ := p.File("api/client/ShapeService.ts")

	ns := f.ImportNamespace("api/service-types/ShapeService/getShape", "GetShape")
	assert.Equal(t, "GetShape", ns)
	assert.Equal(t, ns, f.ImportNamespace("api/service-types/ShapeService/getShape", "Other"))

	uuid := f.ImportPackage("uuid", "v4", "uuidv4")
	assert.Equal(t, "uuidv4", uuid)
	assert.Equal(t, uuid, f.ImportPackage("uuid", "v4", "uuidv4"))

	assert.Equal(t,
		"import * as GetShape from \"../service-types/ShapeService/getShape\";\n"+
			"import { v4 as uuidv4 } from \"uuid\";\n",
		f.Imports().Render())
	assert.Equal(t, []string{"../service-types/ShapeService/getShape", "uuid"}, f.Imports().Specifiers())
}

func TestDeclareTwiceIsInvariantViolation(t *testing.T) {
	f := newFile("api/types/A.ts")
	require.NoError(t, f.Declare("A"))
	assert.True(t, errors.IsInvariantViolation(f.Declare("A")))

	f.ImportNamed("api/types/B", "B")
	assert.True(t, errors.IsInvariantViolation(f.Declare("B")))
	assert.True(t, f.Declares("A"))
	assert.False(t, f.Declares("B"))
	assert.Equal(t, []string{"A"}, f.Exports())
}

func TestContent(t *testing.T) {
	f := newFile("api/types/Point.ts")
	require.NoError(t, f.Declare("Point"))
	f.ImportNamed("api/types/Label", "Label")
	f.AddStatement("export interface Point {\n    label: Label;\n}\n")
	f.AddStatement("export const ORIGIN = 0;")

	want := Header + "\n" +
		"import { Label } from \"./Label\";\n" +
		"\nexport interface Point {\n    label: Label;\n}\n" +
		"\nexport const ORIGIN = 0;\n"
	assert.Equal(t, want, f.Content())
	assert.Equal(t, "api/types/Point", f.Module())
}

func TestWriteTo(t *testing.T) {
	p := NewProject()
	f, _ := p.File("api/types/Point.ts")
	f.AddStatement("export type Point = number;")

	fs := afero.NewMemMapFs()
	require.NoError(t, p.WriteTo(fs, "/out"))
	data, err := afero.ReadFile(fs, "/out/api/types/Point.ts")
	require.NoError(t, err)
	assert.Equal(t, f.Content(), string(data))
}

func TestWriter(t *testing.T) {
	var w Writer
	w.Docs("A point.")
	w.Block("export interface Point {", "}", func() {
		w.Docs("first line\n\nsecond */ line")
		w.Line("x: %s;", "number")
	})
	w.Line("")
	w.Indent(func() { w.Line("100%") })

	want := "/** A point. */\n" +
		"export interface Point {\n" +
		"    /**\n" +
		"     * first line\n" +
		"     *\n" +
		"     * second *\\/ line\n" +
		"     */\n" +
		"    x: number;\n" +
		"}\n" +
		"\n" +
		"    100%\n"
	assert.Equal(t, want, w.String())
}

func TestWriterEmbed(t *testing.T) {
	var inner Writer
	inner.Block("if (x) {", "}", func() { inner.Line("return 5%;") })

	var w Writer
	w.Block("function f() {", "}", func() {
		w.Embed(inner.String())
		w.Embed("\nlast;\n")
	})

	want := "function f() {\n" +
		"    if (x) {\n" +
		"        return 5%;\n" +
		"    }\n" +
		"\n" +
		"    last;\n" +
		"}\n"
	assert.Equal(t, want, w.String())
}

func TestJoinAndDir(t *testing.T) {
	assert.Equal(t, "api/resources/geometry/types", Join("api", "", "resources/geometry/", "types"))
	assert.Equal(t, "", Dir("index.ts"))
	assert.Equal(t, "api/types", Dir("api/types/Point.ts"))
}

func TestReserveForcesAlias(t *testing.T) {
	f := newFile("api/errors/Body.ts")
	f.Reserve("NotFound", "NotFound")
	assert.Equal(t, "NotFound_2", f.ImportNamed("api/errors/NotFound", "NotFound"))
	assert.False(t, f.Declares("NotFound"))
}
