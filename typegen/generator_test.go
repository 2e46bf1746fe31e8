package typegen

import (
	"context"
	"path"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/ir"
	"github.com/teranos/tsclientgen/progress"
	"github.com/teranos/tsclientgen/typegen/encoding"
)

func loadArchive(t *testing.T, name string) (*ir.IntermediateRepresentation, []txtar.File) {
	t.Helper()
	archive, err := txtar.ParseFile(path.Join("testdata", name))
	require.NoError(t, err)

	var api *ir.IntermediateRepresentation
	var want []txtar.File
	for _, f := range archive.Files {
		if f.Name == "ir.json" {
			api, err = ir.Parse(f.Data, ir.FormatJSON)
			require.NoError(t, err)
			continue
		}
		want = append(want, f)
	}
	require.NotNil(t, api, "archive has no ir.json")
	return api, want
}

func TestGenerateGolden(t *testing.T) {
	api, want := loadArchive(t, "createpoint.txtar")

	result, err := New().Generate(context.Background(), api)
	require.NoError(t, err)
	assert.Equal(t, "Shapes", result.Namespace)

	var wantPaths []string
	for _, f := range want {
		wantPaths = append(wantPaths, f.Name)
	}
	assert.Equal(t, wantPaths, result.Files)

	for _, f := range want {
		got, err := afero.ReadFile(result.FS, path.Join(StagingRoot, f.Name))
		require.NoError(t, err, f.Name)
		assert.Equal(t, string(f.Data), string(got), f.Name)
	}

	require.Len(t, result.Dependencies, 2)
	assert.Equal(t, "uuid", result.Dependencies[0].Name)
}

func TestGenerateWithEncoderHelper(t *testing.T) {
	api, _ := loadArchive(t, "createpoint.txtar")

	helper := encoding.Helper{Package: "@acme/wire", VersionRange: "^2.0.0", Export: "serialize"}
	result, err := New(WithEncoder(helper)).Generate(context.Background(), api)
	require.NoError(t, err)

	client, err := afero.ReadFile(result.FS, "/api/resources/geometry/client/ShapeService.ts")
	require.NoError(t, err)
	assert.Contains(t, string(client), "import { serialize } from \"@acme/wire\";\n")
	assert.Contains(t, string(client), "private readonly encode: (body: unknown) => string = serialize) {}")
	assert.Contains(t, string(client), "body: this.encode(request),")

	require.Len(t, result.Dependencies, 3)
	assert.Equal(t, "@acme/wire", result.Dependencies[2].Name)
	assert.Equal(t, "^2.0.0", result.Dependencies[2].VersionRange)
}

func TestGenerateIsDeterministic(t *testing.T) {
	api, err := ir.Load("../ir/testdata/shapes.json")
	require.NoError(t, err)

	first, err := New().Generate(context.Background(), api)
	require.NoError(t, err)
	second, err := New().Generate(context.Background(), api)
	require.NoError(t, err)

	require.Equal(t, first.Files, second.Files)
	for _, p := range first.Files {
		a, err := afero.ReadFile(first.FS, path.Join(StagingRoot, p))
		require.NoError(t, err)
		b, err := afero.ReadFile(second.FS, path.Join(StagingRoot, p))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), p)
	}
}

func TestEveryFileIsReachable(t *testing.T) {
	api, err := ir.Load("../ir/testdata/shapes.json")
	require.NoError(t, err)

	run := newRun(api, New().log, encoding.Helper{})
	require.NoError(t, run.generate(context.Background(), progress.Nop{}))
	for _, f := range run.project.Files() {
		assert.True(t, run.exports.Reachable(f.Path()), f.Path())
	}
}

func TestWebSocketScenario(t *testing.T) {
	api, err := ir.Load("../ir/testdata/shapes.yaml")
	require.NoError(t, err)

	result, err := New(WithNamespace("live-api")).Generate(context.Background(), api)
	require.NoError(t, err)
	assert.Equal(t, "LiveApi", result.Namespace)

	var channel string
	for _, p := range result.Files {
		if strings.HasSuffix(p, "/client/Feed.ts") {
			data, err := afero.ReadFile(result.FS, path.Join(StagingRoot, p))
			require.NoError(t, err)
			channel = string(data)
		}
	}
	require.NotEmpty(t, channel, "no channel file in %v", result.Files)
	assert.Contains(t, channel, "id: uuidv4(),")
	assert.Contains(t, channel, `operation: "subscribe",`)
	assert.Contains(t, channel, "this.callbacks.set(message.id, resolve);")
	assert.Contains(t, channel, "if (callback == null) {\n            return;\n        }")
}

func TestProgressSeesEveryFileOnce(t *testing.T) {
	api, err := ir.Load("../ir/testdata/shapes.json")
	require.NoError(t, err)

	rec := &progress.Recorder{}
	result, err := New(WithProgress(rec)).Generate(context.Background(), api)
	require.NoError(t, err)
	assert.Equal(t, result.Files, rec.Files)
	assert.Equal(t, []string{"types", "errors", "services"}, rec.Stages)
	assert.NoError(t, rec.Err)
}

func TestGenerateFromHandBuiltIR(t *testing.T) {
	api := &ir.IntermediateRepresentation{
		APIName: "shapes",
		Errors: []ir.ErrorDeclaration{
			{Name: ir.DeclaredName{Name: "NotFound"}, Shape: ir.AliasShape{AliasOf: ir.VoidType{}}, HTTPStatusCode: 404},
		},
		Services: ir.Services{HTTP: []ir.HTTPService{{
			Name: ir.DeclaredName{Name: "ShapeService"},
			Endpoints: []ir.HTTPEndpoint{{
				ID:     "ping",
				Method: ir.GET,
				Errors: ir.FailedResponse{Errors: []ir.ResponseError{
					{DiscriminantValue: "NotFound", Error: ir.DeclaredName{Name: "NotFound"}},
				}},
			}},
		}}},
	}

	result, err := New().Generate(context.Background(), api)
	require.NoError(t, err)

	read := func(p string) string {
		data, err := afero.ReadFile(result.FS, path.Join(StagingRoot, p))
		require.NoError(t, err, p)
		return string(data)
	}
	errorBody := read("api/service-types/ShapeService/ping/ErrorBody.ts")
	assert.Contains(t, errorBody, "        error: \"NotFound\";\n        errorInstanceId: string;\n")
	assert.Contains(t, read("api/client/ShapeService.ts"), "errorInstanceId: uuidv4(),")

	// the caller's IR is not rewritten
	assert.Empty(t, api.Services.HTTP[0].Endpoints[0].Errors.Discriminant)
	assert.Empty(t, api.Constants.ErrorInstanceIDKey)
}

func TestUnresolvedReferenceAbortsRun(t *testing.T) {
	api := &ir.IntermediateRepresentation{
		APIName: "Broken",
		Types: []ir.TypeDeclaration{
			{Name: ir.DeclaredName{Name: "A"}, Shape: ir.AliasShape{AliasOf: ir.Named("Missing")}},
		},
	}
	rec := &progress.Recorder{}
	result, err := New(WithProgress(rec)).Generate(context.Background(), api)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsUnresolvedReference(err))
	assert.Empty(t, rec.Files)
	assert.Equal(t, err, rec.Err)
}

func TestAmbiguousNamespaceExports(t *testing.T) {
	geometry := func(name string) ir.DeclaredName {
		return ir.DeclaredName{FernFilepath: []string{"geometry"}, Name: name}
	}
	void := ir.AliasShape{AliasOf: ir.VoidType{}}

	// a type and an error share geometry's index
	_, err := New().Generate(context.Background(), &ir.IntermediateRepresentation{
		APIName: "shapes",
		Types:   []ir.TypeDeclaration{{Name: geometry("Conflict"), Shape: ir.ObjectShape{}}},
		Errors:  []ir.ErrorDeclaration{{Name: geometry("Conflict"), Shape: void, HTTPStatusCode: 409}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
	assert.Contains(t, err.Error(), "type geometry/Conflict and error geometry/Conflict")
	assert.NotEmpty(t, errors.GetAllHints(err))

	// a type and a service client
	_, err = New().Generate(context.Background(), &ir.IntermediateRepresentation{
		APIName:  "shapes",
		Types:    []ir.TypeDeclaration{{Name: geometry("ShapeService"), Shape: ir.ObjectShape{}}},
		Services: ir.Services{HTTP: []ir.HTTPService{{Name: geometry("ShapeService"), Endpoints: []ir.HTTPEndpoint{{ID: "ping"}}}}},
	})
	assert.True(t, errors.IsInvariantViolation(err))

	// the same name in sibling namespaces is fine
	_, err = New().Generate(context.Background(), &ir.IntermediateRepresentation{
		APIName: "shapes",
		Types:   []ir.TypeDeclaration{{Name: geometry("Conflict"), Shape: ir.ObjectShape{}}},
		Errors: []ir.ErrorDeclaration{{
			Name:           ir.DeclaredName{FernFilepath: []string{"billing"}, Name: "Conflict"},
			Shape:          void,
			HTTPStatusCode: 409,
		}},
	})
	assert.NoError(t, err)
}

func TestCyclicAliasAbortsRun(t *testing.T) {
	api := &ir.IntermediateRepresentation{
		APIName: "Cyclic",
		Types: []ir.TypeDeclaration{
			{Name: ir.DeclaredName{Name: "A"}, Shape: ir.AliasShape{AliasOf: ir.Named("B")}},
			{Name: ir.DeclaredName{Name: "B"}, Shape: ir.AliasShape{AliasOf: ir.Named("A")}},
			{Name: ir.DeclaredName{Name: "U"}, Shape: ir.UnionShape{
				Discriminant: "type",
				Variants:     []ir.SingleUnionVariant{{DiscriminantValue: "a", Payload: ir.Named("A")}},
			}},
		},
	}
	_, err := New().Generate(context.Background(), api)
	assert.True(t, errors.IsCyclicAlias(err))
}

func TestGenerateRequiresName(t *testing.T) {
	_, err := New().Generate(context.Background(), &ir.IntermediateRepresentation{})
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = New().Generate(context.Background(), nil)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestGenerateHonorsContext(t *testing.T) {
	api, err := ir.Load("../ir/testdata/shapes.json")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Generate(ctx, api)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyAPI(t *testing.T) {
	result, err := New().Generate(context.Background(), &ir.IntermediateRepresentation{APIName: "Empty"})
	require.NoError(t, err)
	assert.Equal(t, []string{"api/index.ts", "index.ts"}, result.Files)

	data, err := afero.ReadFile(result.FS, "/api/index.ts")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "export {};\n"))
}

func TestCompareDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	write := func(p, content string) {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}

	write("/gen/api/types/Point.ts", "// Code generated by tsclientgen. DO NOT EDIT.\nexport interface Point {}\n")
	write("/gen/api/types/Label.ts", "export type Label = string;\n")
	write("/gen/api/index.ts", "export * from \"./types\";\n")

	write("/out/api/types/Point.ts", "// Code generated by tsclientgen v0.1. DO NOT EDIT.\nexport interface Point {}\n")
	write("/out/api/types/Label.ts", "export type Label = number;\n")
	write("/out/api/types/Old.ts", "export type Old = string;\n")
	write("/out/package-lock.json", "{}")

	result, err := CompareDirectories(fs, "/gen", "/out")
	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, []string{"api/types/Label.ts"}, result.Changed)
	assert.Equal(t, []string{"api/index.ts"}, result.Missing)
	assert.Equal(t, []string{"api/types/Old.ts"}, result.Stale)

	err = result.Err()
	assert.True(t, errors.IsDrift(err))
	assert.Contains(t, strings.Join(errors.GetAllDetails(err), "\n"), "changed: api/types/Label.ts")
}

func TestRestrictStale(t *testing.T) {
	result := &CheckResult{Stale: []string{"api/types/Old.ts", "dist/index.js", "src/custom.ts", "api/README.md"}}
	result.RestrictStale()
	assert.Equal(t, []string{"api/types/Old.ts"}, result.Stale)
	assert.False(t, result.UpToDate)

	result = &CheckResult{Stale: []string{"dist/index.d.ts"}}
	result.RestrictStale()
	assert.True(t, result.UpToDate)
}

func TestCompareDirectoriesUpToDate(t *testing.T) {
	api, _ := loadArchive(t, "createpoint.txtar")
	result, err := New().Generate(context.Background(), api)
	require.NoError(t, err)

	// the staging volume compared with itself
	check, err := CompareDirectories(result.FS, StagingRoot, StagingRoot)
	require.NoError(t, err)
	assert.True(t, check.UpToDate)
	assert.NoError(t, check.Err())

	missing, err := CompareDirectories(afero.NewMemMapFs(), "/nope", "/also-nope")
	require.NoError(t, err)
	assert.True(t, missing.UpToDate)
}
