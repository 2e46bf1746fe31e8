package ir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsclientgen/errors"
)

func TestLoadJSON(t *testing.T) {
	ir, err := Load(filepath.Join("testdata", "shapes.json"))
	require.NoError(t, err)

	assert.Equal(t, "Shapes", ir.APIName)
	require.Len(t, ir.Types, 5)

	point := ir.Types[0]
	assert.Equal(t, "geometry/Point", point.Name.Key())
	assert.Equal(t, "A point in the plane.", point.Docs)
	obj, ok := point.Shape.(ObjectShape)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)
	assert.Equal(t, "x", obj.Properties[0].Key)
	assert.Equal(t, Prim(Double), obj.Properties[0].ValueType)

	alias, ok := ir.Types[1].Shape.(AliasShape)
	require.True(t, ok)
	assert.Equal(t, Prim(String), alias.AliasOf)

	union, ok := ir.Types[2].Shape.(UnionShape)
	require.True(t, ok)
	assert.Equal(t, "type", union.Discriminant)
	require.Len(t, union.Variants, 4)
	assert.Equal(t, Named("Point", "geometry"), union.Variants[0].Payload)
	assert.Nil(t, union.Variants[2].Payload)
	assert.Equal(t, List(Prim(String)), union.Variants[3].Payload)

	enum, ok := ir.Types[3].Shape.(EnumShape)
	require.True(t, ok)
	assert.Equal(t, []EnumValue{{Value: "RED"}, {Value: "GREEN"}}, enum.Values)
	assert.Equal(t, "Color", ir.Types[3].Name.Key())

	meta := ir.Types[4].Shape.(AliasShape)
	assert.Equal(t, MapType{Key: Prim(String), Value: Optional(UnknownType{})}, meta.AliasOf)

	require.Len(t, ir.Errors, 1)
	assert.Equal(t, 404, ir.Errors[0].HTTPStatusCode)
	assert.Equal(t, AliasShape{AliasOf: VoidType{}}, ir.Errors[0].Shape)

	require.Len(t, ir.Services.HTTP, 1)
	endpoint := ir.Services.HTTP[0].Endpoints[0]
	assert.Equal(t, "getShape", endpoint.ID)
	assert.Equal(t, GET, endpoint.Method)
	assert.Nil(t, endpoint.Request)
	assert.Equal(t, Named("Shape", "geometry"), endpoint.Response.Type)

	// defaults from constants
	assert.Equal(t, DefaultErrorDiscriminant, endpoint.Errors.Discriminant)
	assert.Equal(t, DefaultErrorInstanceIDKey, endpoint.Errors.ErrorProperties.ErrorInstanceID)
}

func TestLoadYAML(t *testing.T) {
	ir, err := Load(filepath.Join("testdata", "shapes.yaml"))
	require.NoError(t, err)

	require.Len(t, ir.Types, 1)
	obj := ir.Types[0].Shape.(ObjectShape)
	assert.Equal(t, "y", obj.Properties[1].Key)
	assert.Equal(t, Prim(Double), obj.Properties[1].ValueType)

	require.Len(t, ir.Services.WebSocket, 1)
	op := ir.Services.WebSocket[0].Operations[0]
	assert.Equal(t, "subscribe", op.ID)
	assert.Equal(t, Named("Point", "geometry"), op.Request.Type)
	assert.True(t, IsVoid(op.Response.Type))
	assert.Equal(t, "error", op.Errors.Discriminant)
}

func TestLoadTOML(t *testing.T) {
	ir, err := Load(filepath.Join("testdata", "shapes.toml"))
	require.NoError(t, err)

	assert.Equal(t, "kind", ir.Constants.ErrorDiscriminant)
	require.Len(t, ir.Types, 1)
	assert.Equal(t, "Plain alias.", ir.Types[0].Docs)
	assert.Equal(t, AliasShape{AliasOf: Prim(String)}, ir.Types[0].Shape)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.True(t, errors.IsNotFoundError(err))

	_, err = Load("ir.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized IR file extension")
}

func TestParseUnsupportedVariants(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown shape",
			doc:  `{"types":[{"name":{"name":"A"},"shape":{"_type":"tuple"}}]}`,
		},
		{
			name: "unknown reference",
			doc:  `{"types":[{"name":{"name":"A"},"shape":{"_type":"alias","aliasOf":{"_type":"literal"}}}]}`,
		},
		{
			name: "unknown container",
			doc:  `{"types":[{"name":{"name":"A"},"shape":{"_type":"alias","aliasOf":{"_type":"container","container":{"_type":"tuple"}}}}]}`,
		},
		{
			name: "unknown primitive",
			doc:  `{"types":[{"name":{"name":"A"},"shape":{"_type":"alias","aliasOf":{"_type":"primitive","primitive":"UUID"}}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.IsUnsupportedShape(err), "got %v", err)
		})
	}
}

func TestParseMissingAliasTarget(t *testing.T) {
	_, err := Parse([]byte(`{"types":[{"name":{"name":"A"},"shape":{"_type":"alias"}}]}`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alias target is missing")
}

func TestVoidPayloadIsNoPayload(t *testing.T) {
	doc := `{"types":[{"name":{"name":"U"},"shape":{"_type":"union","discriminant":"type","types":[{"discriminantValue":"a","valueType":{"_type":"void"}}]}}]}`
	ir, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, ir.Types[0].Shape.(UnionShape).Variants[0].Payload)
}

func TestDeclaredNameKey(t *testing.T) {
	assert.Equal(t, "Root", DeclaredName{Name: "Root"}.Key())
	assert.Equal(t, "a/b/Leaf", DeclaredName{FernFilepath: []string{"a", "b"}, Name: "Leaf"}.String())
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{"a.json": FormatJSON, "a.YML": FormatYAML, "a.yaml": FormatYAML, "a.toml": FormatTOML} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ir.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load IR")
}

func TestWithDefaultsLeavesSourceUntouched(t *testing.T) {
	src := &IntermediateRepresentation{
		APIName:   "shapes",
		Constants: Constants{ErrorInstanceIDKey: "requestId"},
		Services: Services{
			HTTP: []HTTPService{{
				Name: DeclaredName{Name: "ShapeService"},
				Endpoints: []HTTPEndpoint{
					{ID: "ping", Method: GET},
					{ID: "reset", Errors: FailedResponse{Discriminant: "kind"}},
				},
			}},
			WebSocket: []WebSocketChannel{{
				Name:       DeclaredName{Name: "Feed"},
				Operations: []WebSocketOperation{{ID: "subscribe"}},
			}},
		},
	}

	out := src.WithDefaults()
	assert.Equal(t, DefaultErrorDiscriminant, out.Constants.ErrorDiscriminant)
	ping := out.Services.HTTP[0].Endpoints[0].Errors
	assert.Equal(t, DefaultErrorDiscriminant, ping.Discriminant)
	assert.Equal(t, "requestId", ping.ErrorProperties.ErrorInstanceID)
	assert.Equal(t, "kind", out.Services.HTTP[0].Endpoints[1].Errors.Discriminant)
	assert.Equal(t, "requestId", out.Services.WebSocket[0].Operations[0].Errors.ErrorProperties.ErrorInstanceID)

	assert.Empty(t, src.Constants.ErrorDiscriminant)
	assert.Empty(t, src.Services.HTTP[0].Endpoints[0].Errors.Discriminant)
	assert.Empty(t, src.Services.HTTP[0].Endpoints[0].Errors.ErrorProperties.ErrorInstanceID)
	assert.Empty(t, src.Services.WebSocket[0].Operations[0].Errors.ErrorProperties.ErrorInstanceID)
}
