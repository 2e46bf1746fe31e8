package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"snake_case", "SnakeCase"},
		{"kebab-case", "KebabCase"},
		{"dotted.name", "DottedName"},
		{"already", "Already"},
		{"getHTTPStatus", "GetHTTPStatus"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToPascalCase(tt.input), tt.input)
	}
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "geometryV2", ToCamelCase("geometry_v2"))
	assert.Equal(t, "shapeService", ToCamelCase("ShapeService"))
	assert.Equal(t, "", ToCamelCase(""))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "https_connection", ToSnakeCase("HTTPSConnection"))
	assert.Equal(t, "shape_service", ToSnakeCase("ShapeService"))
}

func TestIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"valid", "valid"},
		{"with-dash", "with_dash"},
		{"9lives", "_9lives"},
		{"default", "default_"},
		{"", "_"},
		{"$ok", "$ok"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Identifier(tt.input), tt.input)
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Point", TypeName("point"))
	assert.Equal(t, "Record_", TypeName("Record"))
	assert.Equal(t, "Promise_", TypeName("promise"))
	assert.Equal(t, "RateLimited", TypeName("RateLimited"))
}

func TestMemberName(t *testing.T) {
	assert.Equal(t, "getShape", MemberName("getShape"))
	assert.Equal(t, "delete_", MemberName("delete"))
	assert.Equal(t, "notFound", MemberName("NotFound"))
}

func TestPropertyKey(t *testing.T) {
	assert.Equal(t, "retryAfter", PropertyKey("retryAfter"))
	assert.Equal(t, `"x-request-id"`, PropertyKey("x-request-id"))
	assert.Equal(t, `"1st"`, PropertyKey("1st"))
	assert.Equal(t, `"has \"quote\""`, PropertyKey(`has "quote"`))
}

func TestPropertyAccess(t *testing.T) {
	assert.Equal(t, "value.type", PropertyAccess("value", "type"))
	assert.Equal(t, `value["x-kind"]`, PropertyAccess("value", "x-kind"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Point", FileName("Point"))
	assert.Equal(t, "Index_", FileName("Index"))
}
