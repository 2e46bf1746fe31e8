package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// reserved are TypeScript keywords that cannot name a declaration.
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "as": true, "implements": true, "interface": true, "let": true,
	"package": true, "private": true, "protected": true, "public": true,
	"static": true, "yield": true, "any": true, "boolean": true, "number": true,
	"string": true, "symbol": true, "type": true, "never": true, "unknown": true,
	"object": true, "undefined": true, "await": true, "async": true,
	"namespace": true, "declare": true, "module": true,
}

// builtins are global names that emitted code relies on. A declaration with
// one of these names would shadow the global inside its own file.
var builtins = map[string]bool{
	"Array": true, "Boolean": true, "Date": true, "Error": true, "JSON": true,
	"Map": true, "Number": true, "Object": true, "Promise": true, "Record": true,
	"Set": true, "String": true, "Symbol": true, "WebSocket": true,
	"MessageEvent": true, "URLSearchParams": true, "Response": true,
	"Request": true, "Headers": true, "fetch": true,
}

// Identifier returns s with invalid characters replaced, a leading digit
// prefixed, and keywords suffixed with an underscore.
func Identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	id := b.String()
	if id == "" {
		return "_"
	}
	if reserved[id] {
		return id + "_"
	}
	return id
}

// TypeName returns a PascalCase identifier that does not collide with a
// keyword or a global the generated code uses.
func TypeName(s string) string {
	id := Identifier(ToPascalCase(s))
	if builtins[id] {
		return id + "_"
	}
	return id
}

// MemberName returns a camelCase identifier for methods, constructors and
// namespace aliases.
func MemberName(s string) string {
	id := Identifier(ToCamelCase(s))
	if builtins[id] {
		return id + "_"
	}
	return id
}

// IsIdentifier reports whether s can be used unquoted as a property name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// PropertyKey renders s as an object/interface key, quoting it when needed.
func PropertyKey(s string) string {
	if IsIdentifier(s) {
		return s
	}
	return StringLiteral(s)
}

// PropertyAccess renders obj.key or obj["key"].
func PropertyAccess(obj, key string) string {
	if IsIdentifier(key) {
		return obj + "." + key
	}
	return obj + "[" + StringLiteral(key) + "]"
}

// StringLiteral renders s as a double-quoted string literal.
func StringLiteral(s string) string {
	return strconv.Quote(s)
}

// FileName returns the base name (without extension) for a declaration file.
// "index" is reserved for barrels.
func FileName(symbol string) string {
	if strings.EqualFold(symbol, "index") {
		return symbol + "_"
	}
	return symbol
}
