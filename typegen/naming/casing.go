// Package naming turns IR names into valid, collision-free TypeScript
// identifiers, property keys and string literals.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.Und, cases.NoLower)

// ToPascalCase converts snake_case, kebab-case, dotted or spaced words to
// PascalCase. Existing inner capitals are kept ("getHTTPStatus" stays intact).
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, isWordSeparator)

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(titler.String(part))
	}
	return result.String()
}

// ToCamelCase converts snake_case, kebab-case, dotted or spaced words to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}

	// Lowercase first letter
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Handles acronyms properly (e.g., "HTTPSConnection" -> "https_connection")
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if i > 0 && unicode.IsUpper(r) {
			// Acronyms stay together unless the next char ends them
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !prevUpper || nextLower {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

func isWordSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}
