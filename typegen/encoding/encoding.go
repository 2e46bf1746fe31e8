// Package encoding picks the function generated clients use to serialize
// outgoing bodies and messages. Without a helper that is JSON.stringify; a
// helper is an npm package export with the same signature, imported by every
// client and declared as a runtime dependency.
package encoding

import (
	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/typegen/dependencies"
	"github.com/teranos/tsclientgen/typegen/naming"
	"github.com/teranos/tsclientgen/typegen/tsfile"
)

// DefaultEncoder is used when no helper is configured.
const DefaultEncoder = "JSON.stringify"

// Member is the client property holding the encoder.
const Member = "encode"

// Helper names an encoder exported by an npm package.
type Helper struct {
	Package      string
	VersionRange string
	Export       string
}

// IsZero reports whether no helper is configured.
func (h Helper) IsZero() bool { return h == Helper{} }

// Validate checks that h is complete.
func (h Helper) Validate() error {
	switch {
	case h.Package == "":
		return errors.NewInvariantViolation("encoder helper has no package")
	case !naming.IsIdentifier(h.Export):
		return errors.WithHint(
			errors.NewInvariantViolation("encoder export %q of %s is not an identifier", h.Export, h.Package),
			"name a function exported by the package, e.g. encode",
		)
	}
	return nil
}

// Encoders hands out the default encoder expression for generated files.
type Encoders struct {
	helper Helper
	deps   *dependencies.Manager
}

// New returns Encoders using helper, or JSON.stringify when helper is zero.
func New(helper Helper, deps *dependencies.Manager) *Encoders {
	return &Encoders{helper: helper, deps: deps}
}

// Default returns the expression for the default encoder in file, importing
// the helper and registering its package when one is configured. The import
// never binds Member, which would make the parameter default refer to itself.
func (e *Encoders) Default(file *tsfile.File) (string, error) {
	file.Reserve(Member)
	if e.helper.IsZero() {
		return DefaultEncoder, nil
	}
	if err := e.helper.Validate(); err != nil {
		return "", err
	}
	if err := e.deps.AddDependency(e.helper.Package, e.helper.VersionRange, dependencies.Options{}); err != nil {
		return "", errors.Wrapf(err, "encoder helper %s", e.helper.Package)
	}
	return file.ImportPackage(e.helper.Package, e.helper.Export, e.helper.Export), nil
}

// Parameter renders the constructor parameter that stores the encoder, e.g.
// "private readonly encode: (body: unknown) => string = JSON.stringify".
func Parameter(argument, defaultExpr string) string {
	return "private readonly " + Member + ": (" + argument + ": unknown) => string = " + defaultExpr
}

// Call renders a call of the stored encoder on value.
func Call(value string) string {
	return "this." + Member + "(" + value + ")"
}
