package am

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/tsclientgen/errors"
	"github.com/teranos/tsclientgen/typegen/naming"
)

// Validate checks that the configuration is valid. Every failure is marked
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Generator.IR == "" {
		return invalid("generator.ir cannot be empty")
	}
	if c.Generator.Output == "" {
		return invalid("generator.output cannot be empty")
	}
	if ns := c.Generator.Namespace; ns != "" && !naming.IsIdentifier(naming.ToPascalCase(ns)) {
		return invalid("generator.namespace %q does not form an identifier", ns)
	}

	if enc := c.Generator.Encoder; !enc.IsZero() {
		if enc.Package == "" || enc.Export == "" {
			return invalid("generator.encoder needs both package and export")
		}
		if !naming.IsIdentifier(enc.Export) {
			return invalid("generator.encoder.export %q is not an identifier", enc.Export)
		}
		if _, err := semver.NewConstraint(enc.Version); err != nil {
			return errors.WithHint(
				errors.Mark(errors.Wrapf(err, "generator.encoder.version %q is not a version range", enc.Version), errors.ErrInvalidConfig),
				"use a semver range such as ^1.2.0")
		}
	}

	if c.Package.Name == "" {
		return invalid("package.name cannot be empty")
	}
	if _, err := semver.StrictNewVersion(c.Package.Version); err != nil {
		return errors.WithHint(
			errors.Mark(errors.Wrapf(err, "package.version %q is not a semantic version", c.Package.Version), errors.ErrInvalidConfig),
			"use MAJOR.MINOR.PATCH, e.g. 1.0.0")
	}

	if c.Log.Verbosity < 0 {
		return invalid("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	// 0 = regenerate on every change, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return invalid("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Watch.MaxPerMinute < 0 {
		return invalid("watch.max_per_minute must be >= 0, got %d", c.Watch.MaxPerMinute)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrInvalidConfig)
}
