// Package am holds tsclientgen's configuration: what to generate, where to
// write it, how to log and how to watch.
package am

// Config represents the tsclientgen configuration
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator" toml:"generator"`
	Package   PackageConfig   `mapstructure:"package" toml:"package"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch"`
}

// GeneratorConfig configures a generation run
type GeneratorConfig struct {
	IR        string `mapstructure:"ir" toml:"ir"`               // IR file (.json, .yaml, .yml, .toml)
	Output    string `mapstructure:"output" toml:"output"`       // Package directory
	Namespace string `mapstructure:"namespace" toml:"namespace"` // Root namespace; empty = IR apiName
	Prune     bool   `mapstructure:"prune" toml:"prune"`         // Remove stale generated files
	Hook      string `mapstructure:"hook" toml:"hook"`           // Command run in Output after writing

	Encoder EncoderConfig `mapstructure:"encoder" toml:"encoder"`
}

// EncoderConfig names an npm export generated clients serialize requests
// with. Empty means JSON.stringify.
type EncoderConfig struct {
	Package string `mapstructure:"package" toml:"package"` // e.g. "msgpack-lite"
	Version string `mapstructure:"version" toml:"version"` // semver range, e.g. "^0.1.26"
	Export  string `mapstructure:"export" toml:"export"`   // function exported by Package
}

// IsZero reports whether no encoder is configured
func (e EncoderConfig) IsZero() bool { return e == EncoderConfig{} }

// PackageConfig describes the emitted npm package
type PackageConfig struct {
	Name    string `mapstructure:"name" toml:"name"`
	Version string `mapstructure:"version" toml:"version"`
	Private bool   `mapstructure:"private" toml:"private"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // 0=warn, 1=info, 2+=debug
}

// WatchConfig configures `tsclientgen watch`
type WatchConfig struct {
	DebounceMS   int `mapstructure:"debounce_ms" toml:"debounce_ms"`       // Quiet period before regenerating
	MaxPerMinute int `mapstructure:"max_per_minute" toml:"max_per_minute"` // 0 = unlimited
}

// File names and permissions
const (
	ConfigFileName         = "tsclientgen.toml"
	EnvPrefix              = "TSCLIENTGEN"
	DefaultDirPermissions  = 0o755
	DefaultFilePermissions = 0o644
)
