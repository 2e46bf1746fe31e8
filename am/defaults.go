package am

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generator.ir", "api.json")
	v.SetDefault("generator.output", "generated")
	v.SetDefault("generator.namespace", "")
	v.SetDefault("generator.prune", true)
	v.SetDefault("generator.hook", "")
	v.SetDefault("generator.encoder.package", "")
	v.SetDefault("generator.encoder.version", "")
	v.SetDefault("generator.encoder.export", "")

	v.SetDefault("package.name", "api-client")
	v.SetDefault("package.version", "0.0.1")
	v.SetDefault("package.private", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("watch.debounce_ms", 300) // Editors write in bursts
	v.SetDefault("watch.max_per_minute", 30)
}

// Default returns the configuration SetDefaults describes
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return cfg
}

// DebouncePeriod returns the watch debounce as a duration
func (c *Config) DebouncePeriod() time.Duration {
	if c.Watch.DebounceMS <= 0 {
		return 0
	}
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{IR: %s, Output: %s, Package: %s@%s}",
		c.Generator.IR, c.Generator.Output, c.Package.Name, c.Package.Version)
}
