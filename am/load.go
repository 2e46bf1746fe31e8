package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/tsclientgen/errors"
)

// Load reads the configuration. With an explicit path that file must exist;
// otherwise tsclientgen.toml is searched for from the working directory
// upward and is optional. TSCLIENTGEN_* environment variables override both.
func Load(path string) (*Config, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// NewViper builds the viper instance Load reads from
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		path = FindProjectConfig(wd)
		if path == "" {
			return v, nil
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return v, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if used := v.ConfigFileUsed(); used != "" {
		config.resolveRelative(filepath.Dir(used))
	}
	return &config, nil
}

// resolveRelative anchors relative paths at the directory holding the
// config file so commands behave the same from any subdirectory.
func (c *Config) resolveRelative(dir string) {
	if c.Generator.IR != "" && !filepath.IsAbs(c.Generator.IR) {
		c.Generator.IR = filepath.Join(dir, c.Generator.IR)
	}
	if c.Generator.Output != "" && !filepath.IsAbs(c.Generator.Output) {
		c.Generator.Output = filepath.Join(dir, c.Generator.Output)
	}
}

// FindProjectConfig searches for tsclientgen.toml from dir upward.
// Returns the path to the first config file found, or empty string if none found
func FindProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
