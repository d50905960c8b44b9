// Package config provides configuration management for matrix-tpl.
//
// Configuration is optional. Values come, in increasing precedence, from
// built-in defaults, a YAML file (--config, or the nearest .matrix-tpl.yaml
// between the working directory and the repository root) and MATRIX_TPL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/ai-infra-matrix/matrix-tpl/internal/compose"
	"github.com/ai-infra-matrix/matrix-tpl/internal/env"
	"github.com/ai-infra-matrix/matrix-tpl/internal/workspace"
)

// DefaultFile is searched for when no --config is given.
const DefaultFile = ".matrix-tpl.yaml"

// EnvPrefix prefixes environment overrides, e.g. MATRIX_TPL_LOG_LEVEL.
const EnvPrefix = "MATRIX_TPL"

// Patch literals used when the config does not override them.
const (
	DefaultEnvVolume    = compose.DefaultEnvVolume
	DefaultEnvFileValue = compose.DefaultEnvFileValue
)

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Render     RenderConfig     `mapstructure:"render"`
	Dockerfile DockerfileConfig `mapstructure:"dockerfile"`
	Compose    ComposeConfig    `mapstructure:"compose"`

	// File is the config file that was read, empty when none was.
	File string `mapstructure:"-"`
}

// LogConfig holds diagnostic output configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RenderConfig holds render-template defaults.
type RenderConfig struct {
	// Strict makes unresolved {{NAME}} tokens a hard error.
	Strict bool `mapstructure:"strict"`
}

// DockerfileConfig extends the built-in substitution catalogue and FROM
// override table. Entries are appended after the built-ins.
type DockerfileConfig struct {
	Catalogue     []string       `mapstructure:"catalogue"`
	FromOverrides []FromOverride `mapstructure:"from_overrides"`
}

// FromOverride maps a hard-coded base image to its templated form.
type FromOverride struct {
	Old string `mapstructure:"old"`
	New string `mapstructure:"new"`
}

// ComposeConfig overrides the literals written by the compose patches.
type ComposeConfig struct {
	EnvVolume    string `mapstructure:"env_volume"`
	EnvFileValue string `mapstructure:"env_file_value"`
}

// Defaults returns the configuration used when no file or override is present.
func Defaults() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Compose: ComposeConfig{
			EnvVolume:    DefaultEnvVolume,
			EnvFileValue: DefaultEnvFileValue,
		},
	}
}

// Load reads configuration. An explicitly named file must exist. Without one,
// the nearest DefaultFile from the working directory up to the repository
// root is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("render.strict", false)
	v.SetDefault("dockerfile.catalogue", []string{})
	v.SetDefault("dockerfile.from_overrides", []map[string]string{})
	v.SetDefault("compose.env_volume", DefaultEnvVolume)
	v.SetDefault("compose.env_file_value", DefaultEnvFileValue)

	file := path
	if file == "" {
		if found, err := workspace.FindUp(".", DefaultFile); err == nil {
			file = found
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				return nil, fmt.Errorf("config file not found: %s", file)
			}
			return nil, fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks catalogue names and override pairs.
func (c *Config) Validate() error {
	for _, name := range c.Dockerfile.Catalogue {
		if !env.ValidName(name) {
			return fmt.Errorf("dockerfile.catalogue: %q is not a valid variable name", name)
		}
	}
	for i, o := range c.Dockerfile.FromOverrides {
		if strings.TrimSpace(o.Old) == "" || strings.TrimSpace(o.New) == "" {
			return fmt.Errorf("dockerfile.from_overrides[%d]: old and new must both be set", i)
		}
	}
	if strings.TrimSpace(c.Compose.EnvVolume) == "" {
		return fmt.Errorf("compose.env_volume must not be empty")
	}
	if strings.TrimSpace(c.Compose.EnvFileValue) == "" {
		return fmt.Errorf("compose.env_file_value must not be empty")
	}
	return nil
}
