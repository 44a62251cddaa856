package layerhash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/layerhash/pkg/layerhash/constants"
)

// Config holds the declarative adapter settings. It can be loaded from a TOML
// or YAML file and overridden by LAYERHASH_* environment variables.
type Config struct {
	Base           string `toml:"base" yaml:"base" env:"BASE"`                                  // Path prefix the app is served under
	Fallback       bool   `toml:"fallback" yaml:"fallback" env:"FALLBACK"`                      // Redirect plain paths into fragment mode at startup
	ScrollBehavior bool   `toml:"scroll_behavior" yaml:"scroll_behavior" env:"SCROLL_BEHAVIOR"` // Request scroll restoration
	LogLevel       string `toml:"log_level" yaml:"log_level" env:"LOG_LEVEL"`                   // debug, info, warn, error
	LogPath        string `toml:"log_path" yaml:"log_path" env:"LOG_PATH"`                      // Optional log file, created with parents
}

// DefaultConfig returns the settings used when nothing is configured. In
// development mode the log level defaults to debug.
func DefaultConfig() Config {
	if constants.IsDevMode() {
		return Config{LogLevel: "debug"}
	}
	return Config{LogLevel: "info"}
}

// LoadConfig reads a TOML or YAML file, chosen by extension, then applies
// environment overrides. An empty path loads environment overrides only.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode toml config: %w", err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode yaml config: %w", err)
			}
		default:
			return Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: constants.EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
