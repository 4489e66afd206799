package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ToolConfig is the tool's own configuration, loaded from
// ~/.claude-skills/config.yaml with CLAUDE_SKILLS_* environment overrides.
type ToolConfig struct {
	LogLevel     string   `mapstructure:"log_level"`
	LogFile      string   `mapstructure:"log_file"`
	LibraryRoots []string `mapstructure:"library_roots"`
	Editor       string   `mapstructure:"editor"`
}

// Default returns the built-in tool configuration.
func Default() *ToolConfig {
	return &ToolConfig{
		LogLevel: "info",
	}
}

// SetDefaults registers defaults with viper.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("library_roots", d.LibraryRoots)
	v.SetDefault("editor", d.Editor)
}

// ToolConfigPath returns the default config.yaml location.
func ToolConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude-skills", "config.yaml"), nil
}

// LoadToolConfig reads the tool config. A missing file is not an error;
// defaults and environment variables still apply. If path is empty the
// default location is used.
func LoadToolConfig(path string) (*ToolConfig, error) {
	v := viper.New()
	SetDefaults(v)

	if path == "" {
		defaultPath, err := ToolConfigPath()
		if err == nil {
			path = defaultPath
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CLAUDE_SKILLS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg ToolConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
