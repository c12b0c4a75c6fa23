// Package config handles configuration loading for ringmaster.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for ringmaster.
type Config struct {
	Managed  ManagedConfig  `mapstructure:"managed"`
	Protocol ProtocolConfig `mapstructure:"protocol"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Debug    DebugConfig    `mapstructure:"debug"`
}

// ManagedConfig holds hosted backend settings.
type ManagedConfig struct {
	EndpointURL string `mapstructure:"endpoint_url"`
	AccessKey   string `mapstructure:"access_key"`
}

// ProtocolConfig holds MCP server settings for the protocol transport.
type ProtocolConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LLMConfig holds model provider settings for the llm agent.
type LLMConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// DefaultsConfig holds default values for runs.
type DefaultsConfig struct {
	Workflow     string `mapstructure:"workflow"`
	OutDir       string `mapstructure:"out_dir"`
	Workers      int    `mapstructure:"workers"`
	WorkflowsDir string `mapstructure:"workflows_dir"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	LogFile string `mapstructure:"log_file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (RINGMASTER_*)
// 2. Project config (.ringmaster.yaml in current directory or parent)
// 3. User config (~/.config/ringmaster/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over the user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()

	v.BindEnv("managed.endpoint_url", "RINGMASTER_ENDPOINT_URL")
	v.BindEnv("managed.access_key", "RINGMASTER_ACCESS_KEY")
	v.BindEnv("protocol.command", "RINGMASTER_PROTOCOL_COMMAND")
	v.BindEnv("llm.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("debug.log_file", "RINGMASTER_DEBUG_LOG")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials.
	cfg.Managed.AccessKey = expandEnv(cfg.Managed.AccessKey)
	cfg.LLM.APIKey = expandEnv(cfg.LLM.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Managed.AccessKey = expandEnv(cfg.Managed.AccessKey)
	cfg.LLM.APIKey = expandEnv(cfg.LLM.APIKey)

	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("managed.endpoint_url", "")
	v.SetDefault("managed.access_key", "")

	v.SetDefault("protocol.command", "")
	v.SetDefault("protocol.args", []string{})

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.use_aws_bedrock", false)

	v.SetDefault("defaults.workflow", "repo-audit")
	v.SetDefault("defaults.out_dir", ".ringmaster/runs")
	v.SetDefault("defaults.workers", 4)
	v.SetDefault("defaults.workflows_dir", ".ringmaster/workflows")

	v.SetDefault("debug.log_file", "")
}

// getUserConfigDir returns the XDG config directory for ringmaster.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ringmaster")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "ringmaster")
	}
	return filepath.Join(home, ".config", "ringmaster")
}

// findProjectConfig searches for .ringmaster.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".ringmaster.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Workflow:     "repo-audit",
			OutDir:       ".ringmaster/runs",
			Workers:      4,
			WorkflowsDir: ".ringmaster/workflows",
		},
	}
}
