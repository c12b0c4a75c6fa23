// Package config provides credential resolution utilities.
package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAccessKey is returned when no managed backend access key is configured.
var ErrNoAccessKey = errors.New("no managed backend access key configured")

// GetAccessKey returns the managed backend access key.
// It checks in order: environment variable, config file.
func GetAccessKey(cfg *Config) (string, error) {
	if key := os.Getenv("RINGMASTER_ACCESS_KEY"); key != "" {
		return key, nil
	}

	if cfg != nil && cfg.Managed.AccessKey != "" {
		key := os.ExpandEnv(cfg.Managed.AccessKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}

	return "", ErrNoAccessKey
}

// MaskKey returns a masked version of a credential for display.
// Shows the first 4 and last 4 characters.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 12 {
		return "***"
	}

	return key[:4] + "..." + key[len(key)-4:]
}

// KeySource represents where a credential was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAccessKeySource returns where the access key was sourced from.
func GetAccessKeySource(cfg *Config) KeySource {
	if os.Getenv("RINGMASTER_ACCESS_KEY") != "" {
		return KeySourceEnv
	}

	if cfg != nil && cfg.Managed.AccessKey != "" {
		key := os.ExpandEnv(cfg.Managed.AccessKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return KeySourceConfig
		}
	}

	return KeySourceNone
}
