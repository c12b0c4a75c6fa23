package config

import (
	"errors"
	"testing"
)

func TestGetAccessKey_EnvWins(t *testing.T) {
	t.Setenv("RINGMASTER_ACCESS_KEY", "env-key")
	cfg := &Config{Managed: ManagedConfig{AccessKey: "config-key"}}

	key, err := GetAccessKey(cfg)
	if err != nil {
		t.Fatalf("GetAccessKey: %v", err)
	}
	if key != "env-key" {
		t.Errorf("key = %q, want env-key", key)
	}
	if GetAccessKeySource(cfg) != KeySourceEnv {
		t.Errorf("source = %s", GetAccessKeySource(cfg))
	}
}

func TestGetAccessKey_ConfigFallback(t *testing.T) {
	t.Setenv("RINGMASTER_ACCESS_KEY", "")
	cfg := &Config{Managed: ManagedConfig{AccessKey: "config-key"}}

	key, err := GetAccessKey(cfg)
	if err != nil {
		t.Fatalf("GetAccessKey: %v", err)
	}
	if key != "config-key" {
		t.Errorf("key = %q", key)
	}
	if GetAccessKeySource(cfg) != KeySourceConfig {
		t.Errorf("source = %s", GetAccessKeySource(cfg))
	}
}

func TestGetAccessKey_Missing(t *testing.T) {
	t.Setenv("RINGMASTER_ACCESS_KEY", "")

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"empty config", &Config{}},
		{"unresolved reference", &Config{Managed: ManagedConfig{AccessKey: "${UNSET_RM_VAR_XYZ}"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GetAccessKey(tt.cfg); !errors.Is(err, ErrNoAccessKey) {
				t.Errorf("err = %v, want ErrNoAccessKey", err)
			}
			if GetAccessKeySource(tt.cfg) != KeySourceNone {
				t.Errorf("source = %s", GetAccessKeySource(tt.cfg))
			}
		})
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "***"},
		{"rk_live_0123456789abcdef", "rk_l...cdef"},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.key); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
