// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies precedence of defaults, config.yaml, .env and environment

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TODO_API_URL", "TODO_GRAPHQL_URL", "TODO_TRANSPORT", "TODO_TIMEOUT",
		"TODO_ALL_PROXY", "TODO_COALESCE", "TODO_CONFIG_DIR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.Transport != TransportREST {
		t.Errorf("Expected rest transport, got %s", cfg.Transport)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Expected no client timeout by default, got %s", cfg.Timeout)
	}
	if !cfg.Coalesce {
		t.Error("Expected coalescing enabled by default")
	}
	if cfg.ConfigDir != dir {
		t.Errorf("Expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yamlData := `api_url: https://todo.example.com/api
transport: GraphQL
timeout: 15s
coalesce: false
log_level: debug
`
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlData), 0600)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "https://todo.example.com/api" {
		t.Errorf("Expected API URL from file, got %s", cfg.APIURL)
	}
	if cfg.Transport != TransportGraphQL {
		t.Errorf("Expected graphql transport from file, got %s", cfg.Transport)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Expected 15s timeout, got %s", cfg.Timeout)
	}
	if cfg.Coalesce {
		t.Error("Expected coalescing disabled by file")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: https://file.example.com/api\n"), 0600)
	t.Setenv("TODO_API_URL", "https://env.example.com/api")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != "https://env.example.com/api" {
		t.Errorf("Expected env to override file, got %s", cfg.APIURL)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("TODO_GRAPHQL_URL")
	work := t.TempDir()
	os.WriteFile(filepath.Join(work, ".env"), []byte("TODO_GRAPHQL_URL=https://dotenv.example.com/v1/graphql\n"), 0600)
	t.Chdir(work)
	t.Cleanup(func() { os.Unsetenv("TODO_GRAPHQL_URL") })

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.GraphQLURL != "https://dotenv.example.com/v1/graphql" {
		t.Errorf("Expected GraphQL URL from .env, got %s", cfg.GraphQLURL)
	}
}

func TestLoad_ConfigDirFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("TODO_CONFIG_DIR", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("Expected config dir from env, got %s", cfg.ConfigDir)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("timeout: soon\n"), 0600)

	if _, err := Load(dir); err == nil {
		t.Error("Expected error for invalid timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"relative api url", func(c *Config) { c.APIURL = "/api" }, true},
		{"ftp api url", func(c *Config) { c.APIURL = "ftp://example.com" }, true},
		{"unknown transport", func(c *Config) { c.Transport = "grpc" }, true},
		{"graphql without url", func(c *Config) { c.Transport = TransportGraphQL; c.GraphQLURL = "" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"no config dir", func(c *Config) { c.ConfigDir = "" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				APIURL:     DefaultAPIURL,
				GraphQLURL: DefaultGraphQLURL,
				Transport:  TransportREST,
				ConfigDir:  "/tmp/todoctl",
			}
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	if got := DefaultDir(); got != "/custom/config/todoctl" {
		t.Errorf("expected /custom/config/todoctl, got %s", got)
	}
}
