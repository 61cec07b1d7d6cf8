// ABOUTME: Configuration loader for the todoctl client
// ABOUTME: Merges defaults, config.yaml, .env and environment variables

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL     = "http://localhost:8080/api"
	DefaultGraphQLURL = "http://localhost:8080/v1/graphql"

	TransportREST    = "rest"
	TransportGraphQL = "graphql"

	configFileName = "config.yaml"
	appDirName     = "todoctl"
)

type Config struct {
	// Backend
	APIURL     string        // REST base URL
	GraphQLURL string        // GraphQL endpoint
	Transport  string        // rest or graphql for todo/admin calls (auth is always REST)
	Timeout    time.Duration // zero leaves the HTTP transport defaults in place
	AllProxy   string        // optional ssh+socks5://user@host:port?private-key=/path
	Coalesce   bool          // merge identical in-flight requests (default: true)

	// Local state
	ConfigDir string // holds the session, config.yaml, recent accounts and debug.log

	// Logging
	LogLevel  string
	LogFormat string
}

// fileConfig is the on-disk shape of config.yaml
type fileConfig struct {
	APIURL     string `yaml:"api_url"`
	GraphQLURL string `yaml:"graphql_url"`
	Transport  string `yaml:"transport"`
	Timeout    string `yaml:"timeout"`
	AllProxy   string `yaml:"all_proxy"`
	Coalesce   *bool  `yaml:"coalesce"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// DefaultDir returns the default config directory under XDG_CONFIG_HOME
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// Load builds the configuration. configDir overrides TODO_CONFIG_DIR and the
// XDG default when non-empty. Flag overrides are applied by the caller,
// which should call Validate afterwards.
func Load(configDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if configDir == "" {
		configDir = getEnv("TODO_CONFIG_DIR", DefaultDir())
	}

	cfg := &Config{
		APIURL:     DefaultAPIURL,
		GraphQLURL: DefaultGraphQLURL,
		Transport:  TransportREST,
		Coalesce:   true,
		ConfigDir:  configDir,
		LogLevel:   "warn",
		LogFormat:  "text",
	}

	if err := cfg.applyFile(filepath.Join(configDir, configFileName)); err != nil {
		return nil, err
	}

	cfg.APIURL = getEnv("TODO_API_URL", cfg.APIURL)
	cfg.GraphQLURL = getEnv("TODO_GRAPHQL_URL", cfg.GraphQLURL)
	cfg.Transport = strings.ToLower(getEnv("TODO_TRANSPORT", cfg.Transport))
	cfg.Timeout = getEnvDuration("TODO_TIMEOUT", cfg.Timeout)
	cfg.AllProxy = getEnv("TODO_ALL_PROXY", cfg.AllProxy)
	cfg.Coalesce = getEnvBool("TODO_COALESCE", cfg.Coalesce)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	return cfg, nil
}

// FilePath returns the location of config.yaml
func (c *Config) FilePath() string {
	return filepath.Join(c.ConfigDir, configFileName)
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", path, err)
	}

	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.GraphQLURL != "" {
		c.GraphQLURL = fc.GraphQLURL
	}
	if fc.Transport != "" {
		c.Transport = strings.ToLower(fc.Transport)
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in %s: %w", path, err)
		}
		c.Timeout = d
	}
	if fc.AllProxy != "" {
		c.AllProxy = fc.AllProxy
	}
	if fc.Coalesce != nil {
		c.Coalesce = *fc.Coalesce
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		c.LogFormat = fc.LogFormat
	}
	return nil
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	if err := validateURL("api url", c.APIURL); err != nil {
		return err
	}
	if c.Transport != TransportREST && c.Transport != TransportGraphQL {
		return fmt.Errorf("transport must be %q or %q, got %q", TransportREST, TransportGraphQL, c.Transport)
	}
	if c.Transport == TransportGraphQL {
		if err := validateURL("graphql url", c.GraphQLURL); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.ConfigDir == "" {
		return fmt.Errorf("config directory could not be determined; set TODO_CONFIG_DIR")
	}
	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
