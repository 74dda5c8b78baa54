// Package config loads the usermgmt settings from defaults, an optional .env
// file, an optional YAML file and USERMGMT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-usermgmt/pkg/apiclient"
	"github.com/goliatone/go-usermgmt/pkg/fields"
	"github.com/goliatone/go-usermgmt/pkg/userlist"
)

// Environment overrides.
const (
	EnvAPIBaseURL = "USERMGMT_API_BASE_URL"
	EnvListenAddr = "USERMGMT_LISTEN_ADDR"
	EnvLogLevel   = "USERMGMT_LOG_LEVEL"
)

// Config holds all configuration details
type Config struct {
	API    APIConfig                  `yaml:"api"`
	Server ServerConfig               `yaml:"server"`
	UI     UIConfig                   `yaml:"ui"`
	Log    LogConfig                  `yaml:"log"`
	Fields map[string]fields.Override `yaml:"fields"`
}

// APIConfig points at the users REST service.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	Retries           int           `yaml:"retries"`
	ValidateResponses bool          `yaml:"validate_responses"`
}

// ServerConfig configures the web page server.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// UIConfig holds list and theme settings shared by the web and terminal views.
type UIConfig struct {
	PageSize        int    `yaml:"page_size"`
	CompactPageSize int    `yaml:"compact_page_size"`
	ThemeVariant    string `yaml:"theme_variant"`
	TemplatesDir    string `yaml:"templates_dir"`
}

// LogConfig sets the global zerolog level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           apiclient.DefaultBaseURL,
			Timeout:           5 * time.Second,
			Retries:           2,
			ValidateResponses: true,
		},
		Server: ServerConfig{ListenAddr: ":8080"},
		UI: UIConfig{
			PageSize:        userlist.DefaultPageSize,
			CompactPageSize: userlist.CompactPageSize,
			ThemeVariant:    "light",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. A .env file in the working directory is
// applied to the environment first when present. An empty path skips the YAML
// file; a non-empty path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.Decode(raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode merges a YAML document over the current values.
func (c *Config) Decode(raw []byte) error {
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}
	return yaml.Unmarshal(raw, c)
}

// ApplyEnv applies the USERMGMT_* overrides found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIBaseURL); ok && strings.TrimSpace(v) != "" {
		c.API.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvListenAddr); ok && strings.TrimSpace(v) != "" {
		c.Server.ListenAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("config: api.retries must not be negative")
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("config: ui.page_size must be at least 1")
	}
	if c.UI.CompactPageSize < 1 || c.UI.CompactPageSize > c.UI.PageSize {
		return fmt.Errorf("config: ui.compact_page_size must be between 1 and ui.page_size")
	}
	switch c.UI.ThemeVariant {
	case "light", "dark":
	default:
		return fmt.Errorf("config: ui.theme_variant %q must be light or dark", c.UI.ThemeVariant)
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Registry returns the user form fields with the configured overrides.
func (c *Config) Registry() (*fields.Registry, error) {
	return fields.UserForm().WithOverrides(c.Fields)
}

// ClientOptions translates the API settings into REST client options.
func (c *Config) ClientOptions() []apiclient.Option {
	opts := []apiclient.Option{
		apiclient.WithTimeout(c.API.Timeout),
		apiclient.WithRetries(c.API.Retries),
	}
	if c.API.ValidateResponses {
		opts = append(opts, apiclient.WithSchemaValidation(nil))
	}
	return opts
}
