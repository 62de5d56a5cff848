package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/menutree/internal/menu"
	"github.com/starford/menutree/internal/parser"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Tree   TreeConfig        `yaml:"tree"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Search SearchConfig      `yaml:"search"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Tree.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

// TreeConfig locates the menu tree document.
type TreeConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the tree configuration.
func (c *TreeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required, validation.By(supportedDocument)),
	)
}

// Dir returns the directory that holds the tree document.
func (c *TreeConfig) Dir() string {
	return filepath.Dir(c.Path)
}

// File returns the tree document name relative to Dir.
func (c *TreeConfig) File() string {
	return filepath.Base(c.Path)
}

func supportedDocument(value any) error {
	path, _ := value.(string)
	_, err := parser.FormatFromPath(path)
	return err
}

// SQLiteConfig holds SQLite database configuration. An empty Path disables
// the last known good snapshot.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether a snapshot database is configured.
func (c *SQLiteConfig) Enabled() bool {
	return c.Path != ""
}

// SearchConfig tunes the search engine.
type SearchConfig struct {
	CacheSize      int  `yaml:"cache_size"`
	ExpandMatched  bool `yaml:"expand_matched"`
	ContainerPaths bool `yaml:"container_paths"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CacheSize, validation.Min(0)),
	)
}

// Options translates the configuration into search options.
func (c *SearchConfig) Options() []menu.Option {
	var opts []menu.Option
	if c.ExpandMatched {
		opts = append(opts, menu.WithExpandMatched())
	}
	if c.ContainerPaths {
		opts = append(opts, menu.WithContainerPaths())
	}
	return opts
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:            8080,
				ShutdownTimeout: 10 * time.Second,
			},
		},
		Tree: TreeConfig{
			Path:  "./config/menu.json",
			Watch: true,
		},
		SQLite: SQLiteConfig{
			Path: "./menutree.db",
		},
		Search: SearchConfig{
			CacheSize: 256,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
