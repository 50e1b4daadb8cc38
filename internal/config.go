package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/zametki/internal/search"
	"github.com/starford/zametki/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

const defaultLocale = "ru"

// Config is the root of config/config.yaml.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Store StoreConfig       `yaml:"store"`
	Auth  AuthConfig        `yaml:"auth"`
}

// Validate fills empty optional values and checks every section.
func (c *Config) Validate() error {
	for _, section := range []validation.Validatable{&c.App, &c.Store, &c.Auth} {
		if err := section.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig covers logging, report language and the HTTP listener.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Locale   string     `yaml:"locale"`
	HTTP     HTTPConfig `yaml:"http"`
}

func (c *ApplicationConfig) Validate() error {
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Locale, validation.In(anySlice(search.Locales)...).
			Error(fmt.Sprintf("must be one of %v", search.Locales))),
		validation.Field(&c.HTTP),
	)
}

// Labels returns the report captions for the configured locale.
func (c *ApplicationConfig) Labels() search.Labels {
	if l, err := search.ForLocale(c.Locale); err == nil {
		return l
	}
	return search.RussianLabels
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the listen address.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig locates the note file.
type StoreConfig struct {
	Path string `yaml:"path"`
	// Watch enables store.changed events for edits made outside the process.
	Watch bool `yaml:"watch"`
}

func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig controls API authentication.
//
// Mode "disabled" (default) leaves the API open, which suits local use.
// Mode "token" requires Authorization: Bearer <Token> on every request.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.In(AuthModeDisabled, AuthModeToken)),
		validation.Field(&c.Token, validation.When(c.Mode == AuthModeToken,
			validation.Required.Error("token is empty while mode is token"))),
	)
}

// AuthEnabled reports whether requests must carry the token.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

func anySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// NewDefaultConfig returns the configuration used when no file is present.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Locale:   defaultLocale,
			HTTP:     HTTPConfig{Port: 8080},
		},
		Store: StoreConfig{Path: storage.DefaultPath, Watch: true},
		Auth:  AuthConfig{Mode: AuthModeDisabled},
	}
}
