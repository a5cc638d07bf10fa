package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scistudy/internal/models"
	"github.com/starford/scistudy/internal/storage"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Timer   TimerConfig       `yaml:"timer"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Timer.Validate(); err != nil {
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
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig selects the key-value driver.
//
// For "sqlite" Path is the database file; for "file" it is a directory with
// one JSON document per key, watched for external edits.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(storage.DriverSQLite, storage.DriverFile)),
		validation.Field(&c.Path, validation.Required),
	)
}

// TimerConfig holds the default phase durations used until the user saves
// their own.
type TimerConfig struct {
	Focus      time.Duration `yaml:"focus"`
	ShortBreak time.Duration `yaml:"short_break"`
	LongBreak  time.Duration `yaml:"long_break"`
}

// Validate validates the timer configuration.
func (c *TimerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Focus, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.ShortBreak, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.LongBreak, validation.Required, validation.Min(time.Minute)),
	)
}

// Settings converts the durations to whole seconds.
func (c *TimerConfig) Settings() models.TimerSettings {
	return models.TimerSettings{
		FocusDuration:      int(c.Focus / time.Second),
		ShortBreakDuration: int(c.ShortBreak / time.Second),
		LongBreakDuration:  int(c.LongBreak / time.Second),
	}
}

// CatalogConfig points at an optional term catalog file. Empty uses the
// built-in catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
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
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			Driver: storage.DriverSQLite,
			Path:   "./scistudy.db",
		},
		Timer: TimerConfig{
			Focus:      25 * time.Minute,
			ShortBreak: 5 * time.Minute,
			LongBreak:  15 * time.Minute,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
