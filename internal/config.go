package internal

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/paprika/pkg/paprika"
)

// Environment variables that override the account section.
const (
	EnvEmail    = "PAPRIKA_EMAIL"
	EnvPassword = "PAPRIKA_PASSWORD"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	API     APIConfig         `yaml:"api"`
	Account AccountConfig     `yaml:"account"`
	Sync    SyncConfig        `yaml:"sync"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Account.Validate(); err != nil {
		return fmt.Errorf("account: %w", err)
	}
	if err := c.Sync.Validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// ApplyEnv copies credentials from the environment over the account
// section. Unset variables leave the configured values alone.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvEmail); v != "" {
		c.Account.Email = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Account.Password = v
	}
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// APIConfig describes how to reach the sync API.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// AccountConfig holds the login credentials. Both may be empty in the file
// and supplied through the environment instead.
type AccountConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Validate validates the account configuration.
func (c *AccountConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Email, is.EmailFormat),
	)
}

// HasCredentials reports whether both email and password are set.
func (c *AccountConfig) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// SyncConfig tunes bulk fetches.
type SyncConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(32)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		API: APIConfig{
			BaseURL:   paprika.DefaultBaseURL,
			Timeout:   30 * time.Second,
			UserAgent: "paprika-go/1.0",
		},
		Sync: SyncConfig{
			Concurrency: 4,
		},
	}
}
