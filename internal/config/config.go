// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Content  ContentConfig  `mapstructure:"content"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains the session token settings.
type AuthConfig struct {
	// TokenSecret signs session access tokens (HMAC-SHA256).
	TokenSecret string `mapstructure:"token_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes bounds how long a minted session token stays
	// valid.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ContentConfig points at the curriculum catalog and reference lexicon.
// Both are optional: an empty curriculum path selects the catalog embedded
// in the binary, and an empty references dir disables hint words.
type ContentConfig struct {
	CurriculumPath string `mapstructure:"curriculum_path"`
	ReferencesDir  string `mapstructure:"references_dir"`
}
