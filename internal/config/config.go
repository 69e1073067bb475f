package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains process-level settings: the ledger core exposes
// no network listener itself, so only logging is configured here.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// MaxOpenConns bounds the connection pool; zero means the driver
	// default.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
}
