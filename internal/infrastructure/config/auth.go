package config

import "time"

// AuthConfig holds credential and token settings
type AuthConfig struct {
	// Seeded on startup so a fresh database can issue tokens
	AdminUsername string `mapstructure:"admin_username" validate:"required"`
	AdminPassword string `mapstructure:"admin_password" validate:"required"`

	// HMAC key for signing bearer tokens
	TokenSecret string `mapstructure:"token_secret" validate:"required,min=16"`

	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"required"`

	// How often expired tokens are purged from the store
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`
}

// HealthConfig holds the gRPC health service configuration
type HealthConfig struct {
	// gRPC listen address; empty disables the health server
	Address string `mapstructure:"address"`
}
