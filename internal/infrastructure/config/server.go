package config

import "time"

// ServerConfig holds the SOAP HTTP listener configuration
type ServerConfig struct {
	// Listen address (host:port)
	Address string `mapstructure:"address" validate:"required"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required"`

	// Maximum request body in bytes
	BodyLimit int `mapstructure:"body_limit" validate:"min=1"`

	// Path the SOAP endpoint is mounted on
	SOAPPath string `mapstructure:"soap_path" validate:"required,startswith=/"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Optional single-instance lock file
	PIDFile string `mapstructure:"pid_file"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}
