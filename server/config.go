package server

import (
	"fmt"
	"time"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize  string `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "1MB"

	// InvokeTimeout bounds a single pipeline invocation (e.g. "30s"). "0" disables it.
	InvokeTimeout string `yaml:"invoke_timeout" mapstructure:"invoke_timeout"`

	// HealthTimeout bounds the /health probe of dependencies.
	HealthTimeout string `yaml:"health_timeout" mapstructure:"health_timeout"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.InvokeTimeout == "" {
		c.InvokeTimeout = "30s"
	}
	if c.HealthTimeout == "" {
		c.HealthTimeout = "2s"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if _, err := time.ParseDuration(c.InvokeTimeout); err != nil {
		return fmt.Errorf("server.invoke_timeout is invalid (got: %s): %w", c.InvokeTimeout, err)
	}
	if _, err := time.ParseDuration(c.HealthTimeout); err != nil {
		return fmt.Errorf("server.health_timeout is invalid (got: %s): %w", c.HealthTimeout, err)
	}
	return nil
}

func (c *Config) invokeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.InvokeTimeout)
	return d
}

func (c *Config) healthTimeout() time.Duration {
	d, _ := time.ParseDuration(c.HealthTimeout)
	return d
}
