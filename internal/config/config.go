package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/report"
	"github.com/MeKo-Tech/ioprof/internal/server"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Profiling: ProfilingConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Format: report.FormatText,
		},
		Server: ServerConfig{
			Host:             "localhost",
			Port:             8080,
			CORSOrigin:       "*",
			TimeoutSec:       30,
			ShutdownTimeout:  10,
			StreamIntervalMs: 1000,
			MetricsEnabled:   true,
		},
		Demo: DemoConfig{
			Scale: 1.0,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := report.Formats()
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %w: %s (must be one of: %s)", report.ErrUnknownFormat, c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %d (must be positive)", c.Server.ShutdownTimeout)
	}
	if c.Server.StreamIntervalMs <= 0 {
		return fmt.Errorf("invalid stream interval: %d (must be positive)", c.Server.StreamIntervalMs)
	}

	if c.Demo.Scale <= 0 {
		return fmt.Errorf("invalid demo scale: %.2f (must be positive)", c.Demo.Scale)
	}

	return nil
}

// ToServerConfig converts the config to the server package configuration.
func (c *Config) ToServerConfig() server.Config {
	return server.Config{
		Host:           c.Server.Host,
		Port:           c.Server.Port,
		CORSOrigin:     c.Server.CORSOrigin,
		TimeoutSec:     c.Server.TimeoutSec,
		StreamInterval: time.Duration(c.Server.StreamIntervalMs) * time.Millisecond,
		MetricsEnabled: c.Server.MetricsEnabled,
		DemoScale:      c.Demo.Scale,
	}
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
