package config

// Config represents the complete configuration for the ioprof application.
// It covers every command (demo, normalize, serve, bench) and supports loading
// from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Profiling switch
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling" json:"profiling"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Demo run configuration
	Demo DemoConfig `mapstructure:"demo" yaml:"demo" json:"demo"`
}

// ProfilingConfig controls the process-wide profiling switch.
type ProfilingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// OutputConfig contains report output settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host             string `mapstructure:"host" yaml:"host" json:"host"`
	Port             int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin       string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	TimeoutSec       int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout  int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	StreamIntervalMs int    `mapstructure:"stream_interval_ms" yaml:"stream_interval_ms" json:"stream_interval_ms"`
	MetricsEnabled   bool   `mapstructure:"metrics_enabled" yaml:"metrics_enabled" json:"metrics_enabled"`
}

// DemoConfig contains settings for the simulated example run.
type DemoConfig struct {
	// Scale multiplies every simulated wait; 1.0 replays the example in real time.
	Scale float64 `mapstructure:"scale" yaml:"scale" json:"scale"`
}
