// Package config provides configuration loading and management.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Exporter selects where spans go: "none" (default) or "stdout".
	// Env: MODKIT_TRACING_EXPORTER
	Exporter string `mapstructure:"exporter" json:"exporter,omitempty" yaml:"exporter,omitempty"`
}

// Config represents the modkit configuration, loaded from ~/.modkit/config.yaml.
type Config struct {
	// Domains lists domain manifest files loaded when no --domain flag is given.
	// Env: MODKIT_DOMAINS (comma separated)
	Domains []string `mapstructure:"domains" json:"domains,omitempty" yaml:"domains,omitempty"`

	// Match is the default match mode for lookups: "assignable" or "exact".
	// Env: MODKIT_MATCH
	Match string `mapstructure:"match" json:"match,omitempty" yaml:"match,omitempty"`

	// Cleanup is the registry cleanup policy: "closure" or "legacy".
	// Env: MODKIT_CLEANUP
	Cleanup string `mapstructure:"cleanup" json:"cleanup,omitempty" yaml:"cleanup,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" json:"log,omitempty" yaml:"log,omitempty"`

	// Tracing contains tracing settings.
	Tracing TracingConfig `mapstructure:"tracing" json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// Built-in defaults.
const (
	DefaultMatch    = "assignable"
	DefaultCleanup  = "closure"
	DefaultExporter = "none"
)

// DefaultConfig returns a Config with all default values populated.
// Used by `modkit config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Match:   DefaultMatch,
		Cleanup: DefaultCleanup,
		Tracing: TracingConfig{Exporter: DefaultExporter},
	}
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	out.Domains = append([]string(nil), c.Domains...)
	if out.Match == "" {
		out.Match = DefaultMatch
	}
	if out.Cleanup == "" {
		out.Cleanup = DefaultCleanup
	}
	if out.Tracing.Exporter == "" {
		out.Tracing.Exporter = DefaultExporter
	}
	return &out
}
