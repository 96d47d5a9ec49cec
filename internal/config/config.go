// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the row store: "memory" or "sqlite".
	StoreBackend string `koanf:"store_backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// DefaultMaxMarkers seeds the per-cell capacity setting on first run.
	DefaultMaxMarkers int `koanf:"default_max_markers"`

	// DefaultWeekStart seeds the week-start display setting on first run,
	// as a short day name ("Mon".."Sun").
	DefaultWeekStart string `koanf:"default_week_start"`

	// MaxNestingLevel bounds the longest group-only membership chain.
	MaxNestingLevel int `koanf:"max_nesting_level"`

	// SeedDemoData populates an empty store with demo people and chores.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		StoreBackend:      "memory",
		SQLitePath:        "chorechart.db",
		DefaultMaxMarkers: 2,
		DefaultWeekStart:  "Mon",
		MaxNestingLevel:   3,
		SeedDemoData:      false,
	}
}
