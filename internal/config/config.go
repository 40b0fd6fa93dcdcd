package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatPDF   = "pdf"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	ConfigFile string `yaml:"-"`

	// Storage
	DBPath string `yaml:"db"`
	Save   bool   `yaml:"save"`

	// Frame sources
	TsharkPath string `yaml:"tshark_path"`
	Native     bool   `yaml:"native"`

	// Output
	Format  string `yaml:"format"`
	NoColor bool   `yaml:"no_color"`

	// HTTP API
	Addr         string  `yaml:"addr"`
	RateLimit    float64 `yaml:"rate_limit"` // requests per second per client
	RateBurst    int     `yaml:"rate_burst"`
	MaxBodyBytes int64   `yaml:"max_body_bytes"`

	// Observability
	Debug        bool   `yaml:"debug"`
	LogFile      string `yaml:"log_file"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
	TraceFile    string `yaml:"trace_file"`
	MetricsFile  string `yaml:"metrics_file"`
}

// Load returns the defaults overlaid with APCAPS_* environment variables.
// Flags bound with BindFlags and the YAML file applied by Resolve take
// precedence over these values.
func Load() *Config {
	return &Config{
		ConfigFile:   getEnv("APCAPS_CONFIG", ""),
		DBPath:       getEnv("APCAPS_DB", getDefaultDBPath()),
		Save:         getEnvBool("APCAPS_SAVE", false),
		TsharkPath:   getEnv("APCAPS_TSHARK", "tshark"),
		Native:       getEnvBool("APCAPS_NATIVE", false),
		Format:       getEnv("APCAPS_FORMAT", FormatTable),
		NoColor:      getEnvBool("APCAPS_NO_COLOR", false),
		Addr:         getEnv("APCAPS_ADDR", ":8080"),
		RateLimit:    getEnvFloat("APCAPS_RATE_LIMIT", 5),
		RateBurst:    getEnvInt("APCAPS_RATE_BURST", 10),
		MaxBodyBytes: int64(getEnvInt("APCAPS_MAX_BODY_BYTES", 4<<20)),
		Debug:        getEnvBool("APCAPS_DEBUG", false),
		LogFile:      getEnv("APCAPS_LOG_FILE", ""),
		LogMaxSizeMB: getEnvInt("APCAPS_LOG_MAX_SIZE_MB", 10),
		TraceFile:    getEnv("APCAPS_TRACE_FILE", ""),
		MetricsFile:  getEnv("APCAPS_METRICS_FILE", ""),
	}
}

// BindFlags registers the global flags on fs, using the current values as
// defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to a YAML configuration file")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "Path to the SQLite report database")
	fs.StringVar(&c.TsharkPath, "tshark-path", c.TsharkPath, "Path to the tshark binary")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable verbose debug logging")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Also write logs to this file (rotated)")
	fs.IntVar(&c.LogMaxSizeMB, "log-max-size", c.LogMaxSizeMB, "Rotate the log file after this many megabytes")
	fs.StringVar(&c.TraceFile, "trace-file", c.TraceFile, "Write OpenTelemetry spans as JSON to this file")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "Dump Prometheus metrics to this file on exit")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable colored terminal output")
}

// Resolve applies the configuration file, if any, and then re-applies every
// flag the user set explicitly on fs.
func (c *Config) Resolve(fs *pflag.FlagSet) error {
	if c.ConfigFile == "" {
		return c.Validate()
	}

	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := c.LoadFile(c.ConfigFile); err != nil {
		return err
	}

	for name, value := range changed {
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("re-apply flag --%s: %w", name, err)
		}
	}
	return c.Validate()
}

// LoadFile overlays the YAML document at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks option values that cannot be enforced by flag types.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatTable, FormatCSV, FormatJSON, FormatPDF:
	default:
		return fmt.Errorf("%w: unknown format %q (want table, csv, json or pdf)", ErrInvalidConfig, c.Format)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate_limit must be positive", ErrInvalidConfig)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("Could not get user home directory, using current dir", "error", err)
		return "apcaps.db"
	}
	return filepath.Join(home, ".apcaps", "apcaps.db")
}

// EnsureDBDir creates the parent directory of the database file.
func (c *Config) EnsureDBDir() error {
	dir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	return nil
}
