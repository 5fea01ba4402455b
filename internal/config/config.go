package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"orcgo/internal/logger"
)

// Config holds the CLI's ambient settings: where to log, how verbosely,
// and the defaults applied to "dump" when its flags are left unset. The
// core orc package takes none of this — it is configured entirely
// through Open's functional options.
type Config struct {
	LogDir   string `yaml:"logDir"`
	LogLevel string `yaml:"logLevel"`

	Dump DumpDefaults `yaml:"dump"`

	path string
}

// DumpDefaults are the defaults applied to "orcgo dump" flags left unset
// on the command line.
type DumpDefaults struct {
	RowsPerSecond float64 `yaml:"rowsPerSecond"`
	Delimiter     string  `yaml:"delimiter"`
	NullLiteral   string  `yaml:"nullLiteral"`
}

// ValidationError collects every configuration issue found by Validate,
// rather than failing on the first one.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid configuration")
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	for _, err := range e.Errors {
		b.WriteString("\n - ")
		b.WriteString(err)
	}
	return b.String()
}

// Load reads and validates a YAML configuration file, applying defaults
// for anything left unset.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("opening config file %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	dec := yaml.NewDecoder(file)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", absPath, err)
	}

	cfg.path = absPath
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration used when no config file is
// given on the command line.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-valued fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.LogDir == "" {
		c.LogDir = "./logs"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Dump.Delimiter == "" {
		c.Dump.Delimiter = "\t"
	}
	if c.Dump.NullLiteral == "" {
		c.Dump.NullLiteral = "\\N"
	}
	// RowsPerSecond <= 0 means unlimited; nothing to default.
}

// Validate checks the configuration for internal consistency, collecting
// every problem found rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logLevel %q is not one of debug/info/warn/error", c.LogLevel))
	}

	if c.Dump.RowsPerSecond < 0 {
		errs = append(errs, "dump.rowsPerSecond must not be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Path: c.path, Errors: errs}
	}
	return nil
}

// LogLevelValue maps LogLevel's string form to a logger.Level.
func (c *Config) LogLevelValue() logger.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return logger.DEBUG
	case "warn":
		return logger.WARN
	case "error":
		return logger.ERROR
	default:
		return logger.INFO
	}
}
