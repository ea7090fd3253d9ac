// Package config holds runtime configuration: defaults, config file loading,
// CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// NameCase selects the letter case of generated UUID names.
type NameCase string

const (
	CaseUpper NameCase = "upper" // 3F2504E0-4F89-41D3-9A0C-0305E82C3301 (default).
	CaseLower NameCase = "lower" // 3f2504e0-4f89-41d3-9a0c-0305e82c3301.
)

// AccessMode controls how each dropped root is held for the batch.
type AccessMode string

const (
	AccessNone AccessMode = "none" // Default filesystem access only.
	AccessHold AccessMode = "hold" // Keep a read handle on every root until the batch ends (default).
)

// LogFormat selects the log encoding.
type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

// Config holds all runtime settings. Start from [DefaultConfig], overlay a
// file with [Load], then let [Config.BindFlags] apply command-line overrides.
type Config struct {
	// Input resolution.
	Workers int `yaml:"workers" toml:"workers"` // Concurrent drop-handle resolutions. Default: 8.

	// Naming.
	MaxAttempts int      `yaml:"max_attempts" toml:"max_attempts"` // Random names tried before the numeric fallback. Default: 16.
	NameCase    NameCase `yaml:"name_case" toml:"name_case"`

	// Batch behavior.
	Access AccessMode `yaml:"access" toml:"access"`
	DryRun bool       `yaml:"dry_run" toml:"dry_run"`

	// Logging.
	LogLevel  string    `yaml:"log_level" toml:"log_level"` // zerolog level name. Default: "info".
	LogFormat LogFormat `yaml:"log_format" toml:"log_format"`
	LogFile   string    `yaml:"log_file" toml:"log_file"` // Optional append-only log file.
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		Workers:     8,
		MaxAttempts: 16,
		NameCase:    CaseUpper,
		Access:      AccessHold,
		LogLevel:    "info",
		LogFormat:   LogConsole,
	}
}

// Load overlays the file at path onto cfg. The format is chosen by
// extension: .yaml/.yml or .toml. Keys missing from the file keep their
// current values.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported format (want .yaml, .yml or .toml)", path)
	}
	return nil
}

// BindFlags registers one flag per setting on fs, using the current field
// values as defaults, so flags parsed afterwards override file values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Workers, "workers", c.Workers, "concurrent drop-item resolutions")
	fs.IntVar(&c.MaxAttempts, "max-attempts", c.MaxAttempts, "random names tried per file before the numeric fallback")
	fs.Var(newEnumValue((*string)(&c.NameCase), string(CaseUpper), string(CaseLower)), "name-case", "generated name case: upper|lower")
	fs.Var(newEnumValue((*string)(&c.Access), string(AccessNone), string(AccessHold)), "access", "root access mode: none|hold")
	fs.BoolVarP(&c.DryRun, "dry-run", "n", c.DryRun, "plan new names without renaming")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: trace|debug|info|warn|error")
	fs.Var(newEnumValue((*string)(&c.LogFormat), string(LogConsole), string(LogJSON)), "log-format", "log format: console|json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "append logs to this file")
}

// ApplyFile loads path into c after flags were parsed, then re-applies every
// flag the user set explicitly so the command line still wins.
func (c *Config) ApplyFile(path string, fs *pflag.FlagSet) error {
	type override struct{ name, value string }
	var set []override
	fs.Visit(func(f *pflag.Flag) {
		set = append(set, override{f.Name, f.Value.String()})
	})

	if err := Load(path, c); err != nil {
		return err
	}
	for _, o := range set {
		if err := fs.Set(o.name, o.value); err != nil {
			return fmt.Errorf("flag --%s: %w", o.name, err)
		}
	}
	return nil
}

// Validate checks ranges and enum values.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts))
	}
	switch c.NameCase {
	case CaseUpper, CaseLower:
	default:
		errs = append(errs, fmt.Errorf("name_case must be upper or lower, got %q", c.NameCase))
	}
	switch c.Access {
	case AccessNone, AccessHold:
	default:
		errs = append(errs, fmt.Errorf("access must be none or hold, got %q", c.Access))
	}
	switch c.LogFormat {
	case LogConsole, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// enumValue is a pflag.Value restricted to a fixed set of strings.
type enumValue struct {
	target  *string
	allowed []string
}

func newEnumValue(target *string, allowed ...string) *enumValue {
	return &enumValue{target: target, allowed: allowed}
}

func (e *enumValue) String() string {
	if e == nil || e.target == nil {
		return ""
	}
	return *e.target
}

func (e *enumValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range e.allowed {
		if s == a {
			*e.target = s
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, "|"))
}

func (e *enumValue) Type() string { return "string" }
