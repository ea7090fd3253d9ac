package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CaseUpper, cfg.NameCase)
	assert.Equal(t, AccessHold, cfg.Access)
	assert.Equal(t, 16, cfg.MaxAttempts)
	assert.False(t, cfg.DryRun)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "uuidrenamer.yaml", "workers: 3\nname_case: lower\ndry_run: true\nlog_format: json\n")

	cfg := DefaultConfig()
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, CaseLower, cfg.NameCase)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, LogJSON, cfg.LogFormat)
	// Untouched keys keep defaults.
	assert.Equal(t, 16, cfg.MaxAttempts)
	assert.Equal(t, AccessHold, cfg.Access)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "uuidrenamer.toml", "max_attempts = 4\naccess = \"none\"\nlog_level = \"debug\"\n")

	cfg := DefaultConfig()
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, 4, cfg.MaxAttempts)
	assert.Equal(t, AccessNone, cfg.Access)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "uuidrenamer.ini", "workers=2\n")
	cfg := DefaultConfig()
	assert.Error(t, Load(path, &cfg))
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBindFlags_OverrideFileValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 3 // as if loaded from a file

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--name-case", "LOWER", "-n", "--max-attempts", "2"}))

	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, CaseLower, cfg.NameCase)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 2, cfg.MaxAttempts)
}

func TestBindFlags_RejectsUnknownEnum(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.BindFlags(fs)
	assert.Error(t, fs.Parse([]string{"--access", "sudo"}))
	assert.Equal(t, AccessHold, cfg.Access)
}

func TestApplyFile_FlagsWin(t *testing.T) {
	path := writeFile(t, "uuidrenamer.yaml", "workers: 3\nname_case: lower\nmax_attempts: 5\n")

	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--workers", "2", "-n"}))
	require.NoError(t, cfg.ApplyFile(path, fs))

	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, CaseLower, cfg.NameCase)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestApplyFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse(nil))
	assert.ErrorIs(t, cfg.ApplyFile(filepath.Join(t.TempDir(), "nope.toml"), fs), os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"bad case", func(c *Config) { c.NameCase = "title" }},
		{"bad access", func(c *Config) { c.Access = "root" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
