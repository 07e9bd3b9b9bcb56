package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: 2s\ntop_n: 10\ntheme: light\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Interval)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 100, cfg.HistorySize, "unset keys keep their default")
}

func TestLoadFromBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: [oops\n"), 0600))

	cfg, err := LoadFrom(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateClampsBadValues(t *testing.T) {
	cfg := Config{Interval: time.Millisecond, HistorySize: -1, TopN: 0}
	notes := cfg.Validate()
	assert.Len(t, notes, 3)
	assert.Equal(t, Default(), cfg)
}

func TestValidateResetsUnknownNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		notes  int
	}{
		{"valid", func(c *Config) { c.Backend, c.Theme, c.LogLevel = "psutil", "dracula", "debug" }, 0},
		{"case insensitive", func(c *Config) { c.Backend, c.Theme, c.LogLevel = "PROC", "Light", "WARN" }, 0},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, 1},
		{"bad backend", func(c *Config) { c.Backend = "bogus" }, 1},
		{"bad theme", func(c *Config) { c.Theme = "solarized" }, 1},
		{"all bad", func(c *Config) { c.Backend, c.Theme, c.LogLevel = "x", "y", "z" }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			want := cfg
			notes := cfg.Validate()
			assert.Len(t, notes, tt.notes)
			if tt.notes == 0 {
				assert.Equal(t, want, cfg)
				return
			}
			def := Default()
			if want.LogLevel != cfg.LogLevel {
				assert.Equal(t, def.LogLevel, cfg.LogLevel)
			}
			if want.Backend != cfg.Backend {
				assert.Equal(t, def.Backend, cfg.Backend)
			}
			if want.Theme != cfg.Theme {
				assert.Equal(t, def.Theme, cfg.Theme)
			}
		})
	}
}

func TestLoadFromResetsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: verbose\nbackend: bogus\ntop_n: 5\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, 5, cfg.TopN)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Default()
	want.Interval = 3 * time.Second
	want.MetricsAddr = "127.0.0.1:9109"
	require.NoError(t, SaveTo(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "xmon", "config.yaml"), Path())
	assert.Equal(t, filepath.Join(dir, "xmon"), StateDir())
}
