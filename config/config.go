package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ftahirops/xmon/collector"
)

// Themes lists the accepted values of the theme key.
var Themes = []string{"dark", "light", "dracula"}

// Config holds user-configurable defaults.
type Config struct {
	Interval    time.Duration `yaml:"interval"`
	HistorySize int           `yaml:"history_size"`
	TopN        int           `yaml:"top_n"`
	Backend     string        `yaml:"backend"`
	ExportPath  string        `yaml:"export_path"`
	Theme       string        `yaml:"theme"`
	MetricsAddr string        `yaml:"metrics_addr,omitempty"`
	LogLevel    string        `yaml:"log_level"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		Interval:    time.Second,
		HistorySize: 100,
		TopN:        30,
		Backend:     "auto",
		ExportPath:  "processes.csv",
		Theme:       "dark",
		LogLevel:    "info",
	}
}

// Validate replaces out-of-range values with their defaults and returns a
// note for each replacement.
func (c *Config) Validate() []string {
	def := Default()
	var notes []string
	if c.Interval < 100*time.Millisecond {
		notes = append(notes, "interval below 100ms, using "+def.Interval.String())
		c.Interval = def.Interval
	}
	if c.HistorySize < 1 {
		notes = append(notes, "history_size must be positive")
		c.HistorySize = def.HistorySize
	}
	if c.TopN < 1 {
		notes = append(notes, "top_n must be positive")
		c.TopN = def.TopN
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	} else if _, err := collector.ParseBackend(c.Backend); err != nil {
		notes = append(notes, "unknown backend "+strconv.Quote(c.Backend)+", using "+def.Backend)
		c.Backend = def.Backend
	}
	if c.ExportPath == "" {
		c.ExportPath = def.ExportPath
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	} else if !slices.Contains(Themes, strings.ToLower(strings.TrimSpace(c.Theme))) {
		notes = append(notes, "unknown theme "+strconv.Quote(c.Theme)+", using "+def.Theme)
		c.Theme = def.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	} else if _, err := log.ParseLevel(c.LogLevel); err != nil {
		notes = append(notes, "unknown log_level "+strconv.Quote(c.LogLevel)+", using "+def.LogLevel)
		c.LogLevel = def.LogLevel
	}
	return notes
}

// Path returns ~/.config/xmon/config.yaml (or under XDG_CONFIG_HOME).
// Returns empty string if the home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "xmon", "config.yaml")
}

// StateDir returns the directory for logs (XDG_STATE_HOME/xmon).
func StateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "xmon")
}

// Load loads config from the default path; returns defaults on error.
func Load() Config {
	p := Path()
	if p == "" {
		return Default()
	}
	cfg, err := LoadFrom(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("config unusable, using defaults")
	}
	return cfg
}

// LoadFrom reads path over the defaults. On any error the defaults are
// returned together with the error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.WrapIff(err, "parse %s", path)
	}
	for _, note := range cfg.Validate() {
		log.WithField("path", path).Warn(note)
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	p := Path()
	if p == "" {
		return errors.New("cannot determine config directory")
	}
	return SaveTo(p, cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.WrapIf(err, "create config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapIf(err, "encode config")
	}
	return os.WriteFile(path, data, 0600)
}
