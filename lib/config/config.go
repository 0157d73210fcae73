// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dutymate/dutymate-v2-sub000/lib/dutyclient"
	"github.com/dutymate/dutymate-v2-sub000/lib/editor"
	"github.com/dutymate/dutymate-v2-sub000/lib/export"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rostersync"
)

// Environment variables consulted by Load.
const (
	EnvConfig  = "DUTYROSTER_CONFIG"
	EnvBaseURL = "DUTYROSTER_BASE_URL"
	EnvToken   = "DUTYROSTER_TOKEN"
)

// Config is the complete dutyroster configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Editor   EditorConfig   `yaml:"editor"`
	Calendar CalendarConfig `yaml:"calendar"`
	Log      LogConfig      `yaml:"log"`
	Export   ExportConfig   `yaml:"export"`

	// Path is the file the configuration was read from, empty when
	// only defaults apply.
	Path string `yaml:"-"`
}

// ServerConfig locates the duty API.
type ServerConfig struct {
	// BaseURL is the API root including the /api prefix.
	BaseURL string `yaml:"base_url"`

	// Token is the bearer token. Prefer TokenEnv.
	Token string `yaml:"token"`

	// TokenEnv names an environment variable holding the token. It is
	// read when Token is empty.
	TokenEnv string `yaml:"token_env"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`
}

// EditorConfig tunes the interactive editor.
type EditorConfig struct {
	// QuietPeriod is how long after the last keystroke edits are sent.
	QuietPeriod time.Duration `yaml:"quiet_period"`

	// MaxMonthsAhead is how many months past the current one may be
	// opened.
	MaxMonthsAhead int `yaml:"max_months_ahead"`

	// CellWidth is the rendered width of one day column.
	CellWidth int `yaml:"cell_width"`
}

// CalendarConfig lists the ward's public holidays.
type CalendarConfig struct {
	Holidays []HolidayEntry `yaml:"holidays"`
}

// HolidayEntry is one holiday. In YAML it is either a bare date
// ("2026-10-09") or a mapping with date and name.
type HolidayEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (entry *HolidayEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		entry.Date = node.Value
		return nil
	}
	type plain HolidayEntry
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*entry = HolidayEntry(decoded)
	return nil
}

// LogConfig controls diagnostics.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// ExportConfig sets where exports go.
type ExportConfig struct {
	// Directory receives export files. ${HOME} is expanded.
	Directory string `yaml:"directory"`

	// Format is the default export format name.
	Format string `yaml:"format"`
}

// Default returns a configuration that works against the production
// API given a token.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:  dutyclient.DefaultBaseURL,
			TokenEnv: EnvToken,
			Timeout:  15 * time.Second,
		},
		Editor: EditorConfig{
			QuietPeriod:    rostersync.DefaultQuietPeriod,
			MaxMonthsAhead: editor.DefaultMaxMonthsAhead,
			CellWidth:      3,
		},
		Log:    LogConfig{Level: "info"},
		Export: ExportConfig{Directory: ".", Format: export.FormatXLSX.String()},
	}
}

// DefaultPath returns ~/.config/dutyroster/config.yaml, or "" if the
// user configuration directory is unknown.
func DefaultPath() string {
	directory, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(directory, "dutyroster", "config.yaml")
}

// Load resolves the configuration file (see the package comment),
// applies environment overrides and validates the result. An explicit
// path, from the flag or DUTYROSTER_CONFIG, must exist; the default
// path may be absent.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case !explicit && errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		default:
			return nil, err
		}
	}

	cfg.applyEnvironment(os.Getenv)
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		if cfg.Path != "" {
			return nil, fmt.Errorf("%s: %w", cfg.Path, err)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path over the defaults without environment overrides
// or validation.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// loadFile merges one file into the config. JSON is a subset of YAML,
// so JSONC files decode through the same path once comments are gone;
// that keeps duration strings like "15s" working in both formats.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironment lets the environment override the server section.
func (c *Config) applyEnvironment(getenv func(string) string) {
	if value := getenv(EnvBaseURL); value != "" {
		c.Server.BaseURL = value
	}
	if value := getenv(EnvToken); value != "" {
		c.Server.Token = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in paths.
func (c *Config) expandVariables() {
	c.Export.Directory = expandVars(c.Export.Directory)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field and reports each problem with its key.
func (c *Config) Validate() error {
	var errs []error

	if parsed, err := url.Parse(c.Server.BaseURL); err != nil || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url %q is not an absolute URL", c.Server.BaseURL))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("server.timeout must be positive"))
	}
	if c.Editor.QuietPeriod <= 0 {
		errs = append(errs, fmt.Errorf("editor.quiet_period must be positive"))
	}
	if c.Editor.MaxMonthsAhead < 0 {
		errs = append(errs, fmt.Errorf("editor.max_months_ahead must not be negative"))
	}
	if c.Editor.CellWidth < 2 {
		errs = append(errs, fmt.Errorf("editor.cell_width must be at least 2"))
	}
	if _, err := c.Holidays(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		errs = append(errs, fmt.Errorf("export.format: %w", err))
	}

	return errors.Join(errs...)
}

// ResolveToken returns the bearer token: Token, or the value of
// TokenEnv.
func (c *Config) ResolveToken() string {
	if c.Server.Token != "" {
		return c.Server.Token
	}
	if c.Server.TokenEnv != "" {
		return os.Getenv(c.Server.TokenEnv)
	}
	return ""
}

// Holidays parses the configured holidays.
func (c *Config) Holidays() ([]roster.Holiday, error) {
	holidays := make([]roster.Holiday, 0, len(c.Calendar.Holidays))
	for index, entry := range c.Calendar.Holidays {
		date, err := time.Parse(time.DateOnly, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar.holidays[%d]: %q is not a YYYY-MM-DD date", index, entry.Date)
		}
		holidays = append(holidays, roster.Holiday{Date: date, Name: entry.Name})
	}
	return holidays, nil
}

// RosterCalendar returns the calendar built from the holidays. Call
// after Validate.
func (c *Config) RosterCalendar() roster.Calendar {
	holidays, _ := c.Holidays()
	return roster.NewCalendar(holidays...)
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	return level, nil
}

// ExportFormat returns the parsed default export format. Call after
// Validate.
func (c *Config) ExportFormat() export.Format {
	format, _ := export.ParseFormat(c.Export.Format)
	return format
}

// EnsureExportDirectory creates the export directory if needed.
func (c *Config) EnsureExportDirectory() error {
	if c.Export.Directory == "" {
		return nil
	}
	if err := os.MkdirAll(c.Export.Directory, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Export.Directory, err)
	}
	return nil
}
