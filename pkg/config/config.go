// Package config loads the calculator settings from a YAML file and the
// command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the home directory.
const DefaultFile = ".rpn.yaml"

// Config holds the session settings.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Precision   int    `yaml:"precision"`  // significant digits, -1 for shortest exact form
	ShowState   bool   `yaml:"show_state"` // render stack and variables after every line
	StackRows   int    `yaml:"stack_rows"` // 0 shows every row
	LogLevel    string `yaml:"log_level"`
	Color       bool   `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Prompt:      "rpn> ",
		HistoryFile: "~/.rpn_history",
		Precision:   -1,
		ShowState:   true,
		StackRows:   10,
		LogLevel:    "warning",
		Color:       true,
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.LogVf("config: %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := cfg.Decode(f); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML from r onto c and validates the result.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: %w", err)
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var issues []string
	if c.Precision != -1 && (c.Precision < 1 || c.Precision > 17) {
		issues = append(issues, fmt.Sprintf("precision must be -1 or between 1 and 17, got %d", c.Precision))
	}
	if c.StackRows < 0 {
		issues = append(issues, fmt.Sprintf("stack_rows must not be negative, got %d", c.StackRows))
	}
	if _, err := log.ValidateLevel(c.LogLevel); err != nil {
		issues = append(issues, fmt.Sprintf("log_level: %v", err))
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// RegisterFlags binds command-line flags that override c. Call it after
// loading the file and before fs.Parse.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Prompt, "prompt", c.Prompt, "Input prompt")
	fs.StringVar(&c.HistoryFile, "history", c.HistoryFile, "History file (empty disables history)")
	fs.IntVar(&c.Precision, "precision", c.Precision, "Significant digits for output (-1 = shortest exact)")
	fs.BoolVar(&c.ShowState, "state", c.ShowState, "Render stack and variables after each line")
	fs.IntVar(&c.StackRows, "rows", c.StackRows, "Maximum rows of the state display (0 = unlimited)")
	fs.StringVar(&c.LogLevel, "loglevel", c.LogLevel, "Log level (debug, verbose, info, warning, error)")
	fs.BoolVar(&c.Color, "color", c.Color, "Colorize errors")
}

// Apply sets the global log level from c.
func (c *Config) Apply() error {
	lvl, err := log.ValidateLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log.SetLogLevel(lvl)
	return nil
}

// HistoryPath returns the history file with a leading ~ expanded, or "" when
// history is disabled.
func (c *Config) HistoryPath() string {
	return ExpandHome(c.HistoryFile)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFile
	}
	return filepath.Join(home, DefaultFile)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
