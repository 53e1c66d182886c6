// Package config loads calc settings from a YAML file.
//
// EXAMPLE (~/.calc.yaml):
//
//	prompt: "calc> "
//	history_file: ~/.calc_history
//	max_call_depth: 500
//	fold_constants: true
//	show_globals: false
//	trace: info
//
// Every key is optional; missing keys keep their default. Unknown keys are
// an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"

	"github.com/hassan/calc/internal/interp"
)

// DefaultFile is the name of the configuration file looked up in the home
// directory when no path is given.
const DefaultFile = ".calc.yaml"

// Config holds the settings of one calc process.
type Config struct {
	// Prompt is printed before each REPL line.
	Prompt string `yaml:"prompt"`

	// ContinuationPrompt is printed while an unfinished input continues on
	// the next line.
	ContinuationPrompt string `yaml:"continuation_prompt"`

	// HistoryFile is where REPL history is kept. A leading "~/" is expanded
	// to the home directory. Empty disables history.
	HistoryFile string `yaml:"history_file"`

	// MaxCallDepth limits nested function calls; 0 means the interpreter's
	// default. At most interp.MaxCallDepthLimit.
	MaxCallDepth int `yaml:"max_call_depth"`

	// FoldConstants enables constant folding before evaluation.
	FoldConstants bool `yaml:"fold_constants"`

	// ShowGlobals prints the global bindings after every successful input.
	ShowGlobals bool `yaml:"show_globals"`

	// Trace is the trace level: "error", "info" or "debug".
	Trace string `yaml:"trace"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:             "calc> ",
		ContinuationPrompt: "  ... ",
		HistoryFile:        "~/.calc_history",
		Trace:              "error",
	}
}

// DefaultPath returns the path of DefaultFile in the home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultFile), nil
}

// Load reads settings from path on top of Default. An empty file yields the
// defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	return decode(file, path)
}

// LoadDefault reads the file at DefaultPath. A missing file is not an
// error; the defaults are returned instead.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func decode(r io.Reader, name string) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}
	if c.MaxCallDepth > interp.MaxCallDepthLimit {
		return fmt.Errorf("max_call_depth must be at most %d, got %d", interp.MaxCallDepthLimit, c.MaxCallDepth)
	}
	switch strings.ToLower(c.Trace) {
	case "", "error", "info", "debug":
	default:
		return fmt.Errorf("trace must be one of error, info, debug; got %q", c.Trace)
	}
	return nil
}

// TraceLevel converts Trace to a tracing level. Empty means errors only.
func (c *Config) TraceLevel() tracing.TraceLevel {
	if c.Trace == "" {
		return tracing.LevelError
	}
	return tracing.TraceLevelFromString(c.Trace)
}

// HistoryPath returns HistoryFile with a leading "~/" expanded, or "" if
// history is disabled.
func (c *Config) HistoryPath() string {
	if c.HistoryFile == "" {
		return ""
	}
	if strings.HasPrefix(c.HistoryFile, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, c.HistoryFile[2:])
		}
	}
	return c.HistoryFile
}
