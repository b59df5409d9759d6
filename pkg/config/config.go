// Package config loads the YAML configuration of the console.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"src.teel.sh/pkg/errutil"
)

// Defaults.
const (
	DefaultHistorySize = 20
	DefaultWhitespace  = " \t"
	DefaultMaxLine     = 4096
	DefaultPrompt      = "> "
	DefaultTimeout     = time.Second
)

// Config is the configuration of the console.
type Config struct {
	HistorySize int    `yaml:"history-size"`
	Whitespace  string `yaml:"whitespace"`
	MaxLine     int    `yaml:"max-line"`
	Prompt      string `yaml:"prompt"`

	// Path to the audit database. Empty means no auditing.
	DB string `yaml:"db"`
	// Path to the Lua hook script. Empty means no script.
	Script string `yaml:"script"`

	// Static completion candidates.
	Completions []string `yaml:"completions"`
	// Command of a completion server speaking the language server protocol
	// on its stdin and stdout. Takes precedence over Completions.
	CompleteCommand []string      `yaml:"complete-command"`
	CompleteTimeout time.Duration `yaml:"complete-timeout"`

	// Maps key names to action names.
	Bindings map[string]string `yaml:"bindings"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		HistorySize:     DefaultHistorySize,
		Whitespace:      DefaultWhitespace,
		MaxLine:         DefaultMaxLine,
		Prompt:          DefaultPrompt,
		CompleteTimeout: DefaultTimeout,
	}
}

// Load reads the configuration file at path on top of the defaults. An empty
// path gives the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads a configuration on top of the defaults. Unknown keys are
// errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports all problems with the configuration.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.HistorySize < 1 {
		errs = append(errs, fmt.Errorf("history-size must be at least 1, got %d", cfg.HistorySize))
	}
	if cfg.MaxLine < 1 {
		errs = append(errs, fmt.Errorf("max-line must be at least 1, got %d", cfg.MaxLine))
	}
	if cfg.Whitespace == "" {
		errs = append(errs, errors.New("whitespace must not be empty"))
	}
	if cfg.CompleteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("complete-timeout must be positive, got %v", cfg.CompleteTimeout))
	}
	return errutil.Multi(errs...)
}
