// Package config loads the YAML configuration shared by the dictgrade
// commands.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"harshagw/dictgrade/internal/analysis"
	"harshagw/dictgrade/internal/morph"
	"harshagw/dictgrade/internal/practice"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the top-level configuration.
type Config struct {
	// DataDir holds the bolt database.
	DataDir string `yaml:"data_dir"`

	// Dictionary is an optional dictionary file built by dictbuild. Without
	// one, word forms are compared by length only.
	Dictionary string `yaml:"dictionary"`

	LogLevel LogLevel `yaml:"log_level"`

	// Workers bounds how many attempts are analyzed at once in batch mode.
	Workers int `yaml:"workers"`

	// ClampRatios stores wer, cer, per and accuracy clamped into [0, 1].
	ClampRatios bool `yaml:"clamp_ratios"`
}

func Default() *Config {
	return &Config{
		DataDir:  ".dictgrade",
		LogLevel: LogInfo,
		Workers:  4,
	}
}

// Load reads the YAML configuration file at path and returns a validated [Config].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r over the defaults and
// validates the result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.DataDir == "" {
		errs = append(errs, errors.New("data_dir must not be empty"))
	}
	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers))
	}
	if cfg.Dictionary != "" {
		if _, err := os.Stat(cfg.Dictionary); err != nil {
			errs = append(errs, fmt.Errorf("dictionary %q: %w", cfg.Dictionary, err))
		}
	}

	return errors.Join(errs...)
}

// NewLogger builds a text logger on stderr at the given level.
func NewLogger(level LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case LogDebug:
		lvl = slog.LevelDebug
	case LogWarn:
		lvl = slog.LevelWarn
	case LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// OpenNormalizer opens the configured dictionary, or returns [morph.None]
// when none is set. The returned close function releases the dictionary.
func (c *Config) OpenNormalizer() (morph.Normalizer, func() error, error) {
	if c.Dictionary == "" {
		return morph.None{}, func() error { return nil }, nil
	}
	d, err := morph.Open(c.Dictionary)
	if err != nil {
		return nil, nil, fmt.Errorf("config: open dictionary: %w", err)
	}
	return d, d.Close, nil
}

// PracticeConfig converts c into a [practice.Config].
func (c *Config) PracticeConfig(normalizer morph.Normalizer, logger *slog.Logger) practice.Config {
	return practice.Config{
		Dir:         c.DataDir,
		Analyzer:    analysis.NewStandard(),
		Normalizer:  normalizer,
		ClampRatios: c.ClampRatios,
		Workers:     c.Workers,
		Logger:      logger,
	}
}
