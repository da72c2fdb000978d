// Package projectconfig provides the ProjectConfig struct and loader for
// .gorjeta.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/gorjeta/internal/utils"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".gorjeta.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultHistoryFile = "gorjeta-history.json"

	// DefaultResolution of 0 lets the engine use one-unit spacing.
	DefaultResolution = 0

	DefaultCurrency = "R$"
	DefaultLocale   = "pt-BR"

	DefaultSweepWorkers = 4
	DefaultSweepStep    = 5.0

	// MinSweepStep bounds a sweep to at most a few thousand points.
	MinSweepStep = 0.01
)

// HistoryConfig controls where calculations are recorded.
type HistoryConfig struct {
	File    string `yaml:"file,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// EngineConfig holds inference settings.
type EngineConfig struct {
	Resolution int `yaml:"resolution,omitempty"`
}

// DisplayConfig holds output formatting settings.
type DisplayConfig struct {
	Currency string `yaml:"currency,omitempty"`
	Locale   string `yaml:"locale,omitempty"`
}

// SweepConfig holds defaults for the sweep command.
type SweepConfig struct {
	Workers int     `yaml:"workers,omitempty"`
	Step    float64 `yaml:"step,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .gorjeta.yaml.
type ProjectConfig struct {
	History HistoryConfig `yaml:"history,omitempty"`
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	Display DisplayConfig `yaml:"display,omitempty"`
	Sweep   SweepConfig   `yaml:"sweep,omitempty"`

	// Dir is the directory the config file was found in, or the start
	// directory when no file exists. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		History: HistoryConfig{
			File:    DefaultHistoryFile,
			Enabled: utils.Ptr(true),
		},
		Engine: EngineConfig{
			Resolution: DefaultResolution,
		},
		Display: DisplayConfig{
			Currency: DefaultCurrency,
			Locale:   DefaultLocale,
		},
		Sweep: SweepConfig{
			Workers: DefaultSweepWorkers,
			Step:    DefaultSweepStep,
		},
	}
}

// Load finds .gorjeta.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", startDir, err)
	}
	cfg.Dir = absStart

	data, dir, err := findConfigFile(absStart)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Dir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// Validate rejects values that can never work.
func (c *ProjectConfig) Validate() error {
	if c.Engine.Resolution < 0 || c.Engine.Resolution == 1 {
		return fmt.Errorf("engine.resolution must be 0 or at least 2, got %d", c.Engine.Resolution)
	}
	if c.Sweep.Workers < 1 {
		return fmt.Errorf("sweep.workers must be positive, got %d", c.Sweep.Workers)
	}
	if !(c.Sweep.Step >= MinSweepStep) {
		return fmt.Errorf("sweep.step must be at least %g, got %g", MinSweepStep, c.Sweep.Step)
	}
	return nil
}

// HistoryPath is the history file resolved against the config directory.
func (c *ProjectConfig) HistoryPath() string {
	return utils.ResolvePath(c.History.File, c.Dir)
}

// HistoryEnabled reports whether calculations should be recorded.
func (c *ProjectConfig) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// findConfigFile walks up from dir looking for .gorjeta.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, string, error) {
	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, dir, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.History.File != "" {
		dst.History.File = src.History.File
	}
	if src.History.Enabled != nil {
		dst.History.Enabled = src.History.Enabled
	}

	if src.Engine.Resolution != 0 {
		dst.Engine.Resolution = src.Engine.Resolution
	}

	if src.Display.Currency != "" {
		dst.Display.Currency = src.Display.Currency
	}
	if src.Display.Locale != "" {
		dst.Display.Locale = src.Display.Locale
	}

	if src.Sweep.Workers != 0 {
		dst.Sweep.Workers = src.Sweep.Workers
	}
	if src.Sweep.Step != 0 {
		dst.Sweep.Step = src.Sweep.Step
	}
}
