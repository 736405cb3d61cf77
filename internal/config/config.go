package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"morpher/internal/fileutil"
	"morpher/internal/params"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains storage locations.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Timeline contains default playback settings for new sessions.
type Timeline struct {
	Duration       float64 `toml:"duration"`
	TickIntervalMS int     `toml:"tick_interval_ms"`
	Speed          float64 `toml:"speed"`
	Loop           bool    `toml:"loop"`
}

// Generator contains random keyframe generation defaults.
type Generator struct {
	Count int    `toml:"count"`
	Seed  uint64 `toml:"seed"` // 0 picks a random seed per run
}

// Frames contains offline frame sampling settings.
type Frames struct {
	FPS     float64 `toml:"fps"`
	Workers int     `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Parameter declares an extra morphable path on top of the built-in catalog.
type Parameter struct {
	Path    string   `toml:"path"`
	Label   string   `toml:"label"`
	Kind    string   `toml:"kind"`
	Min     *float64 `toml:"min"`
	Max     *float64 `toml:"max"`
	Options []string `toml:"options"`
}

// Config encapsulates all configuration values for morpher.
//
// Configuration sections by subsystem:
//   - Paths: data directory (timeline library) and log directory
//   - Timeline: default duration, tick interval, speed, and loop
//   - Generator: random keyframe count and seed
//   - Frames: offline frame sampling rate and worker count
//   - Logging: log format and level
//   - Parameters: extra morphable parameters merged into the registry
type Config struct {
	Paths      Paths       `toml:"paths"`
	Timeline   Timeline    `toml:"timeline"`
	Generator  Generator   `toml:"generator"`
	Frames     Frames      `toml:"frames"`
	Logging    Logging     `toml:"logging"`
	Parameters []Parameter `toml:"parameters"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/morpher/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("morpher.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LibraryPath returns the SQLite database holding saved timelines.
func (c *Config) LibraryPath() string {
	return filepath.Join(c.Paths.DataDir, "library.db")
}

// Registry returns the built-in parameter catalog extended with the
// configured [[parameters]] entries.
func (c *Config) Registry() (*params.Registry, error) {
	base := params.Default()
	if len(c.Parameters) == 0 {
		return base, nil
	}
	descs, err := c.descriptors()
	if err != nil {
		return nil, err
	}
	reg, err := base.With(descs...)
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}
	return reg, nil
}

func (c *Config) descriptors() ([]params.Descriptor, error) {
	out := make([]params.Descriptor, 0, len(c.Parameters))
	for i, p := range c.Parameters {
		kind, err := params.ParseKind(p.Kind)
		if err != nil {
			return nil, fmt.Errorf("parameters[%d].kind: %w", i, err)
		}
		desc := params.Descriptor{
			Path:    p.Path,
			Label:   p.Label,
			Kind:    kind,
			Options: p.Options,
		}
		if p.Min != nil || p.Max != nil {
			if p.Min == nil || p.Max == nil {
				return nil, fmt.Errorf("parameters[%d]: min and max must be set together", i)
			}
			desc.Range = &params.Range{Min: *p.Min, Max: *p.Max}
		}
		if err := desc.Validate(); err != nil {
			return nil, fmt.Errorf("parameters[%d]: %w", i, err)
		}
		out = append(out, desc)
	}
	return out, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// ErrConfigExists is returned by CreateSample when path is taken.
var ErrConfigExists = errors.New("config file already exists")

// CreateSample writes the annotated sample configuration to path. An existing
// file is only replaced when overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
