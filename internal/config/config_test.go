package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"morpher/internal/config"
	"morpher/internal/params"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MORPHER_LOG_LEVEL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "morpher")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.LibraryPath() != filepath.Join(wantData, "library.db") {
		t.Fatalf("unexpected library path: %q", cfg.LibraryPath())
	}
	if cfg.Timeline.Duration != config.Default().Timeline.Duration {
		t.Fatalf("unexpected duration: %v", cfg.Timeline.Duration)
	}
	if cfg.Timeline.TickIntervalMS != 100 {
		t.Fatalf("unexpected tick interval: %d", cfg.Timeline.TickIntervalMS)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %#v", cfg.Logging)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "morpher.toml")

	type payload struct {
		Timeline struct {
			Duration float64 `toml:"duration"`
			Speed    float64 `toml:"speed"`
			Loop     bool    `toml:"loop"`
		} `toml:"timeline"`
		Generator struct {
			Count int    `toml:"count"`
			Seed  uint64 `toml:"seed"`
		} `toml:"generator"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Timeline.Duration = 30
	custom.Timeline.Speed = 2
	custom.Timeline.Loop = true
	custom.Generator.Count = 8
	custom.Generator.Seed = 99
	custom.Logging.Format = " JSON "
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Timeline.Duration != 30 || cfg.Timeline.Speed != 2 || !cfg.Timeline.Loop {
		t.Fatalf("unexpected timeline: %#v", cfg.Timeline)
	}
	if cfg.Generator.Count != 8 || cfg.Generator.Seed != 99 {
		t.Fatalf("unexpected generator: %#v", cfg.Generator)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
	if cfg.Frames.FPS != config.Default().Frames.FPS {
		t.Fatalf("expected default fps to survive partial file, got %v", cfg.Frames.FPS)
	}
}

func TestEnvVarOverridesLogLevel(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "morpher.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MORPHER_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level from env, got %q", cfg.Logging.Level)
	}
}

func TestValidationErrors(t *testing.T) {
	t.Setenv("MORPHER_LOG_LEVEL", "")
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"zero duration", "[timeline]\nduration = 0.0\n", "timeline.duration must be positive"},
		{"negative speed", "[timeline]\nspeed = -1.0\n", "timeline.speed must be positive"},
		{"negative interval", "[timeline]\ntick_interval_ms = -5\n", "timeline.tick_interval_ms must be positive"},
		{"zero count", "[generator]\ncount = 0\n", "generator.count must be positive"},
		{"zero fps", "[frames]\nfps = 0.0\n", "frames.fps must be positive"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[timeline]\nlength = 3\n", "parse config"},
		{"bad kind", "[[parameters]]\npath = \"a.b\"\nkind = \"vector\"\n", "parameters[0].kind"},
		{"half range", "[[parameters]]\npath = \"a.b\"\nkind = \"numeric\"\nmin = 1.0\n", "min and max"},
		{"duplicate path", "[[parameters]]\npath = \"camera.tilt\"\nkind = \"boolean\"\n", "registered twice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "morpher.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRegistryMergesParameters(t *testing.T) {
	t.Setenv("MORPHER_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "morpher.toml")
	content := `
[[parameters]]
path = "subject.pose_angle"
kind = "numeric"
min = -90.0
max = 90.0

[[parameters]]
path = "style.lens_effect"
label = "Lens"
kind = "categorical"
options = ["none", "bokeh"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry returned error: %v", err)
	}
	if reg.Len() != params.Default().Len()+2 {
		t.Fatalf("expected two extra parameters, got %d total", reg.Len())
	}
	pose, ok := reg.Lookup("subject.pose_angle")
	if !ok || pose.Kind != params.KindNumeric || pose.Range.Min != -90 || pose.Label != "Pose Angle" {
		t.Fatalf("unexpected descriptor %#v", pose)
	}
	lens, ok := reg.Lookup("style.lens_effect")
	if !ok || lens.Label != "Lens" || len(lens.Options) != 2 {
		t.Fatalf("unexpected descriptor %#v", lens)
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("MORPHER_LOG_LEVEL", "")
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if err := config.CreateSample(path, false); !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Fatalf("CreateSample overwrite failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[timeline]") {
		t.Fatal("sample config missing timeline section")
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
