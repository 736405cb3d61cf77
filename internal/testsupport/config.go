package testsupport

import (
	"path/filepath"
	"testing"

	"morpher/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Generator.Seed = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return builder.cfg
}

// WithTimeline overrides the default duration and loop flag.
func WithTimeline(duration float64, loop bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timeline.Duration = duration
		b.cfg.Timeline.Loop = loop
	}
}

// WithParameters appends extra morphable parameters.
func WithParameters(extra ...config.Parameter) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parameters = append(b.cfg.Parameters, extra...)
	}
}
