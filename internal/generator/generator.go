package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"

	"morpher/internal/keyframe"
	"morpher/internal/logging"
	"morpher/internal/params"
	"morpher/internal/pathtree"
)

// ErrInvalidRequest rejects non-positive counts or durations.
var ErrInvalidRequest = errors.New("invalid generation request")

// Catalog resolves morphable paths. *params.Registry satisfies it.
type Catalog interface {
	Lookup(path string) (params.Descriptor, bool)
}

// Generator synthesizes keyframes with values drawn from each parameter's
// domain. It never touches a keyframe store and is not safe for concurrent
// use.
type Generator struct {
	catalog Catalog
	rng     *rand.Rand
	logger  *slog.Logger
}

// Option customises a Generator.
type Option func(*Generator)

// WithSeed makes generation deterministic. A zero seed keeps the random source.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logging.NewComponentLogger(logger, "generator")
		}
	}
}

// New constructs a generator over catalog.
func New(catalog Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog: catalog,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  logging.NewComponentLogger(nil, "generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Timestamps spaces count points evenly over [0, duration], first at 0 and
// last at duration. A single point sits at 0.
func Timestamps(count int, duration float64) ([]float64, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, count)
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidRequest, duration)
	}
	out := make([]float64, count)
	if count == 1 {
		return out, nil
	}
	for i := range out {
		out[i] = float64(i) * duration / float64(count-1)
	}
	out[count-1] = duration
	return out, nil
}

// Generate returns count keyframes evenly spaced across [0, duration]. Each
// snapshot is a copy of base with every selected numeric and categorical path
// replaced by a random value from its domain. Boolean and color paths are
// left as they are in base; unregistered paths are skipped.
func (g *Generator) Generate(count int, duration float64, selected []string, base pathtree.Tree) ([]keyframe.Keyframe, error) {
	times, err := Timestamps(count, duration)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = pathtree.Tree{}
	}

	frames := make([]keyframe.Keyframe, 0, count)
	for i, ts := range times {
		snap := pathtree.Clone(base)
		for _, raw := range selected {
			desc, ok := g.catalog.Lookup(raw)
			if !ok {
				g.logger.Debug("skipping unregistered parameter", logging.String("path", raw))
				continue
			}
			value, ok := g.draw(desc)
			if !ok {
				continue
			}
			next, err := pathtree.Set(snap, desc.Path, value)
			if err != nil {
				return nil, fmt.Errorf("generate keyframe %d: %w", i, err)
			}
			snap = next
		}
		k, err := keyframe.New(snap, ts, "Random "+strconv.Itoa(i+1))
		if err != nil {
			return nil, err
		}
		frames = append(frames, k)
	}
	g.logger.Info("generated keyframes",
		logging.Int("count", count),
		logging.Float64("duration", duration),
		logging.Int("selected", len(selected)),
	)
	return frames, nil
}

func (g *Generator) draw(desc params.Descriptor) (any, bool) {
	switch desc.Kind {
	case params.KindNumeric:
		if desc.Range == nil {
			return nil, false
		}
		v := desc.Range.Min + g.rng.Float64()*(desc.Range.Max-desc.Range.Min)
		return math.Min(v, desc.Range.Max), true
	case params.KindCategorical:
		if len(desc.Options) == 0 {
			return nil, false
		}
		return desc.Options[g.rng.IntN(len(desc.Options))], true
	default:
		return nil, false
	}
}
