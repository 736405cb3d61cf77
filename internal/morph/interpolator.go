package morph

import (
	"errors"
	"log/slog"
	"math"

	"morpher/internal/keyframe"
	"morpher/internal/logging"
	"morpher/internal/params"
	"morpher/internal/pathtree"
)

// ErrInsufficientKeyframes reports that fewer than two keyframes exist.
var ErrInsufficientKeyframes = errors.New("at least two keyframes are required")

// Bracketer locates the keyframes surrounding a time. *keyframe.Store
// satisfies it.
type Bracketer interface {
	Bracket(time float64) (before, after keyframe.Keyframe, ok bool)
}

// Catalog resolves morphable paths. *params.Registry satisfies it.
type Catalog interface {
	Lookup(path string) (params.Descriptor, bool)
}

// Interpolator blends bracketing keyframes into a configuration tree.
type Interpolator struct {
	frames   Bracketer
	catalog  Catalog
	blenders map[params.Kind]Blender
	logger   *slog.Logger
}

// Option customises an Interpolator.
type Option func(*Interpolator)

// WithBlender replaces the blending rule for kind.
func WithBlender(kind params.Kind, b Blender) Option {
	return func(i *Interpolator) {
		if b != nil {
			i.blenders[kind] = b
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpolator) {
		if logger != nil {
			i.logger = logging.NewComponentLogger(logger, "morph")
		}
	}
}

// New constructs an interpolator reading keyframes from frames and kinds from catalog.
func New(frames Bracketer, catalog Catalog, opts ...Option) *Interpolator {
	i := &Interpolator{
		frames:   frames,
		catalog:  catalog,
		blenders: DefaultBlenders(),
		logger:   logging.NewComponentLogger(nil, "morph"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Progress returns the normalized position of time between two timestamps.
// A zero span yields 0.
func Progress(time, before, after float64) float64 {
	span := after - before
	if span == 0 || math.IsNaN(span) {
		return 0
	}
	p := (time - before) / span
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Interpolate computes the configuration at time. The result starts as a copy
// of the earlier bracketing keyframe; only selected, registered paths present
// in both keyframes are blended. ok is false when fewer than two keyframes
// exist, in which case the caller must leave its configuration alone.
func (i *Interpolator) Interpolate(time float64, selected []string) (pathtree.Tree, bool) {
	before, after, ok := i.frames.Bracket(time)
	if !ok {
		return nil, false
	}
	progress := Progress(time, before.Timestamp, after.Timestamp)
	result := pathtree.Clone(before.Snapshot)
	if result == nil {
		result = pathtree.Tree{}
	}

	for _, raw := range selected {
		desc, registered := i.catalog.Lookup(raw)
		if !registered {
			i.logger.Debug("skipping unregistered parameter", logging.String("path", raw))
			continue
		}
		path, err := pathtree.Parse(raw)
		if err != nil {
			i.logger.Debug("skipping malformed parameter path", logging.String("path", raw), logging.Error(err))
			continue
		}
		from, okFrom := path.Get(before.Snapshot)
		to, okTo := path.Get(after.Snapshot)
		if !okFrom || !okTo {
			continue
		}
		blender, found := i.blenders[desc.Kind]
		if !found {
			blender = Step
		}
		next, err := path.Set(result, pathtree.CloneValue(blender.Blend(from, to, progress)))
		if err != nil {
			i.logger.Debug("skipping parameter write", logging.String("path", raw), logging.Error(err))
			continue
		}
		result = next
	}
	return result, true
}
