package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"morpher/internal/config"
	"morpher/internal/generator"
	"morpher/internal/keyframe"
	"morpher/internal/logging"
	"morpher/internal/morph"
	"morpher/internal/params"
	"morpher/internal/pathtree"
	"morpher/internal/playback"
	"morpher/internal/timelinefile"
)

// ErrEmptySelection is returned by operations that need at least one
// selected parameter.
var ErrEmptySelection = errors.New("no parameters selected")

// Session is the editor that owns the live configuration. It wires the
// keyframe store, interpolator, playback clock and generator together.
//
// The clock calls back into the session while holding its own lock, so the
// session never holds mu while calling the clock.
type Session struct {
	id       string
	registry *params.Registry
	store    *keyframe.Store
	interp   *morph.Interpolator
	gen      *generator.Generator
	clock    *playback.Clock
	logger   *slog.Logger

	mu       sync.RWMutex
	name     string
	current  pathtree.Tree
	selected []string
	onApply  func(float64, pathtree.Tree)
}

type options struct {
	settings playback.Settings
	base     pathtree.Tree
	seed     uint64
	ticker   playback.TickerFunc
	logger   *slog.Logger
}

// Option customises a Session.
type Option func(*options)

// WithPlayback sets the initial clock settings.
func WithPlayback(settings playback.Settings) Option {
	return func(o *options) {
		o.settings = settings
	}
}

// WithConfiguration seeds the live configuration.
func WithConfiguration(tree pathtree.Tree) Option {
	return func(o *options) {
		if tree != nil {
			o.base = tree
		}
	}
}

// WithSeed makes random generation reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithTicker overrides the playback tick source.
func WithTicker(fn playback.TickerFunc) Option {
	return func(o *options) {
		o.ticker = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates a session over registry with an empty timeline.
func New(registry *params.Registry, opts ...Option) (*Session, error) {
	if registry == nil {
		registry = params.Default()
	}
	o := options{
		settings: playback.Settings{Duration: config.Default().Timeline.Duration},
		base:     pathtree.Tree{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:       uuid.NewString(),
		registry: registry,
		store:    keyframe.NewStore(),
		current:  pathtree.Clone(o.base),
	}
	ctx := logging.WithSessionID(context.Background(), s.id)
	s.logger = logging.WithContext(ctx, logging.NewComponentLogger(o.logger, "session"))

	s.interp = morph.New(s.store, registry, morph.WithLogger(o.logger))
	s.gen = generator.New(registry, generator.WithSeed(o.seed), generator.WithLogger(o.logger))

	clockOpts := []playback.Option{playback.WithLogger(o.logger)}
	if o.ticker != nil {
		clockOpts = append(clockOpts, playback.WithTicker(o.ticker))
	}
	clock, err := playback.New(s.store, s.render, s.apply, o.settings, clockOpts...)
	if err != nil {
		return nil, fmt.Errorf("session clock: %w", err)
	}
	s.clock = clock
	return s, nil
}

// FromConfig creates a session using the registry and timeline settings of
// cfg.
func FromConfig(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("session requires a config")
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithPlayback(playback.Settings{
			Duration: cfg.Timeline.Duration,
			Interval: time.Duration(cfg.Timeline.TickIntervalMS) * time.Millisecond,
			Speed:    cfg.Timeline.Speed,
			Loop:     cfg.Timeline.Loop,
		}),
		WithSeed(cfg.Generator.Seed),
	}
	return New(registry, append(base, opts...)...)
}

func (s *Session) render(t float64) (pathtree.Tree, bool) {
	return s.interp.Interpolate(t, s.Selected())
}

// apply runs under the clock lock.
func (s *Session) apply(t float64, cfg pathtree.Tree) {
	s.mu.Lock()
	s.current = cfg
	hook := s.onApply
	s.mu.Unlock()
	if hook != nil {
		hook(t, pathtree.Clone(cfg))
	}
}

// ID returns the session identifier attached to its log lines.
func (s *Session) ID() string { return s.id }

// Registry returns the parameter catalog in use.
func (s *Session) Registry() *params.Registry { return s.registry }

// OnApply registers fn to observe every configuration written by playback
// or seeking. fn runs on the playback goroutine and must not call back into
// the session's transport methods.
func (s *Session) OnApply(fn func(time float64, cfg pathtree.Tree)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onApply = fn
}

// Name returns the timeline name, empty until a project is loaded or named.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName renames the timeline.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = strings.TrimSpace(name)
}

// Configuration returns a deep copy of the live configuration.
func (s *Session) Configuration() pathtree.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pathtree.Clone(s.current)
}

// SetConfiguration replaces the live configuration with a copy of tree.
func (s *Session) SetConfiguration(tree pathtree.Tree) {
	if tree == nil {
		tree = pathtree.Tree{}
	}
	next := pathtree.Clone(tree)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
}

// Value reads one path from the live configuration.
func (s *Session) Value(path string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok, err := pathtree.Get(s.current, path)
	if err != nil || !ok {
		return nil, ok, err
	}
	return pathtree.CloneValue(v), true, nil
}

// SetValue writes one path of the live configuration.
func (s *Session) SetValue(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := pathtree.Set(s.current, path, pathtree.CloneValue(pathtree.Normalize(value)))
	if err != nil {
		return err
	}
	s.current = next
	return nil
}

// Select adds registered paths to the interpolation set. Nothing changes
// when any path is not morphable.
func (s *Session) Select(paths ...string) error {
	clean := make([]string, 0, len(paths))
	for _, p := range paths {
		desc, err := s.registry.Require(strings.TrimSpace(p))
		if err != nil {
			return err
		}
		clean = append(clean, desc.Path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range clean {
		if !slices.Contains(s.selected, p) {
			s.selected = append(s.selected, p)
		}
	}
	return nil
}

// SelectAll selects every registered parameter.
func (s *Session) SelectAll() {
	paths := s.registry.Paths()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = paths
}

// Deselect removes paths from the interpolation set.
func (s *Session) Deselect(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = slices.DeleteFunc(s.selected, func(p string) bool {
		for _, drop := range paths {
			if strings.TrimSpace(drop) == p {
				return true
			}
		}
		return false
	})
}

// Selected returns the interpolation set in selection order.
func (s *Session) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// Capture records the live configuration as a keyframe at the playhead.
// An empty name becomes "Keyframe N".
func (s *Session) Capture(name string) (keyframe.Keyframe, error) {
	return s.CaptureAt(s.clock.CurrentTime(), name)
}

// CaptureAt records the live configuration as a keyframe at t, which must
// lie within the timeline.
func (s *Session) CaptureAt(t float64, name string) (keyframe.Keyframe, error) {
	if duration := s.clock.Status().Duration; t > duration {
		return keyframe.Keyframe{}, fmt.Errorf("%w: %vs is past the %vs duration", keyframe.ErrInvalidTimestamp, t, duration)
	}
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Keyframe %d", s.store.Len()+1)
	}
	k, err := s.store.Add(s.Configuration(), t, name)
	if err != nil {
		return keyframe.Keyframe{}, err
	}
	s.logger.Info("keyframe captured",
		logging.String("keyframe_id", k.ID),
		logging.Float64("timestamp", k.Timestamp),
		logging.String("name", k.Name),
	)
	return k, nil
}

// RemoveKeyframe deletes a keyframe by ID.
func (s *Session) RemoveKeyframe(id string) bool {
	removed := s.store.Remove(id)
	if removed {
		s.logger.Info("keyframe removed", logging.String("keyframe_id", id))
	}
	return removed
}

// Keyframes returns the timeline in timestamp order.
func (s *Session) Keyframes() []keyframe.Keyframe {
	return s.store.List()
}

// Interpolate renders the configuration at t without touching the live one.
func (s *Session) Interpolate(t float64) (pathtree.Tree, bool) {
	return s.render(t)
}

// Generate replaces the timeline with count random keyframes over the
// selected parameters, using the live configuration as the base.
func (s *Session) Generate(count int) ([]keyframe.Keyframe, error) {
	selected := s.Selected()
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}
	duration := s.clock.Status().Duration
	frames, err := s.gen.Generate(count, duration, selected, s.Configuration())
	if err != nil {
		return nil, err
	}
	if err := s.store.Replace(frames); err != nil {
		return nil, err
	}
	s.logger.Info("timeline replaced with random keyframes",
		logging.Int("count", len(frames)),
		logging.Int("parameters", len(selected)),
	)
	return s.store.List(), nil
}

// ExportKeyframes encodes the timeline as a JSON keyframe document.
func (s *Session) ExportKeyframes() ([]byte, error) {
	return keyframe.Export(s.store.List())
}

// ImportKeyframes replaces the timeline with a keyframe document. The
// timeline is unchanged when the document is malformed.
func (s *Session) ImportKeyframes(data []byte) error {
	frames, err := keyframe.Import(data)
	if err != nil {
		return err
	}
	if err := s.store.Replace(frames); err != nil {
		return err
	}
	s.logger.Info("keyframes imported", logging.Int("count", len(frames)))
	return nil
}

// Frames samples the timeline at fps using up to workers goroutines.
func (s *Session) Frames(ctx context.Context, fps float64, workers int) ([]morph.Frame, error) {
	times, err := morph.FrameTimes(s.clock.Status().Duration, fps)
	if err != nil {
		return nil, err
	}
	return s.interp.SampleFrames(ctx, times, s.Selected(), workers)
}

// Project snapshots the session as a project document.
func (s *Session) Project() *timelinefile.Project {
	status := s.clock.Status()
	s.mu.RLock()
	name := s.name
	base := pathtree.Clone(s.current)
	selected := slices.Clone(s.selected)
	s.mu.RUnlock()
	if selected == nil {
		selected = []string{}
	}
	return &timelinefile.Project{
		Version:   timelinefile.Version,
		Name:      name,
		Duration:  status.Duration,
		Speed:     status.Speed,
		Loop:      status.Loop,
		Selected:  selected,
		Base:      base,
		Keyframes: s.store.List(),
	}
}

// LoadProject stops playback and replaces the whole session state with p.
// The playhead returns to 0 and the first frame is applied.
func (s *Session) LoadProject(p *timelinefile.Project) error {
	if p == nil {
		return fmt.Errorf("%w: nil project", timelinefile.ErrInvalidProject)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.clock.Pause()
	// Validate has checked duration, speed and every keyframe timestamp, so
	// none of the steps below can fail part way.
	if err := s.clock.SetDuration(p.Duration); err != nil {
		return err
	}
	if err := s.clock.SetSpeed(p.Speed); err != nil {
		return err
	}
	s.clock.SetLoop(p.Loop)
	if err := s.store.Replace(p.Keyframes); err != nil {
		return err
	}

	s.mu.Lock()
	s.name = p.Name
	s.current = pathtree.Clone(p.Base)
	s.selected = slices.Clone(p.Selected)
	s.mu.Unlock()

	s.clock.Reset()
	s.logger.Info("project loaded",
		logging.String(logging.FieldTimeline, p.Name),
		logging.Int("keyframes", len(p.Keyframes)),
		logging.Float64("duration", p.Duration),
	)
	return nil
}

// Play starts the clock.
func (s *Session) Play() error { return s.clock.Play() }

// Pause stops the clock. No configuration is written after it returns.
func (s *Session) Pause() { s.clock.Pause() }

// Wait blocks until playback stops or ctx ends.
func (s *Session) Wait(ctx context.Context) error { return s.clock.Wait(ctx) }

// Seek moves the playhead and applies the frame there before returning.
func (s *Session) Seek(t float64) { s.clock.Seek(t) }

// Reset seeks to 0.
func (s *Session) Reset() { s.clock.Reset() }

// SetSpeed changes the playback multiplier.
func (s *Session) SetSpeed(speed float64) error { return s.clock.SetSpeed(speed) }

// SetLoop toggles looping.
func (s *Session) SetLoop(loop bool) { s.clock.SetLoop(loop) }

// SetDuration changes the timeline length.
func (s *Session) SetDuration(duration float64) error { return s.clock.SetDuration(duration) }

// Status reports the playback state.
func (s *Session) Status() playback.Status { return s.clock.Status() }

// Close stops playback for good.
func (s *Session) Close() {
	s.clock.Close()
	s.logger.Debug("session closed")
}
