package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"morpher/internal/logging"
	"morpher/internal/morph"
	"morpher/internal/pathtree"
)

var (
	// ErrInsufficientKeyframes refuses Play with fewer than two keyframes.
	ErrInsufficientKeyframes = morph.ErrInsufficientKeyframes
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("playback clock closed")
	// ErrInvalidSetting rejects non-positive durations, speeds, and intervals.
	ErrInvalidSetting = errors.New("invalid playback setting")
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 100 * time.Millisecond

// State is the transport state of a Clock.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	default:
		return "stopped"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Counter reports how many keyframes exist. *keyframe.Store satisfies it.
type Counter interface {
	Len() int
}

// RenderFunc computes the configuration at time. ok is false when nothing
// can be rendered.
type RenderFunc func(time float64) (cfg pathtree.Tree, ok bool)

// Sink receives every rendered configuration. It runs while the clock's
// lock is held and must not call back into the Clock.
type Sink func(time float64, cfg pathtree.Tree)

// Settings configures a Clock.
type Settings struct {
	Duration float64
	Interval time.Duration
	Speed    float64
	Loop     bool
}

func (s Settings) withDefaults() Settings {
	if s.Interval <= 0 {
		s.Interval = DefaultInterval
	}
	if s.Speed == 0 {
		s.Speed = 1
	}
	return s
}

func (s Settings) validate() error {
	if err := positive("duration", s.Duration); err != nil {
		return err
	}
	if err := positive("speed", s.Speed); err != nil {
		return err
	}
	if s.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidSetting)
	}
	return nil
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidSetting, name, v)
	}
	return nil
}

// Status is a point-in-time view of a Clock.
type Status struct {
	State       State   `json:"state"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Speed       float64 `json:"speed"`
	Loop        bool    `json:"loop"`
}

// Clock advances a playhead on a ticker and pushes rendered configurations
// to a sink. Each tick, Seek, and Reset runs atomically under one lock.
type Clock struct {
	mu        sync.Mutex
	frames    Counter
	render    RenderFunc
	sink      Sink
	newTicker TickerFunc
	logger    *slog.Logger

	interval time.Duration
	duration float64
	speed    float64
	loop     bool
	current  float64
	state    State
	closed   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Option customises a Clock.
type Option func(*Clock)

// WithTicker overrides the tick source.
func WithTicker(fn TickerFunc) Option {
	return func(c *Clock) {
		if fn != nil {
			c.newTicker = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clock) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "playback")
		}
	}
}

// New constructs a stopped clock at time 0.
func New(frames Counter, render RenderFunc, sink Sink, settings Settings, opts ...Option) (*Clock, error) {
	if frames == nil || render == nil || sink == nil {
		return nil, errors.New("playback clock requires frames, render, and sink")
	}
	settings = settings.withDefaults()
	if err := settings.validate(); err != nil {
		return nil, err
	}
	c := &Clock{
		frames:    frames,
		render:    render,
		sink:      sink,
		newTicker: NewTimeTicker,
		logger:    logging.NewComponentLogger(nil, "playback"),
		interval:  settings.Interval,
		duration:  settings.Duration,
		speed:     settings.Speed,
		loop:      settings.Loop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Play starts ticking. It is a no-op while already playing. Starting at the
// end of a non-looping timeline rewinds to 0 first.
func (c *Clock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state == Playing {
		return nil
	}
	if n := c.frames.Len(); n < 2 {
		c.logger.Debug("play refused", logging.Int("keyframes", n))
		return ErrInsufficientKeyframes
	}
	if !c.loop && c.current >= c.duration {
		c.current = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	ticker := c.newTicker(c.interval)
	c.state = Playing
	c.cancel = cancel
	c.done = done
	go c.run(ctx, ticker, done)

	c.logger.Info("playback started",
		logging.Float64("time", c.current),
		logging.Float64("speed", c.speed),
		logging.Bool("loop", c.loop),
	)
	return nil
}

func (c *Clock) run(ctx context.Context, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !c.tick(ctx) {
				return
			}
		}
	}
}

func (c *Clock) tick(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil || c.state != Playing {
		return false
	}
	c.advanceLocked()
	c.applyLocked()
	return c.state == Playing
}

// Step performs one tick synchronously. It reports false when the clock is
// not playing.
func (c *Clock) Step() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return false
	}
	c.advanceLocked()
	c.applyLocked()
	return true
}

func (c *Clock) advanceLocked() {
	next := c.current + c.interval.Seconds()*c.speed
	if next < c.duration {
		c.current = next
		return
	}
	if c.loop {
		c.current = 0
		c.logger.Debug("playback wrapped")
		return
	}
	c.current = c.duration
	c.haltLocked()
	c.logger.Info("playback reached end", logging.Float64("time", c.current))
}

func (c *Clock) applyLocked() {
	cfg, ok := c.render(c.current)
	if !ok {
		return
	}
	c.sink(c.current, cfg)
}

// haltLocked stops ticking and returns the channel closed when the tick
// goroutine exits.
func (c *Clock) haltLocked() chan struct{} {
	if c.state != Playing {
		return nil
	}
	c.state = Stopped
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.done
}

// Pause stops ticking. When it returns no further sink calls will happen
// until the next Play.
func (c *Clock) Pause() {
	c.mu.Lock()
	done := c.haltLocked()
	c.mu.Unlock()
	if done != nil {
		<-done
		c.logger.Info("playback paused", logging.Float64("time", c.CurrentTime()))
	}
}

// Close pauses the clock and refuses further Play calls.
func (c *Clock) Close() {
	c.Pause()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Wait blocks until the clock stops on its own, is paused, or ctx ends.
func (c *Clock) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	playing := c.state == Playing
	c.mu.Unlock()
	if !playing || done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Seek moves the playhead, clamped to [0, duration], and renders immediately.
// The sink has been called before Seek returns.
func (c *Clock) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if math.IsNaN(t) {
		return
	}
	c.current = math.Min(math.Max(t, 0), c.duration)
	c.applyLocked()
}

// Reset seeks to 0.
func (c *Clock) Reset() {
	c.Seek(0)
}

// SetSpeed changes the playback multiplier.
func (c *Clock) SetSpeed(speed float64) error {
	if err := positive("speed", speed); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
	return nil
}

// SetLoop toggles wrap-around at the end of the timeline.
func (c *Clock) SetLoop(loop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = loop
}

// SetDuration changes the timeline length without moving keyframes. The
// playhead is clamped to the new duration.
func (c *Clock) SetDuration(duration float64) error {
	if err := positive("duration", duration); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = duration
	if c.current > duration {
		c.current = duration
	}
	return nil
}

// State reports the transport state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentTime reports the playhead position.
func (c *Clock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Status returns every playback field at once.
func (c *Clock) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:       c.state,
		CurrentTime: c.current,
		Duration:    c.duration,
		Speed:       c.speed,
		Loop:        c.loop,
	}
}
