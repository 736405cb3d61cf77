package playback_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"morpher/internal/pathtree"
	"morpher/internal/playback"
)

type fixedCount int

func (n fixedCount) Len() int { return int(n) }

type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() { m.once.Do(func() { close(m.stopped) }) }

type recorder struct {
	mu    sync.Mutex
	times []float64
	seen  chan float64
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan float64, 64)}
}

func (r *recorder) sink(t float64, _ pathtree.Tree) {
	r.mu.Lock()
	r.times = append(r.times, t)
	r.mu.Unlock()
	r.seen <- t
}

func (r *recorder) calls() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.times...)
}

func render(t float64) (pathtree.Tree, bool) {
	return pathtree.Tree{"time": t}, true
}

func newClock(t *testing.T, frames int, settings playback.Settings, rec *recorder, opts ...playback.Option) *playback.Clock {
	t.Helper()
	clock, err := playback.New(fixedCount(frames), render, rec.sink, settings, opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(clock.Close)
	return clock
}

// idle never fires, so only Step advances the clock.
func idle(time.Duration) playback.Ticker { return newManualTicker() }

func TestPlayRefusedWithoutKeyframes(t *testing.T) {
	for _, n := range []int{0, 1} {
		clock := newClock(t, n, playback.Settings{Duration: 10}, newRecorder(), playback.WithTicker(idle))
		if err := clock.Play(); !errors.Is(err, playback.ErrInsufficientKeyframes) {
			t.Fatalf("Play with %d keyframes: expected ErrInsufficientKeyframes, got %v", n, err)
		}
		if clock.State() != playback.Stopped {
			t.Fatalf("expected stopped state with %d keyframes", n)
		}
	}
}

func TestLoopWrapsToZero(t *testing.T) {
	rec := newRecorder()
	clock := newClock(t, 2, playback.Settings{Duration: 10, Loop: true}, rec, playback.WithTicker(idle))
	clock.Seek(9.95)
	if err := clock.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	if !clock.Step() {
		t.Fatal("expected Step to run while playing")
	}
	if got := clock.CurrentTime(); got != 0 {
		t.Fatalf("expected wrap to 0, got %v", got)
	}
	if clock.State() != playback.Playing {
		t.Fatal("expected clock to keep playing after wrap")
	}
}

func TestNoLoopClampsAndStops(t *testing.T) {
	rec := newRecorder()
	clock := newClock(t, 2, playback.Settings{Duration: 10}, rec, playback.WithTicker(idle))
	clock.Seek(9.95)
	if err := clock.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	clock.Step()
	if got := clock.CurrentTime(); got != 10 {
		t.Fatalf("expected clamp to 10, got %v", got)
	}
	if clock.State() != playback.Stopped {
		t.Fatal("expected clock to stop at the end")
	}
	calls := rec.calls()
	if len(calls) != 2 || calls[1] != 10 {
		t.Fatalf("expected final render at 10, got %v", calls)
	}
	if err := clock.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	if err := clock.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	if got := clock.CurrentTime(); got != 0 {
		t.Fatalf("expected Play at end to rewind, got %v", got)
	}
}

func TestTicksAdvanceBySpeed(t *testing.T) {
	rec := newRecorder()
	ticker := newManualTicker()
	clock := newClock(t, 2, playback.Settings{Duration: 10, Interval: 200 * time.Millisecond, Speed: 2}, rec,
		playback.WithTicker(func(d time.Duration) playback.Ticker {
			if d != 200*time.Millisecond {
				t.Errorf("unexpected interval %v", d)
			}
			return ticker
		}))
	if err := clock.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		ticker.ch <- time.Now()
		got := <-rec.seen
		if want := 0.4 * float64(i); math.Abs(got-want) > 1e-9 {
			t.Fatalf("tick %d rendered at %v, want %v", i, got, want)
		}
	}
}

func TestPauseStopsTicking(t *testing.T) {
	rec := newRecorder()
	ticker := newManualTicker()
	clock := newClock(t, 2, playback.Settings{Duration: 10}, rec,
		playback.WithTicker(func(time.Duration) playback.Ticker { return ticker }))
	if err := clock.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	ticker.ch <- time.Now()
	<-rec.seen

	clock.Pause()
	select {
	case <-ticker.stopped:
	default:
		t.Fatal("expected ticker to be stopped once Pause returns")
	}
	if clock.State() != playback.Stopped {
		t.Fatal("expected stopped state")
	}
	select {
	case ticker.ch <- time.Now():
		t.Fatal("tick goroutine still receiving after Pause")
	case <-time.After(20 * time.Millisecond):
	}
	if n := len(rec.calls()); n != 1 {
		t.Fatalf("expected exactly one render, got %d", n)
	}
}

func TestSeekClampsAndRendersSynchronously(t *testing.T) {
	rec := newRecorder()
	clock := newClock(t, 2, playback.Settings{Duration: 8}, rec, playback.WithTicker(idle))

	clock.Seek(-3)
	clock.Seek(4)
	clock.Seek(50)
	clock.Reset()
	want := []float64{0, 4, 8, 0}
	got := rec.calls()
	if len(got) != len(want) {
		t.Fatalf("expected %d renders, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("render %d at %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSeekWithoutResultSkipsSink(t *testing.T) {
	rec := newRecorder()
	clock, err := playback.New(fixedCount(0), func(float64) (pathtree.Tree, bool) { return nil, false }, rec.sink,
		playback.Settings{Duration: 5})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer clock.Close()
	clock.Seek(2)
	if len(rec.calls()) != 0 {
		t.Fatal("sink called without a render result")
	}
	if clock.CurrentTime() != 2 {
		t.Fatalf("expected playhead to move, got %v", clock.CurrentTime())
	}
}

func TestSettingsValidation(t *testing.T) {
	rec := newRecorder()
	if _, err := playback.New(fixedCount(2), render, rec.sink, playback.Settings{Duration: 0}); !errors.Is(err, playback.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting for zero duration, got %v", err)
	}
	if _, err := playback.New(fixedCount(2), render, rec.sink, playback.Settings{Duration: 1, Speed: -1}); !errors.Is(err, playback.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting for negative speed, got %v", err)
	}

	clock := newClock(t, 2, playback.Settings{Duration: 10}, rec, playback.WithTicker(idle))
	if err := clock.SetSpeed(0); !errors.Is(err, playback.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	if err := clock.SetDuration(math.NaN()); !errors.Is(err, playback.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	clock.Seek(9)
	if err := clock.SetDuration(5); err != nil {
		t.Fatalf("SetDuration returned error: %v", err)
	}
	status := clock.Status()
	if status.CurrentTime != 5 || status.Duration != 5 || status.Speed != 1 {
		t.Fatalf("unexpected status %#v", status)
	}
}

func TestCloseRefusesPlay(t *testing.T) {
	rec := newRecorder()
	clock := newClock(t, 2, playback.Settings{Duration: 10}, rec, playback.WithTicker(idle))
	if err := clock.Play(); err != nil {
		t.Fatalf("Play returned error: %v", err)
	}
	clock.Close()
	if clock.State() != playback.Stopped {
		t.Fatal("expected Close to stop playback")
	}
	if err := clock.Play(); !errors.Is(err, playback.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
