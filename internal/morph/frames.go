package morph

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"morpher/internal/logging"
	"morpher/internal/pathtree"
)

// Frame is one rendered configuration on the timeline.
type Frame struct {
	Index  int           `json:"index"`
	Time   float64       `json:"time"`
	Config pathtree.Tree `json:"config"`
}

// FrameTimes returns evenly spaced sample times across [0, duration] at fps.
// The final time is always duration.
func FrameTimes(duration, fps float64) ([]float64, error) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("frame times: duration must be positive, got %v", duration)
	}
	if !(fps > 0) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("frame times: fps must be positive, got %v", fps)
	}
	step := 1 / fps
	n := int(math.Floor(duration*fps + 1e-9))
	times := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		t := float64(i) * step
		if t > duration {
			break
		}
		times = append(times, t)
	}
	if last := times[len(times)-1]; duration-last > 1e-9 {
		times = append(times, duration)
	}
	return times, nil
}

// SampleFrames interpolates every time concurrently using at most workers
// goroutines. Frames are returned in the order of times. It fails with
// ErrInsufficientKeyframes when no bracket exists.
func (i *Interpolator) SampleFrames(ctx context.Context, times []float64, selected []string, workers int) ([]Frame, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	frames := make([]Frame, len(times))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, t := range times {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, ok := i.Interpolate(t, selected)
			if !ok {
				return ErrInsufficientKeyframes
			}
			frames[idx] = Frame{Index: idx, Time: t, Config: cfg}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sample frames: %w", err)
	}
	i.logger.Debug("sampled frames", logging.Int("frames", len(frames)), logging.Int("workers", workers))
	return frames, nil
}
