package morph

import (
	"morpher/internal/params"
	"morpher/internal/pathtree"
)

// Blender computes the value between two keyframe values at progress in [0, 1].
// At progress 0 it must return before, at progress 1 it must return after.
type Blender interface {
	Blend(before, after any, progress float64) any
}

// BlendFunc adapts a function to the Blender interface.
type BlendFunc func(before, after any, progress float64) any

// Blend calls f.
func (f BlendFunc) Blend(before, after any, progress float64) any {
	return f(before, after, progress)
}

// StepThreshold is the progress at which a discrete value switches to the
// following keyframe.
const StepThreshold = 0.5

// Step holds before until progress reaches StepThreshold, then after.
var Step Blender = BlendFunc(step)

// Linear interpolates numeric values. Non-numeric pairs fall back to Step.
var Linear Blender = BlendFunc(linear)

func step(before, after any, progress float64) any {
	if progress < StepThreshold {
		return before
	}
	return after
}

func linear(before, after any, progress float64) any {
	switch {
	case progress <= 0:
		return before
	case progress >= 1:
		return after
	}
	a, okA := pathtree.Float(before)
	b, okB := pathtree.Float(after)
	if !okA || !okB {
		return step(before, after, progress)
	}
	return a + (b-a)*progress
}

// DefaultBlenders maps each kind to its blending rule. Color stays a discrete
// switch; there is no color-space blending.
func DefaultBlenders() map[params.Kind]Blender {
	return map[params.Kind]Blender{
		params.KindNumeric:     Linear,
		params.KindCategorical: Step,
		params.KindBoolean:     Step,
		params.KindColor:       Step,
	}
}
