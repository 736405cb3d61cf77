// Package morph blends keyframe snapshots into a configuration tree.
//
// The Interpolator brackets a time between two keyframes, copies the earlier
// snapshot, and rewrites each selected, registered path with the blending
// rule for that parameter's kind. Numeric values move linearly; categorical,
// boolean, and color values switch at the halfway point. Paths outside the
// selection keep the earlier keyframe's value untouched.
//
// SampleFrames renders many times at once for offline export.
package morph
