// Package playback drives a timeline playhead.
//
// A Clock is either Stopped or Playing. While playing, a background goroutine
// receives ticks, advances the playhead by interval*speed seconds, renders
// the configuration at the new time, and hands it to a sink. Reaching the
// duration wraps to 0 when looping and otherwise clamps and stops.
//
// Pause and Close cancel the tick goroutine and wait for it to exit, so the
// sink is never called after they return. Seek renders synchronously in
// either state.
package playback
