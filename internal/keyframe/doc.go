// Package keyframe stores timestamped configuration snapshots and answers
// bracket queries for the morph engine.
//
// Snapshots are deep-copied on the way in and on the way out of the Store,
// so edits to the host configuration never reach a captured keyframe. The
// Store keeps its contents sorted by timestamp; equal timestamps keep their
// insertion order.
//
// Export and Import implement the interchange contract: a JSON array of
// {id, timestamp, snapshot, name} objects. Import is all-or-nothing.
package keyframe
