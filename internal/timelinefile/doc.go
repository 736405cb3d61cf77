// Package timelinefile reads and writes timeline projects as JSON or YAML.
//
// The extension picks the encoding (.json, .yaml, .yml). Files are guarded by
// an advisory lock next to the project file and replaced atomically on write.
// Keyframes inside a project follow the same all-or-nothing rules as a bare
// keyframe export; YAML numbers are normalized to float64 so a project reads
// back identically from either encoding.
package timelinefile
