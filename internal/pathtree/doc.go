// Package pathtree reads and writes values inside JSON-like configuration
// trees addressed by dot-separated paths such as "lighting.conditions".
//
// Trees are plain map[string]any values whose leaves are scalars, nested maps,
// or []any slices. The package never assumes a schema: lookups that hit a
// missing segment simply report absence, and writes create the intermediate
// maps they need.
//
// Writes are copy-on-write. Set returns a new tree that shares untouched
// branches with its input, so callers must treat every tree handed to or
// returned by this package as immutable. Clone produces a fully independent
// copy when a caller needs to own a tree outright.
package pathtree
