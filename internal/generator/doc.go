// Package generator produces synthetic keyframes for quick exploration.
//
// Numeric parameters get a uniform value in their range and categorical
// parameters a uniform pick from their options. Replacing a store with the
// result is up to the caller.
package generator
