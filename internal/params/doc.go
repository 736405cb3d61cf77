// Package params is the catalog of morphable configuration paths.
//
// Each Descriptor names a dot-separated path into the generation
// configuration, its value Kind, and for bounded kinds the domain random
// values are drawn from. The Registry is the single source of truth for which
// interpolation rule applies to a path; paths it does not know are never
// touched by the morph engine.
package params
