// Package main hosts the morpher CLI entrypoint and command graph.
//
// Commands work on timeline projects: files ending in .json, .yaml or .yml,
// or entries of the SQLite timeline library written as @name. The CLI
// resolves configuration and logging once per invocation and hands a
// session to each command; the morphing itself lives in internal packages.
package main
