// Package config loads, normalizes, and validates morpher configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MORPHER_LOG_LEVEL environment
// fallback. Extra [[parameters]] entries extend the built-in parameter
// catalog through Registry.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
