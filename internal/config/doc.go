// Package config loads, normalizes, and validates coloring configuration.
//
// It supplies repository defaults (threshold, posterize palette, potrace
// tolerances, export width), resolves the workspace root, and reads an
// optional TOML file from the root or the user config directory. Stage
// directory names are fixed and not configurable.
//
// Always obtain settings through this package so downstream code receives
// trimmed tool names, canonical log formats, and clear validation errors.
package config
