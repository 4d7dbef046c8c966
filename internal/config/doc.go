// Package config loads, normalizes, and validates discsub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads optional .env files, and honours
// environment fallbacks such as DISCSUB_CATALOG_USERNAME. The Config type
// centralizes every knob the CLI and pipeline need, so output directories,
// catalog credentials, and cache settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
