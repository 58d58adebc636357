// Package config loads the service settings from an optional config.yaml and
// UETODO_-prefixed environment variables, applies defaults, and validates the
// result before any component is constructed.
package config
