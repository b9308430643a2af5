// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to the home-zone, checklist, monitoring and analytics settings while
// keeping configuration details separate from the exit-detection logic.
package config
