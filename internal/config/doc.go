// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation,
// which keeps secrets such as the auth token and database password out of the file.
// The loaded Config is read once at startup and treated as read-only afterwards.
package config
