// Package config reads the punch-reminder process configuration from the
// environment (optionally seeded from a .env file) into a Config value that is
// built once at process entry and passed down explicitly.
package config
