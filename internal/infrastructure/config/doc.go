// Package config loads service configuration from environment variables
// using envconfig. Every field has a default, so an empty environment
// yields a working local setup on port 3001.
package config
