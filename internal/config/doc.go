// Package config provides application configuration loaded from environment
// variables (prefix CAMPUS) layered over an optional YAML file. It carries
// the HTTP server settings, the campus dataset location, the zone capacity
// lookup table, and model training defaults.
package config
