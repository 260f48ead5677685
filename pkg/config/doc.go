// Package config builds the service configuration once at startup.
//
// Values come from the environment, optionally seeded from .env files with
// godotenv, and are parsed with caarlos0/env into Config. Each component's
// section is that component's own config type, so the tags live next to the
// code that uses them.
//
//	cfg, err := config.Load(envFiles...)
//	if err != nil {
//		return err
//	}
//	if err := cfg.Validate(); err != nil {
//		return err // refuse to serve half configured
//	}
package config
