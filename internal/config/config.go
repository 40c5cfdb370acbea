// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/naka-gawa/github-contributions/internal/gateway"
)

// Config holds every setting the commands need.
type Config struct {
	Token              string        `env:"GITHUB_TOKEN"`
	Username           string        `env:"GITHUB_USERNAME"`
	ListenAddr         string        `env:"CONTRIB_LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	GraphQLURL         string        `env:"CONTRIB_GRAPHQL_URL" envDefault:"https://api.github.com/graphql"`
	RESTURL            string        `env:"CONTRIB_REST_URL" envDefault:"https://api.github.com/"`
	TopRepositories    int           `env:"CONTRIB_TOP_REPOSITORIES" envDefault:"10"`
	RecentRepositories int           `env:"CONTRIB_RECENT_REPOSITORIES" envDefault:"10"`
	CommitHistory      int           `env:"CONTRIB_COMMIT_HISTORY" envDefault:"5"`
	Timezone           string        `env:"CONTRIB_TIMEZONE" envDefault:"UTC"`
	ShutdownTimeout    time.Duration `env:"CONTRIB_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	OTelEndpoint       string        `env:"CONTRIB_OTEL_ENDPOINT"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Token == "" {
		errs = append(errs, errors.New("GITHUB_TOKEN environment variable is not set"))
	}
	if c.Username == "" {
		errs = append(errs, errors.New("GITHUB_USERNAME environment variable is not set"))
	}
	for name, v := range map[string]int{
		"CONTRIB_TOP_REPOSITORIES":    c.TopRepositories,
		"CONTRIB_RECENT_REPOSITORIES": c.RecentRepositories,
		"CONTRIB_COMMIT_HISTORY":      c.CommitHistory,
	} {
		if v < 1 || v > 100 {
			errs = append(errs, fmt.Errorf("%s must be between 1 and 100, got %d", name, v))
		}
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CONTRIB_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("CONTRIB_TIMEZONE is invalid: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GatewayOptions maps the config onto gateway.Options.
func (c *Config) GatewayOptions() gateway.Options {
	return gateway.Options{
		Token:       c.Token,
		GraphQLURL:  c.GraphQLURL,
		RESTBaseURL: c.RESTURL,
		Limits: gateway.QueryLimits{
			TopRepositories:    c.TopRepositories,
			RecentRepositories: c.RecentRepositories,
			CommitHistory:      c.CommitHistory,
		},
	}
}
