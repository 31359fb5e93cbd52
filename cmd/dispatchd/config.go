package main

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort  uint   `envconfig:"SERVER_PORT" default:"8080"`

	// Empty DATABASE_URL runs the service on the in-memory store.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	ORSBaseURL string `envconfig:"ORS_BASE_URL" default:"https://api.openrouteservice.org"`
	ORSAPIKey  string `envconfig:"ORS_API_KEY"`

	CycleIntervalSec uint `envconfig:"CYCLE_INTERVAL_SEC" default:"30"`
	ReadTimeoutSec   uint `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec  uint `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
}

func loadConfig() (*config, error) {
	c := new(config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return c, nil
}
