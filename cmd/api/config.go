package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"geartrain/internal/kinematics"
	"geartrain/internal/server"
)

// config is read from the environment after .env has been loaded.
type config struct {
	Addr            string
	LogLevel        string
	Router          server.Config
	ShutdownTimeout time.Duration
}

func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		Addr:            ":8080",
		LogLevel:        getenv("LOG_LEVEL"),
		Router:          server.DefaultConfig(),
		ShutdownTimeout: 5 * time.Second,
	}

	if v := getenv("HTTP_ADDR"); v != "" {
		cfg.Addr = v
	}

	opts, err := kinematics.ParseOptions(getenv("GEARTRAIN_TOOTH_POLICY"), getenv("GEARTRAIN_RATIO_VALIDATION"))
	if err != nil {
		return config{}, err
	}
	cfg.Router.Defaults = opts

	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return config{}, fmt.Errorf("RATE_LIMIT_RPS: %q is not a non-negative number", v)
		}
		cfg.Router.RateLimit = rate.Limit(rps)
	}
	if v := getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return config{}, fmt.Errorf("RATE_LIMIT_BURST: %q is not a positive integer", v)
		}
		cfg.Router.RateBurst = burst
	}
	if v := getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func loadConfigFromEnv() (config, error) {
	return loadConfig(os.Getenv)
}
