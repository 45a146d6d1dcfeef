package main

import (
	"testing"
	"time"

	"geartrain/internal/kinematics"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(envMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Addr)
	}
	if cfg.Router.Defaults != (kinematics.Options{}) {
		t.Fatalf("expected zero options, got %+v", cfg.Router.Defaults)
	}
	if cfg.Router.RateLimit != 5 || cfg.Router.RateBurst != 10 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.Router.RateLimit, cfg.Router.RateBurst)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected 5s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(envMap(map[string]string{
		"HTTP_ADDR":                  "127.0.0.1:9000",
		"GEARTRAIN_TOOTH_POLICY":     "round",
		"GEARTRAIN_RATIO_VALIDATION": "reject-negative",
		"RATE_LIMIT_RPS":             "0",
		"RATE_LIMIT_BURST":           "3",
		"SHUTDOWN_TIMEOUT":           "250ms",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Addr)
	}
	want := kinematics.Options{ToothPolicy: kinematics.Round, RatioValidation: kinematics.RejectNegative}
	if cfg.Router.Defaults != want {
		t.Fatalf("expected %+v, got %+v", want, cfg.Router.Defaults)
	}
	if cfg.Router.RateLimit != 0 || cfg.Router.RateBurst != 3 {
		t.Fatalf("unexpected rate limit %v/%d", cfg.Router.RateLimit, cfg.Router.RateBurst)
	}
	if cfg.ShutdownTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for _, env := range []map[string]string{
		{"GEARTRAIN_TOOTH_POLICY": "floor"},
		{"GEARTRAIN_RATIO_VALIDATION": "maybe"},
		{"RATE_LIMIT_RPS": "-1"},
		{"RATE_LIMIT_BURST": "0"},
		{"SHUTDOWN_TIMEOUT": "soon"},
	} {
		if _, err := loadConfig(envMap(env)); err == nil {
			t.Fatalf("expected error for %v", env)
		}
	}
}
