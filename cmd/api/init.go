package main

import (
	"context"
	"errors"
	"fmt"

	"geartrain/internal/geartrain"
	"geartrain/internal/observability"
)

// initTelemetry starts OTLP log export, tracing and metrics, then registers
// the gear train instruments. The returned shutdown flushes every provider
// in reverse start order and joins their errors.
func initTelemetry(ctx context.Context) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, step := range []struct {
		name string
		init func(context.Context) (func(context.Context) error, error)
	}{
		{"logging", observability.InitLogging},
		{"tracing", observability.InitTracing},
		{"metrics", observability.InitMetrics},
	} {
		stop, err := step.init(ctx)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("init %s: %w", step.name, err), shutdown(ctx))
		}
		shutdowns = append(shutdowns, stop)
	}

	if err := geartrain.InitMetrics(); err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}

	return shutdown, nil
}
