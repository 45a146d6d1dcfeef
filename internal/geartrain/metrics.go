package geartrain

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialized once via InitMetrics().
var (
	computationsCounter metric.Int64Counter
	computeHistogram    metric.Float64Histogram
	errorCounter        metric.Int64Counter
	chainLength         metric.Int64Histogram
	outputSpeedGauge    metric.Float64Gauge
)

// InitMetrics registers the gear train metric instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("geartrain")

	var err error

	computationsCounter, err = meter.Int64Counter("geartrain.computations.total",
		metric.WithDescription("Total number of gear trains computed"),
		metric.WithUnit("{computation}"),
	)
	if err != nil {
		return fmt.Errorf("creating computations counter: %w", err)
	}

	computeHistogram, err = meter.Float64Histogram("geartrain.compute.duration",
		metric.WithDescription("Duration of the compute and render pass in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.5, 1, 5, 10, 50, 100),
	)
	if err != nil {
		return fmt.Errorf("creating compute histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("geartrain.errors.total",
		metric.WithDescription("Total number of rejected or failed submissions"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	chainLength, err = meter.Int64Histogram("geartrain.chain.length",
		metric.WithDescription("Number of gears per computed chain"),
		metric.WithUnit("{gear}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13, 21),
	)
	if err != nil {
		return fmt.Errorf("creating chain length histogram: %w", err)
	}

	outputSpeedGauge, err = meter.Float64Gauge("geartrain.output_speed",
		metric.WithDescription("Output speed of the last computed chain"),
		metric.WithUnit("{rpm}"),
	)
	if err != nil {
		return fmt.Errorf("creating output speed gauge: %w", err)
	}

	return nil
}
