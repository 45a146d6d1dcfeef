package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging exports log records over OTLP/HTTP in addition to stdout.
// Records carry the service.name and service.version resource attributes
// and are scoped to ServiceName() at ServiceVersion. It must run after
// InitLogger, whose core and level it reuses.
func InitLogging(ctx context.Context) (func(context.Context) error, error) {
	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	l, err := teeOTLP(Logger, provider)
	if err != nil {
		return nil, err
	}
	Logger = l

	return provider.Shutdown, nil
}

// teeOTLP adds an OTel core to base. The OTel core only sees entries the
// base core enables, so LOG_LEVEL bounds both outputs.
func teeOTLP(base *zap.Logger, provider log.LoggerProvider) (*zap.Logger, error) {
	otelCore := otelzap.NewCore(ServiceName(),
		otelzap.WithLoggerProvider(provider),
		otelzap.WithVersion(ServiceVersion),
		otelzap.WithSchemaURL(semconv.SchemaURL),
	)

	leveled, err := zapcore.NewIncreaseLevelCore(otelCore, base.Core())
	if err != nil {
		return nil, fmt.Errorf("level otel log core: %w", err)
	}

	return zap.New(zapcore.NewTee(base.Core(), leveled)), nil
}
