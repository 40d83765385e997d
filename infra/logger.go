package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lumenfilms/lumen-media-service/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// LoggerClient wraps slog with the OTel log bridge so service logs land in
// the observability stack. Falls back to plain stdout logging when no OTLP
// endpoint is configured (local development).
type LoggerClient struct {
	logger   *slog.Logger
	provider *sdklog.LoggerProvider
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	if cfg.Otel.OTLPEndpoint == "" {
		return &LoggerClient{
			logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		}
	}

	exporter, err := otlploghttp.New(context.Background(),
		otlploghttp.WithEndpoint(cfg.Otel.OTLPEndpoint),
	)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize OTLP log exporter: %v", err))
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.Otel.ServiceName),
		semconv.DeploymentEnvironment(cfg.Environment.Mode),
	))
	if err != nil {
		panic(fmt.Sprintf("Failed to build OTel resource: %v", err))
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	return &LoggerClient{
		logger:   slog.New(otelslog.NewHandler(cfg.Otel.ServiceName, otelslog.WithLoggerProvider(provider))),
		provider: provider,
	}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		l.logger.ErrorContext(ctx, msg, slog.String("error", err.Error()))
		return
	}
	l.logger.ErrorContext(ctx, msg)
}

// Shutdown flushes buffered log records. Safe to call on the stdout fallback.
func (l *LoggerClient) Shutdown(ctx context.Context) error {
	if l.provider == nil {
		return nil
	}
	return l.provider.Shutdown(ctx)
}
