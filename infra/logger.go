package infra

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/tuanvudang/equip-data-service/config"
)

// LoggerClient wraps slog. Records go through the OTel bridge when telemetry
// is configured, plain JSON on stdout otherwise.
type LoggerClient struct {
	logger *slog.Logger
}

func InitLoggerClient(cfg *config.EnvConfig, telemetry *TelemetryClient) *LoggerClient {
	if telemetry != nil && telemetry.LoggerProvider != nil {
		handler := otelslog.NewHandler(cfg.Telemetry.ServiceName,
			otelslog.WithLoggerProvider(telemetry.LoggerProvider))
		return &LoggerClient{logger: slog.New(handler)}
	}

	return &LoggerClient{logger: slog.New(slog.NewJSONHandler(os.Stdout, nil))}
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...any) {
	l.logger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...any) {
	l.logger.WarnContext(ctx, fmt.Sprintf(format, args...))
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...any) {
	if err != nil {
		l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...), slog.Any("error", err))
		return
	}
	l.logger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}
