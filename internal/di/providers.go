package di

import (
	"context"
	"log/slog"
	"os"

	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/logging"
	"github.com/Kargones/dbrename/internal/pkg/metrics"
	"github.com/Kargones/dbrename/internal/pkg/output"
	"github.com/Kargones/dbrename/internal/pkg/tracing"
)

// ProvideLogger создаёт Logger на основе LoggingConfig из Config.
//
// Если LoggingConfig == nil или поля пусты, используются значения logging.DefaultConfig():
// text в stderr, уровень info.
func ProvideLogger(cfg *config.Config) logging.Logger {
	logCfg := logging.DefaultConfig()

	if cfg != nil && cfg.Logging != nil {
		lc := cfg.Logging
		if lc.Level != "" {
			logCfg.Level = lc.Level
		}
		if lc.Format != "" {
			logCfg.Format = lc.Format
		}
		if lc.Output != "" {
			logCfg.Output = lc.Output
		}
		if lc.FilePath != "" {
			logCfg.FilePath = lc.FilePath
		}
		// Размер 0 MB не имеет смысла для lumberjack, нулевые значения игнорируются.
		if lc.MaxSize > 0 {
			logCfg.MaxSize = lc.MaxSize
		}
		if lc.MaxBackups > 0 {
			logCfg.MaxBackups = lc.MaxBackups
		}
		if lc.MaxAge > 0 {
			logCfg.MaxAge = lc.MaxAge
		}
		logCfg.Compress = lc.Compress
	}

	return logging.NewLogger(logCfg)
}

// ProvideOutputWriter создаёт Writer по формату из Config, иначе по BR_OUTPUT_FORMAT.
func ProvideOutputWriter(cfg *config.Config) output.Writer {
	format := os.Getenv(constants.EnvOutputFormat)
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	return output.NewWriter(format)
}

// ProvideTraceID генерирует trace_id (32 hex символа) для корреляции логов одного запуска.
func ProvideTraceID() string {
	return tracing.GenerateTraceID()
}

// ProvideMetricsCollector создаёт Collector на основе MetricsConfig.
// При выключенных метриках или ошибке создания возвращает NopCollector.
func ProvideMetricsCollector(cfg *config.Config, logger logging.Logger) metrics.Collector {
	if cfg == nil || cfg.Metrics == nil {
		return metrics.NewNopCollector()
	}

	metricsCfg := metrics.Config{
		Enabled:        cfg.Metrics.Enabled,
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
		JobName:        cfg.Metrics.JobName,
		Timeout:        cfg.Metrics.Timeout,
		InstanceLabel:  cfg.Metrics.InstanceLabel,
	}

	collector, err := metrics.NewCollector(metricsCfg, logger)
	if err != nil {
		logger.Error("ошибка создания MetricsCollector, используется NopCollector",
			slog.String("error", err.Error()),
		)
		return metrics.NewNopCollector()
	}
	return collector
}

// ProvideTracerProvider создаёт OTel TracerProvider и возвращает функцию его завершения.
// При выключенном трейсинге или ошибке инициализации возвращается nop shutdown.
func ProvideTracerProvider(cfg *config.Config, logger logging.Logger) func(context.Context) error {
	if cfg == nil || cfg.Tracing == nil {
		return tracing.NewNopTracerProvider()
	}

	tracingCfg := tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		ServiceName:  cfg.Tracing.ServiceName,
		Version:      constants.Version,
		Environment:  cfg.Tracing.Environment,
		Insecure:     cfg.Tracing.Insecure,
		Timeout:      cfg.Tracing.Timeout,
		SamplingRate: cfg.Tracing.SamplingRate,
	}

	shutdown, err := tracing.NewTracerProvider(tracingCfg, logger)
	if err != nil {
		logger.Error("ошибка инициализации tracing, используется nop provider",
			slog.String("error", err.Error()),
		)
		return tracing.NewNopTracerProvider()
	}
	return shutdown
}
