package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Kargones/dbrename/internal/constants"
)

// TracingConfig содержит настройки OpenTelemetry трейсинга.
type TracingConfig struct {
	// Enabled включает отправку трейсов в OTLP бэкенд.
	Enabled bool `yaml:"enabled" env:"BR_TRACING_ENABLED"`

	// Endpoint — URL OTLP HTTP endpoint (например, http://jaeger:4318).
	Endpoint string `yaml:"endpoint" env:"BR_TRACING_ENDPOINT"`

	// ServiceName — имя сервиса для resource attributes.
	ServiceName string `yaml:"serviceName" env:"BR_TRACING_SERVICE_NAME"`

	// Environment — окружение (production, staging, development).
	Environment string `yaml:"environment" env:"BR_TRACING_ENVIRONMENT"`

	// Insecure — использовать HTTP вместо HTTPS для OTLP endpoint.
	Insecure bool `yaml:"insecure" env:"BR_TRACING_INSECURE"`

	// Timeout — таймаут для экспорта трейсов.
	Timeout time.Duration `yaml:"timeout" env:"BR_TRACING_TIMEOUT"`

	// SamplingRate — доля сэмплируемых трейсов (0.0 — ни один, 1.0 — все).
	SamplingRate float64 `yaml:"samplingRate" env:"BR_TRACING_SAMPLING_RATE"`
}

// getDefaultTracingConfig возвращает конфигурацию трейсинга по умолчанию.
// Трейсинг отключён по умолчанию.
func getDefaultTracingConfig() *TracingConfig {
	return &TracingConfig{
		ServiceName:  constants.AppName,
		Environment:  "production",
		Insecure:     true,
		Timeout:      5 * time.Second,
		SamplingRate: 1.0,
	}
}

// loadTracingConfig загружает конфигурацию трейсинга из AppConfig или значений по умолчанию.
// Переменные окружения BR_TRACING_* переопределяют оба источника.
func loadTracingConfig(l *slog.Logger, cfg *Config) (*TracingConfig, error) {
	tracingConfig := getDefaultTracingConfig()
	if cfg.AppConfig != nil {
		c := cfg.AppConfig.Tracing
		tracingConfig = &c
	}
	if err := readEnvOverride("Tracing", tracingConfig); err != nil {
		return nil, err
	}

	l.Debug("Tracing конфигурация загружена",
		slog.Bool("enabled", tracingConfig.Enabled),
		slog.String("endpoint", tracingConfig.Endpoint),
		slog.String("service_name", tracingConfig.ServiceName),
	)
	return tracingConfig, nil
}

// validateTracingConfig проверяет обязательные поля при включённом трейсинге.
func validateTracingConfig(tc *TracingConfig) error {
	if !tc.Enabled {
		return nil
	}
	if tc.Endpoint == "" {
		return fmt.Errorf("tracing: endpoint обязателен при enabled=true")
	}
	if tc.ServiceName == "" {
		return fmt.Errorf("tracing: service name обязателен при enabled=true")
	}
	if tc.Timeout <= 0 {
		return fmt.Errorf("tracing: timeout должен быть положительным")
	}
	if tc.SamplingRate < 0.0 || tc.SamplingRate > 1.0 {
		return fmt.Errorf("tracing: sampling rate должен быть от 0.0 до 1.0, получено: %g", tc.SamplingRate)
	}
	return nil
}
