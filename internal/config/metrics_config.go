package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/urlutil"
)

// MetricsConfig содержит настройки для Prometheus метрик.
type MetricsConfig struct {
	// Enabled — включены ли метрики (по умолчанию false).
	Enabled bool `yaml:"enabled" env:"BR_METRICS_ENABLED"`

	// PushgatewayURL — URL Prometheus Pushgateway.
	// Пример: "http://pushgateway:9091"
	PushgatewayURL string `yaml:"pushgatewayUrl" env:"BR_METRICS_PUSHGATEWAY_URL"`

	// JobName — имя job для группировки метрик.
	JobName string `yaml:"jobName" env:"BR_METRICS_JOB_NAME"`

	// Timeout — таймаут HTTP запросов к Pushgateway.
	Timeout time.Duration `yaml:"timeout" env:"BR_METRICS_TIMEOUT"`

	// InstanceLabel — переопределение instance label.
	// Если пусто — используется hostname.
	InstanceLabel string `yaml:"instanceLabel" env:"BR_METRICS_INSTANCE"`
}

// getDefaultMetricsConfig возвращает конфигурацию метрик по умолчанию.
// Метрики отключены по умолчанию.
func getDefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		JobName: constants.AppName,
		Timeout: 10 * time.Second,
	}
}

// loadMetricsConfig загружает конфигурацию метрик из AppConfig или значений по умолчанию.
// Переменные окружения BR_METRICS_* переопределяют оба источника.
func loadMetricsConfig(l *slog.Logger, cfg *Config) (*MetricsConfig, error) {
	metricsConfig := getDefaultMetricsConfig()
	if cfg.AppConfig != nil {
		c := cfg.AppConfig.Metrics
		metricsConfig = &c
	}
	if err := readEnvOverride("Metrics", metricsConfig); err != nil {
		return nil, err
	}

	l.Debug("Metrics конфигурация загружена",
		slog.Bool("enabled", metricsConfig.Enabled),
		slog.String("pushgateway_url", urlutil.MaskURL(metricsConfig.PushgatewayURL)),
		slog.String("job_name", metricsConfig.JobName),
	)
	return metricsConfig, nil
}

// validateMetricsConfig проверяет обязательные поля при включённых метриках.
func validateMetricsConfig(mc *MetricsConfig) error {
	if !mc.Enabled {
		return nil
	}
	if mc.PushgatewayURL == "" {
		return fmt.Errorf("metrics: pushgateway_url обязателен при enabled=true")
	}
	if mc.Timeout <= 0 {
		return fmt.Errorf("metrics: timeout должен быть положительным")
	}
	return nil
}
