package di

import (
	"context"

	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/pkg/logging"
	"github.com/Kargones/dbrename/internal/pkg/metrics"
	"github.com/Kargones/dbrename/internal/pkg/output"
)

// App содержит инициализированные зависимости приложения.
// Создаётся через Wire DI в InitializeApp().
//
// При добавлении новых зависимостей:
// 1. Добавить поле в App struct
// 2. Создать провайдер в providers.go
// 3. Добавить провайдер в ProviderSet в wire.go
// 4. Перегенерировать wire_gen.go: go generate ./internal/di/...
type App struct {
	// Config передаётся извне через InitializeApp().
	Config *config.Config

	Logger logging.Logger

	// OutputWriter форматирует результаты команд.
	OutputWriter output.Writer

	// TraceID — идентификатор запуска для корреляции логов.
	TraceID string

	// MetricsCollector отправляет метрики в Prometheus Pushgateway.
	// Если метрики отключены — NopCollector.
	MetricsCollector metrics.Collector

	// TracerShutdown завершает OTel TracerProvider и отправляет буферизированные span-ы.
	TracerShutdown func(context.Context) error
}
