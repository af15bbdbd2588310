// Package metrics собирает метрики выполнения команд и переименований
// и отправляет их в Prometheus Pushgateway.
package metrics

import (
	"context"
	"time"

	"github.com/Kargones/dbrename/internal/pkg/logging"
)

// Исходы одного переименования для RecordRename.
const (
	OutcomeRenamed = "renamed"
	OutcomePreview = "preview"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Collector — интерфейс сбора метрик.
type Collector interface {
	// RecordCommandStart фиксирует начало выполнения команды на экземпляре SQL Server.
	RecordCommandStart(command, sqlInstance string)

	// RecordCommandEnd фиксирует завершение команды с длительностью и результатом.
	RecordCommandEnd(command, sqlInstance string, duration time.Duration, success bool)

	// RecordRename фиксирует исход переименования одного объекта на уровне иерархии
	// (database, filegroup, logical, physical, move).
	RecordRename(level, outcome string)

	// RecordDatabase фиксирует итоговый статус обработки базы (FULL, PARTIAL, SKIPPED).
	RecordDatabase(status string)

	// Push отправляет метрики. Ошибки отправки логируются и не возвращаются:
	// недоступность Pushgateway не должна влиять на exit code.
	Push(ctx context.Context) error
}

// NewCollector создаёт Collector: NopCollector при выключенных метриках,
// PrometheusCollector — иначе.
func NewCollector(config Config, logger logging.Logger) (Collector, error) {
	if !config.Enabled {
		return NewNopCollector(), nil
	}
	return NewPrometheusCollector(config, logger)
}

// NopCollector — пустая реализация Collector.
type NopCollector struct{}

// NewNopCollector создаёт NopCollector.
func NewNopCollector() *NopCollector {
	return &NopCollector{}
}

func (c *NopCollector) RecordCommandStart(string, string)                    {}
func (c *NopCollector) RecordCommandEnd(string, string, time.Duration, bool) {}
func (c *NopCollector) RecordRename(string, string)                          {}
func (c *NopCollector) RecordDatabase(string)                                {}
func (c *NopCollector) Push(context.Context) error                           { return nil }
