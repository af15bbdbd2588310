package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/Kargones/dbrename/internal/pkg/logging"
	"github.com/Kargones/dbrename/internal/pkg/urlutil"
)

const namespace = "dbrename"

// maxLabelLength ограничивает длину значения label (имена экземпляров приходят из конфигурации).
const maxLabelLength = 128

// PrometheusCollector собирает метрики в собственный registry
// и отправляет их в Pushgateway одним PUT в конце выполнения.
type PrometheusCollector struct {
	config   Config
	logger   logging.Logger
	registry *prometheus.Registry
	instance string

	commandDuration *prometheus.HistogramVec
	commandTotal    *prometheus.CounterVec
	renameTotal     *prometheus.CounterVec
	databaseTotal   *prometheus.CounterVec
}

// NewPrometheusCollector создаёт коллектор и регистрирует метрики.
func NewPrometheusCollector(config Config, logger logging.Logger) (*PrometheusCollector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	instance := config.InstanceLabel
	if instance == "" {
		hostname, err := os.Hostname()
		if err != nil {
			logger.Warn("не удалось получить hostname для label instance", "error", err.Error())
			hostname = "unknown"
		}
		instance = hostname
	}

	c := &PrometheusCollector{
		config:   config,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		instance: instance,
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of command execution in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"command", "sql_instance", "status"}),
		commandTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_total",
			Help:      "Total number of command executions by status",
		}, []string{"command", "sql_instance", "status"}),
		renameTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renames_total",
			Help:      "Total number of object renames by hierarchy level and outcome",
		}, []string{"level", "outcome"}),
		databaseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "databases_total",
			Help:      "Total number of processed databases by final status",
		}, []string{"status"}),
	}

	for _, m := range []prometheus.Collector{c.commandDuration, c.commandTotal, c.renameTotal, c.databaseTotal} {
		if err := c.registry.Register(m); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрики: %w", err)
		}
	}
	return c, nil
}

// RecordCommandStart только логирует: для CLI длительность считается в RecordCommandEnd.
func (c *PrometheusCollector) RecordCommandStart(command, sqlInstance string) {
	c.logger.Debug("metrics: command started", "command", command, "sql_instance", sqlInstance)
}

// RecordCommandEnd записывает длительность и счётчик выполнения команды.
func (c *PrometheusCollector) RecordCommandEnd(command, sqlInstance string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	command = sanitizeLabel(command)
	sqlInstance = sanitizeLabel(sqlInstance)

	c.commandDuration.WithLabelValues(command, sqlInstance, status).Observe(duration.Seconds())
	c.commandTotal.WithLabelValues(command, sqlInstance, status).Inc()
}

// RecordRename увеличивает счётчик переименований уровня.
func (c *PrometheusCollector) RecordRename(level, outcome string) {
	c.renameTotal.WithLabelValues(sanitizeLabel(level), sanitizeLabel(outcome)).Inc()
}

// RecordDatabase увеличивает счётчик обработанных баз по статусу.
func (c *PrometheusCollector) RecordDatabase(status string) {
	c.databaseTotal.WithLabelValues(sanitizeLabel(status)).Inc()
}

// Push отправляет метрики в Pushgateway с таймаутом из конфигурации.
func (c *PrometheusCollector) Push(ctx context.Context) error {
	if ctx.Err() != nil {
		c.logger.Debug("metrics push отменён")
		return nil
	}

	pushCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	err := push.New(c.config.PushgatewayURL, c.config.JobName).
		Gatherer(c.registry).
		Grouping("instance", c.instance).
		PushContext(pushCtx)
	if err != nil {
		c.logger.Error("ошибка отправки метрик в Pushgateway",
			"error", err.Error(),
			"url", urlutil.MaskURL(c.config.PushgatewayURL),
			"job", c.config.JobName,
		)
		return nil
	}

	c.logger.Info("метрики отправлены в Pushgateway",
		"url", urlutil.MaskURL(c.config.PushgatewayURL),
		"job", c.config.JobName,
		"instance", c.instance,
	)
	return nil
}

// Registry возвращает registry коллектора (используется в тестах).
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// sanitizeLabel заменяет управляющие символы на '_' и обрезает значение до maxLabelLength рун.
func sanitizeLabel(value string) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 {
			return '_'
		}
		return r
	}, value)

	if runes := []rune(clean); len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return clean
}
