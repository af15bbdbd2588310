package di

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/pkg/metrics"
	"github.com/Kargones/dbrename/internal/pkg/output"
)

func TestProvideLogger(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"nil config", nil},
		{"nil LoggingConfig", &config.Config{}},
		{"debug json", &config.Config{Logging: &config.LoggingConfig{Level: "debug", Format: "json"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := ProvideLogger(tt.cfg)
			require.NotNil(t, logger)
			assert.NotPanics(t, func() { logger.Debug("проверка", "key", "value") })
		})
	}
}

func TestProvideOutputWriter(t *testing.T) {
	t.Setenv("BR_OUTPUT_FORMAT", "json")
	assert.IsType(t, &output.JSONWriter{}, ProvideOutputWriter(nil))
	assert.IsType(t, &output.YAMLWriter{}, ProvideOutputWriter(&config.Config{OutputFormat: "yaml"}),
		"формат из Config приоритетнее переменной окружения")

	t.Setenv("BR_OUTPUT_FORMAT", "")
	assert.IsType(t, &output.TextWriter{}, ProvideOutputWriter(&config.Config{}))
}

func TestProvideTraceID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := ProvideTraceID()
		assert.Regexp(t, re, id)
		assert.False(t, seen[id], "trace_id должен быть уникальным")
		seen[id] = true
	}
}

func TestProvideMetricsCollector(t *testing.T) {
	logger := ProvideLogger(nil)

	assert.IsType(t, &metrics.NopCollector{}, ProvideMetricsCollector(nil, logger))
	assert.IsType(t, &metrics.NopCollector{}, ProvideMetricsCollector(&config.Config{}, logger))
	assert.IsType(t, &metrics.NopCollector{}, ProvideMetricsCollector(&config.Config{
		Metrics: &config.MetricsConfig{Enabled: false},
	}, logger))
	assert.IsType(t, &metrics.PrometheusCollector{}, ProvideMetricsCollector(&config.Config{
		Metrics: &config.MetricsConfig{
			Enabled:        true,
			PushgatewayURL: "http://pushgateway:9091",
			JobName:        "dbrename",
			Timeout:        time.Second,
		},
	}, logger))
}

func TestProvideMetricsCollector_InvalidConfigFallsBackToNop(t *testing.T) {
	c := ProvideMetricsCollector(&config.Config{
		Metrics: &config.MetricsConfig{Enabled: true},
	}, ProvideLogger(nil))
	assert.IsType(t, &metrics.NopCollector{}, c)
}

func TestProvideTracerProvider_Disabled(t *testing.T) {
	shutdown := ProvideTracerProvider(&config.Config{Tracing: &config.TracingConfig{}}, ProvideLogger(nil))
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitializeApp(t *testing.T) {
	t.Setenv("BR_OUTPUT_FORMAT", "json")
	cfg := &config.Config{
		Command: "nr-db-rename",
		Logging: &config.LoggingConfig{Level: "debug", Format: "text"},
	}

	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)

	assert.Same(t, cfg, app.Config)
	assert.NotNil(t, app.Logger)
	assert.Len(t, app.TraceID, 32)
	assert.IsType(t, &metrics.NopCollector{}, app.MetricsCollector)
	require.NotNil(t, app.TracerShutdown)
	assert.NoError(t, app.TracerShutdown(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, app.OutputWriter.Write(&buf, &output.Result{Status: output.StatusSuccess, Command: "nr-db-rename"}))
	assert.Contains(t, buf.String(), `"status": "success"`)
}
