package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/dbrename/internal/pkg/logging"
)

func newTestCollector(t *testing.T, url string) *PrometheusCollector {
	t.Helper()
	c, err := NewPrometheusCollector(Config{
		Enabled:        true,
		PushgatewayURL: url,
		JobName:        "dbrename",
		Timeout:        5 * time.Second,
		InstanceLabel:  "runner-01",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestPrometheusCollector_RecordCommandEnd(t *testing.T) {
	c := newTestCollector(t, "http://localhost:9091")

	c.RecordCommandStart("nr-db-rename", "sql01")
	c.RecordCommandEnd("nr-db-rename", "sql01", 1500*time.Millisecond, true)
	c.RecordCommandEnd("nr-db-rename", "sql01", time.Second, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.commandTotal.WithLabelValues("nr-db-rename", "sql01", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commandTotal.WithLabelValues("nr-db-rename", "sql01", "error")))

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["dbrename_command_duration_seconds"])
	assert.True(t, names["dbrename_command_total"])
}

func TestPrometheusCollector_RecordRename(t *testing.T) {
	c := newTestCollector(t, "http://localhost:9091")

	c.RecordRename("database", OutcomeRenamed)
	c.RecordRename("filegroup", OutcomeRenamed)
	c.RecordRename("filegroup", OutcomeRenamed)
	c.RecordRename("physical", OutcomeFailed)
	c.RecordDatabase("PARTIAL")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.renameTotal.WithLabelValues("filegroup", OutcomeRenamed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.renameTotal.WithLabelValues("physical", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.databaseTotal.WithLabelValues("PARTIAL")))
}

func TestPrometheusCollector_Push(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestCollector(t, server.URL)
	c.RecordRename("database", OutcomeRenamed)

	require.NoError(t, c.Push(context.Background()))
	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/dbrename/instance/runner-01"), path)
}

func TestPrometheusCollector_PushErrorIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestCollector(t, server.URL)
	assert.NoError(t, c.Push(context.Background()))
}

func TestPrometheusCollector_PushCancelled(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestCollector(t, server.URL)
	assert.NoError(t, c.Push(ctx))
	assert.False(t, called)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"выключено", Config{}, nil},
		{"нет URL", Config{Enabled: true, JobName: "j", Timeout: time.Second}, ErrPushgatewayURLRequired},
		{"плохой URL", Config{Enabled: true, PushgatewayURL: "localhost", JobName: "j", Timeout: time.Second}, ErrPushgatewayURLInvalid},
		{"нет job", Config{Enabled: true, PushgatewayURL: "http://pg:9091", Timeout: time.Second}, ErrJobNameRequired},
		{"нулевой таймаут", Config{Enabled: true, PushgatewayURL: "http://pg:9091", JobName: "j"}, ErrInvalidTimeout},
		{"корректно", Config{Enabled: true, PushgatewayURL: "http://pg:9091", JobName: "j", Timeout: time.Second}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewCollector(t *testing.T) {
	c, err := NewCollector(DefaultConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	assert.IsType(t, &NopCollector{}, c)

	_, err = NewCollector(Config{Enabled: true}, logging.NewNopLogger())
	assert.ErrorIs(t, err, ErrPushgatewayURLRequired)
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeLabel("a\nb"))
	assert.Len(t, []rune(sanitizeLabel(strings.Repeat("я", 200))), maxLabelLength)
}
