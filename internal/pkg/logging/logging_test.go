package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"Info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	log := NewLoggerWithWriter(cfg, &buf)

	log.With("database", "HR").Info("база переименована", "new_name", "HR2")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "база переименована", entry["msg"])
	assert.Equal(t, "HR", entry["database"])
	assert.Equal(t, "HR2", entry["new_name"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNewLoggerWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Level = LevelWarn
	log := NewLoggerWithWriter(cfg, &buf)

	log.Debug("отладка")
	log.Info("информация")
	log.Warn("предупреждение")
	log.Error("ошибка")

	out := buf.String()
	assert.NotContains(t, out, "отладка")
	assert.NotContains(t, out, "информация")
	assert.Contains(t, out, "предупреждение")
	assert.Contains(t, out, "ошибка")
}

func TestNewLoggerWithWriter_AddSource(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = FormatJSON
	cfg.AddSource = true
	NewLoggerWithWriter(cfg, &buf).Info("msg")

	assert.Contains(t, buf.String(), `"source"`)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dbrename.log")
	cfg := DefaultConfig()
	cfg.Output = OutputFile
	cfg.FilePath = path

	NewLogger(cfg).Info("запись в файл")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "запись в файл"))
}

func TestSlogAdapter_Slog(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, base, NewSlogAdapter(base).Slog())
	assert.NotNil(t, NewSlogAdapter(nil).Slog())
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
	assert.Same(t, log, log.With("k", "v"))
}
