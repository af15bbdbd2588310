package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Kargones/dbrename/internal/constants"
)

// NewLogger создаёт Logger по конфигурации.
// Output=file пишет через lumberjack с ротацией, иначе — stderr.
// Stdout зарезервирован под результат команды.
func NewLogger(config Config) *SlogAdapter {
	return NewLoggerWithWriter(config, writerFor(config))
}

// NewLoggerWithWriter создаёт Logger, пишущий в w.
func NewLoggerWithWriter(config Config, w io.Writer) *SlogAdapter {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(config.Level),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(config.Format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

func writerFor(config Config) io.Writer {
	switch strings.ToLower(config.Output) {
	case OutputFile:
		return newRotatingWriter(config)
	case OutputStderr, "":
		return os.Stderr
	default:
		fmt.Fprintf(os.Stderr, "WARNING: неизвестный logging output %q, используется stderr\n", config.Output) //nolint:errcheck // bootstrap stderr
		return os.Stderr
	}
}

func newRotatingWriter(config Config) io.Writer {
	if config.FilePath == "" {
		fmt.Fprintln(os.Stderr, "WARNING: logging output=file, но путь к файлу пуст, используется stderr") //nolint:errcheck // bootstrap stderr
		return os.Stderr
	}

	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermStandard); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: не удалось создать директорию логов %q: %v, используется stderr\n", dir, err) //nolint:errcheck // bootstrap stderr
			return os.Stderr
		}
	}

	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
}

// parseLevel принимает уровни в любом регистре ("Info", "DEBUG").
// Неизвестный уровень трактуется как info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
