package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LoggingConfig содержит настройки для логирования.
// Преобразуется в logging.Config в di.ProvideLogger.
type LoggingConfig struct {
	// Level - уровень логирования (debug, info, warn, error)
	Level string `yaml:"level" env:"BR_LOG_LEVEL"`

	// Format - формат логов (json, text)
	Format string `yaml:"format" env:"BR_LOG_FORMAT"`

	// Output - вывод логов (stderr, file)
	Output string `yaml:"output" env:"BR_LOG_OUTPUT"`

	// FilePath - путь к файлу логов (если output=file)
	FilePath string `yaml:"filePath" env:"BR_LOG_FILE_PATH"`

	// MaxSize - максимальный размер файла лога в MB
	MaxSize int `yaml:"maxSize" env:"BR_LOG_MAX_SIZE"`

	// MaxBackups - максимальное количество backup файлов
	MaxBackups int `yaml:"maxBackups" env:"BR_LOG_MAX_BACKUPS"`

	// MaxAge - максимальный возраст backup файлов в днях
	MaxAge int `yaml:"maxAge" env:"BR_LOG_MAX_AGE"`

	// Compress - сжимать ли backup файлы
	Compress bool `yaml:"compress" env:"BR_LOG_COMPRESS"`
}

func getDefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:      "info",
		Format:     "text",
		Output:     "stderr",
		FilePath:   "/var/log/dbrename.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
}

// loadLoggingConfig загружает конфигурацию логирования из AppConfig или значений по умолчанию.
// Переменные окружения BR_LOG_* переопределяют оба источника.
func loadLoggingConfig(l *slog.Logger, cfg *Config) (*LoggingConfig, error) {
	loggingConfig := getDefaultLoggingConfig()
	if cfg.AppConfig != nil {
		c := cfg.AppConfig.Logging
		loggingConfig = &c
	}
	if err := readEnvOverride("Logging", loggingConfig); err != nil {
		return nil, err
	}
	loggingConfig.Level = strings.ToLower(loggingConfig.Level)
	loggingConfig.Format = strings.ToLower(loggingConfig.Format)
	loggingConfig.Output = strings.ToLower(loggingConfig.Output)

	l.Debug("Logging конфигурация загружена",
		slog.String("level", loggingConfig.Level),
		slog.String("format", loggingConfig.Format),
		slog.String("output", loggingConfig.Output),
	)
	return loggingConfig, nil
}

func validateLoggingConfig(lc *LoggingConfig) error {
	switch lc.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging: неизвестный уровень %q", lc.Level)
	}
	switch lc.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging: неизвестный формат %q", lc.Format)
	}
	switch lc.Output {
	case "stderr":
	case "file":
		if lc.FilePath == "" {
			return fmt.Errorf("logging: filePath обязателен при output=file")
		}
	default:
		return fmt.Errorf("logging: неизвестный вывод %q, допустимо: stderr, file", lc.Output)
	}
	return nil
}
