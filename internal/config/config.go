// Package config содержит конфигурацию приложения.
//
// Источники в порядке возрастания приоритета:
//   - значения по умолчанию (getDefault*Config);
//   - YAML-файл приложения (BR_CONFIG_PATH, по умолчанию dbrename.yaml);
//   - переменные окружения BR_*, в том числе загруженные из .env файла (BR_ENV_FILE).
//
// Флаги командной строки экспортируются в окружение до вызова MustLoad,
// поэтому для конфигурации они неотличимы от переменных BR_*.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/dbrename/internal/constants"
)

// AppConfig представляет содержимое YAML-файла приложения.
// Каждая секция необязательна: отсутствующие поля берутся из значений по умолчанию.
type AppConfig struct {
	MSSQL   MSSQLConfig   `yaml:"mssql"`
	Rename  RenameConfig  `yaml:"rename"`
	Remote  RemoteConfig  `yaml:"remote"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// Config содержит полную конфигурацию одного запуска.
type Config struct {
	// Command — имя выполняемой команды (nr-db-rename, nr-version, help).
	Command string `env:"BR_COMMAND"`
	// OutputFormat — формат результата: text, json или yaml.
	OutputFormat string `env:"BR_OUTPUT_FORMAT" env-default:"text"`
	// ConfigPath — путь к YAML-файлу приложения.
	ConfigPath string `env:"BR_CONFIG_PATH"`
	// EnvFile — путь к .env файлу, загружаемому до чтения окружения.
	EnvFile string `env:"BR_ENV_FILE"`

	// AppConfig — содержимое YAML-файла. nil, если файл не найден.
	AppConfig *AppConfig

	MSSQL   *MSSQLConfig
	Rename  *RenameConfig
	Remote  *RemoteConfig
	Logging *LoggingConfig
	Metrics *MetricsConfig
	Tracing *TracingConfig

	// Logger — начальный логгер загрузки конфигурации.
	// Рабочий логгер команды строится в di.ProvideLogger по LoggingConfig.
	Logger *slog.Logger
}

// MustLoad загружает конфигурацию приложения.
// Возвращает:
//   - *Config: загруженная и проверенная конфигурация
//   - error: ошибка чтения .env, YAML или валидации секций
func MustLoad() (*Config, error) {
	if err := loadEnvFile(os.Getenv(constants.EnvEnvFile)); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("не удалось прочитать переменные окружения в Config: %w", err)
	}

	l := getSlog(os.Getenv("BR_LOG_LEVEL"))
	cfg.Logger = l

	appConfig, err := loadAppConfig(l, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.AppConfig = appConfig

	if err = cfg.loadSections(l); err != nil {
		l.Error("Ошибка загрузки конфигурации",
			slog.String("Описание ошибки", err.Error()),
		)
		return nil, err
	}

	l.Debug("Конфигурация загружена",
		slog.String("command", cfg.Command),
		slog.String("output_format", cfg.OutputFormat),
		slog.String("mssql_server", cfg.MSSQL.Server),
		slog.Bool("from_file", cfg.AppConfig != nil),
	)
	return &cfg, nil
}

// loadSections загружает и проверяет все секции конфигурации.
func (cfg *Config) loadSections(l *slog.Logger) error {
	var err error
	if cfg.MSSQL, err = loadMSSQLConfig(l, cfg); err != nil {
		return err
	}
	if err = validateMSSQLConfig(cfg.MSSQL); err != nil {
		return err
	}
	if cfg.Rename, err = loadRenameConfig(l, cfg); err != nil {
		return err
	}
	if cfg.Remote, err = loadRemoteConfig(l, cfg); err != nil {
		return err
	}
	if err = validateRemoteConfig(cfg.Remote); err != nil {
		return err
	}
	if cfg.Logging, err = loadLoggingConfig(l, cfg); err != nil {
		return err
	}
	if err = validateLoggingConfig(cfg.Logging); err != nil {
		return err
	}
	if cfg.Metrics, err = loadMetricsConfig(l, cfg); err != nil {
		return err
	}
	if err = validateMetricsConfig(cfg.Metrics); err != nil {
		return err
	}
	if cfg.Tracing, err = loadTracingConfig(l, cfg); err != nil {
		return err
	}
	return validateTracingConfig(cfg.Tracing)
}

// loadEnvFile загружает переменные из .env файла.
// Уже заданные переменные окружения не перезаписываются.
func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("ошибка загрузки .env файла %s: %w", envFile, err)
	}
	return nil
}

// loadAppConfig читает YAML-файл приложения поверх значений по умолчанию.
// Отсутствие файла по умолчанию не является ошибкой, отсутствие явно заданного — является.
func loadAppConfig(l *slog.Logger, cfg *Config) (*AppConfig, error) {
	configPath := cfg.ConfigPath
	explicit := configPath != ""
	if !explicit {
		configPath = constants.DefaultConfigPath
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // путь задаёт оператор
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			l.Debug("Файл конфигурации не найден, используются переменные окружения",
				slog.String("path", configPath),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла конфигурации %s: %w", configPath, err)
	}

	appConfig := getDefaultAppConfig()
	if err = yaml.Unmarshal(data, appConfig); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", configPath, err)
	}

	l.Debug("Файл конфигурации загружен", slog.String("path", configPath))
	return appConfig, nil
}

func getDefaultAppConfig() *AppConfig {
	return &AppConfig{
		MSSQL:   *getDefaultMSSQLConfig(),
		Rename:  *getDefaultRenameConfig(),
		Remote:  *getDefaultRemoteConfig(),
		Logging: *getDefaultLoggingConfig(),
		Metrics: *getDefaultMetricsConfig(),
		Tracing: *getDefaultTracingConfig(),
	}
}

// readEnvOverride применяет переменные окружения BR_* поверх секции.
// Ошибка разбора значения возвращается: неверный флаг не должен молча игнорироваться.
func readEnvOverride(section string, target any) error {
	if err := cleanenv.ReadEnv(target); err != nil {
		return fmt.Errorf("ошибка загрузки %s конфигурации из переменных окружения: %w", section, err)
	}
	return nil
}

// getSlog создаёт логгер загрузки конфигурации.
// Stdout зарезервирован под результат команды, поэтому логи пишутся в stderr.
func getSlog(logLevel string) *slog.Logger {
	var programLevel = new(slog.LevelVar)
	switch strings.ToLower(logLevel) {
	case strings.ToLower(constants.LogLevelDebug):
		programLevel.Set(slog.LevelDebug)
	case strings.ToLower(constants.LogLevelWarn):
		programLevel.Set(slog.LevelWarn)
	case strings.ToLower(constants.LogLevelError):
		programLevel.Set(slog.LevelError)
	default:
		programLevel.Set(slog.LevelInfo)
	}

	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     programLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if s, ok := a.Value.Any().(*slog.Source); ok {
					s.File = path.Base(s.File)
				}
			}
			return a
		},
	}))
	return l.With(slog.Group("App info",
		slog.String("version", constants.Version),
	))
}

// splitList разбирает список имён из флага или YAML: элементы через запятую,
// пробелы по краям отбрасываются, пустые элементы пропускаются.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
