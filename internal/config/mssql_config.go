package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Kargones/dbrename/internal/constants"
)

// MSSQLConfig содержит параметры подключения к экземпляру SQL Server.
// Булевы поля не имеют env-default: значения по умолчанию задаёт getDefaultMSSQLConfig,
// иначе false из YAML перезаписывался бы значением по умолчанию.
type MSSQLConfig struct {
	// Server - адрес сервера, допускается форма host\instance
	Server string `yaml:"server" env:"BR_MSSQL_SERVER"`

	// Port - порт сервера
	Port int `yaml:"port" env:"BR_MSSQL_PORT"`

	// User - пользователь SQL. Пусто - встроенная аутентификация Windows
	User string `yaml:"user" env:"BR_MSSQL_USER"`

	// Password - пароль пользователя SQL
	Password string `yaml:"password" env:"BR_MSSQL_PASSWORD"`

	// Database - база подключения
	Database string `yaml:"database" env:"BR_MSSQL_DATABASE"`

	Encrypt                bool `yaml:"encrypt" env:"BR_MSSQL_ENCRYPT"`
	TrustServerCertificate bool `yaml:"trustServerCertificate" env:"BR_MSSQL_TRUST_SERVER_CERTIFICATE"`

	// Timeout - таймаут подключения
	Timeout time.Duration `yaml:"timeout" env:"BR_MSSQL_TIMEOUT"`

	// StatementTimeout - таймаут одного запроса или DDL, 0 - без ограничения.
	// ALTER DATABASE ... SET OFFLINE на нагруженной базе может выполняться долго.
	StatementTimeout time.Duration `yaml:"statementTimeout" env:"BR_MSSQL_STATEMENT_TIMEOUT"`
}

func getDefaultMSSQLConfig() *MSSQLConfig {
	return &MSSQLConfig{
		Port:     constants.DefaultMSSQLPort,
		Database: constants.DefaultMSSQLDatabase,
		Encrypt:  true,
		Timeout:  30 * time.Second,
	}
}

// loadMSSQLConfig загружает параметры подключения из AppConfig или значений по умолчанию.
// Переменные окружения BR_MSSQL_* переопределяют оба источника.
func loadMSSQLConfig(l *slog.Logger, cfg *Config) (*MSSQLConfig, error) {
	mssqlConfig := getDefaultMSSQLConfig()
	if cfg.AppConfig != nil {
		c := cfg.AppConfig.MSSQL
		mssqlConfig = &c
	}
	if err := readEnvOverride("MSSQL", mssqlConfig); err != nil {
		return nil, err
	}

	l.Debug("MSSQL конфигурация загружена",
		slog.String("server", mssqlConfig.Server),
		slog.Int("port", mssqlConfig.Port),
		slog.String("user", mssqlConfig.User),
		slog.Bool("encrypt", mssqlConfig.Encrypt),
	)
	return mssqlConfig, nil
}

// validateMSSQLConfig проверяет значения, заданные явно.
// Наличие Server проверяет команда, которой нужно подключение: help и nr-version работают без него.
func validateMSSQLConfig(mc *MSSQLConfig) error {
	if mc.Port < 1 || mc.Port > 65535 {
		return fmt.Errorf("mssql: port должен быть в диапазоне 1-65535, получено: %d", mc.Port)
	}
	if mc.Timeout <= 0 {
		return fmt.Errorf("mssql: timeout должен быть положительным")
	}
	if mc.StatementTimeout < 0 {
		return fmt.Errorf("mssql: statement timeout не может быть отрицательным")
	}
	return nil
}
