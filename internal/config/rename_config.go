package config

import (
	"log/slog"
)

// RenameConfig содержит параметры команды nr-db-rename.
type RenameConfig struct {
	// Databases - базы для обработки. Элементы можно перечислять через запятую.
	Databases []string `yaml:"databases" env:"BR_DATABASES" env-separator:","`

	// ExcludeDatabases - базы, исключаемые после выбора по Databases или AllDatabases.
	ExcludeDatabases []string `yaml:"excludeDatabases" env:"BR_EXCLUDE_DATABASES" env-separator:","`

	// AllDatabases - обработать все пользовательские базы экземпляра.
	AllDatabases bool `yaml:"allDatabases" env:"BR_ALL_DATABASES"`

	// Шаблоны имён по уровням. Пустой шаблон - уровень не обрабатывается.
	DatabaseName  string `yaml:"databaseName" env:"BR_DATABASE_NAME"`
	FileGroupName string `yaml:"fileGroupName" env:"BR_FILEGROUP_NAME"`
	LogicalName   string `yaml:"logicalName" env:"BR_LOGICAL_NAME"`
	FileName      string `yaml:"fileName" env:"BR_FILE_NAME"`

	ReplaceBefore bool `yaml:"replaceBefore" env:"BR_REPLACE_BEFORE"`
	Preview       bool `yaml:"preview" env:"BR_PREVIEW"`
	SetOffline    bool `yaml:"setOffline" env:"BR_SET_OFFLINE"`
	Move          bool `yaml:"move" env:"BR_MOVE"`
	Force         bool `yaml:"force" env:"BR_FORCE"`
}

func getDefaultRenameConfig() *RenameConfig {
	return &RenameConfig{}
}

// loadRenameConfig загружает параметры переименования.
// Проверка сочетания шаблонов и флагов выполняется в dbrename.Options.Validate,
// чтобы ошибка возвращалась результатом команды, а не ошибкой запуска.
func loadRenameConfig(l *slog.Logger, cfg *Config) (*RenameConfig, error) {
	renameConfig := getDefaultRenameConfig()
	if cfg.AppConfig != nil {
		c := cfg.AppConfig.Rename
		renameConfig = &c
	}
	if err := readEnvOverride("Rename", renameConfig); err != nil {
		return nil, err
	}
	renameConfig.Databases = splitList(renameConfig.Databases)
	renameConfig.ExcludeDatabases = splitList(renameConfig.ExcludeDatabases)

	l.Debug("Rename конфигурация загружена",
		slog.Any("databases", renameConfig.Databases),
		slog.Bool("all_databases", renameConfig.AllDatabases),
		slog.String("database_name", renameConfig.DatabaseName),
		slog.String("filegroup_name", renameConfig.FileGroupName),
		slog.String("logical_name", renameConfig.LogicalName),
		slog.String("file_name", renameConfig.FileName),
		slog.Bool("preview", renameConfig.Preview),
	)
	return renameConfig, nil
}
