// Package constants содержит все константы, используемые в проекте dbrename.
// Константы сгруппированы по их функциональному назначению для удобства использования и поддержки.
package constants

// Константы сообщений приложения
const (
	// MsgAppExit - сообщение о завершении работы программы
	MsgAppExit = "Завершение работы программы"
	// MsgErrProcessing - сообщение об обработке ошибки
	MsgErrProcessing = "Обработка ошибки"
	// MsgSource - сообщение об исходном объекте
	MsgSource = "Исходный"
	// MsgDistination - сообщение о конечном объекте
	MsgDistination = "Конечный"
)

// AppName - имя приложения, используется в help, version и метриках.
const AppName = "dbrename"

// Константы действий (команд)
const (
	// ActHelp - вывод списка команд
	ActHelp = "help"
	// ActNRVersion - вывод версии приложения
	ActNRVersion = "nr-version"
	// ActNRDbRename - переименование баз данных по шаблонам
	ActNRDbRename = "nr-db-rename"
)

// Константы API
const (
	// APIVersion - версия API
	APIVersion = "v1"
)

// Переменные окружения, управляющие режимами выполнения.
const (
	// EnvCommand - имя выполняемой команды
	EnvCommand = "BR_COMMAND"
	// EnvOutputFormat - формат вывода (text, json, yaml)
	EnvOutputFormat = "BR_OUTPUT_FORMAT"
	// EnvDryRun - режим dry-run: построение плана без выполнения
	EnvDryRun = "BR_DRY_RUN"
	// EnvPlanOnly - вывод только плана операций
	EnvPlanOnly = "BR_PLAN_ONLY"
	// EnvVerbose - подробный вывод с планом операций
	EnvVerbose = "BR_VERBOSE"
	// EnvConfigPath - путь к YAML-файлу конфигурации приложения
	EnvConfigPath = "BR_CONFIG_PATH"
	// EnvEnvFile - путь к .env файлу
	EnvEnvFile = "BR_ENV_FILE"
)

// Константы уровней логирования
const (
	// LogLevelDebug - уровень отладки
	LogLevelDebug = "Debug"
	// LogLevelInfo - информационный уровень
	LogLevelInfo = "Info"
	// LogLevelWarn - уровень предупреждений
	LogLevelWarn = "Warn"
	// LogLevelError - уровень ошибок
	LogLevelError = "Error"
	// LogLevelDefault - уровень по умолчанию
	LogLevelDefault = LogLevelInfo
)

// Константы подключения к SQL Server
const (
	// DefaultMSSQLPort - порт SQL Server по умолчанию
	DefaultMSSQLPort = 1433
	// DefaultMSSQLDatabase - база подключения по умолчанию
	DefaultMSSQLDatabase = "master"
	// DefaultConfigPath - файл конфигурации приложения по умолчанию
	DefaultConfigPath = "dbrename.yaml"
	// DefaultPwshPath - исполняемый файл PowerShell по умолчанию
	DefaultPwshPath = "pwsh"
)

// SystemDatabases - системные базы SQL Server, которые никогда не переименовываются.
var SystemDatabases = []string{"master", "model", "msdb", "tempdb", "distribution"}

// PrimaryFileGroup - имя файловой группы, которая никогда не переименовывается.
const PrimaryFileGroup = "PRIMARY"

// Плейсхолдеры шаблонов имён.
const (
	// PlaceholderDatabase - текущее имя базы данных
	PlaceholderDatabase = "<DBN>"
	// PlaceholderDate - текущая дата в формате yyyyMMdd
	PlaceholderDate = "<DATE>"
	// PlaceholderFileGroup - имя файловой группы
	PlaceholderFileGroup = "<FGN>"
	// PlaceholderFileType - тег типа файла (ROWS, MMO, FS, LOG, STD)
	PlaceholderFileType = "<FT>"
	// PlaceholderLogicalName - логическое имя файла
	PlaceholderLogicalName = "<LGN>"
	// PlaceholderFileName - имя физического файла без каталога и расширения
	PlaceholderFileName = "<FNN>"
)

// DateLayout - формат подстановки <DATE> (yyyyMMdd).
const DateLayout = "20060102"

// RenameArrow - разделитель старого и нового имени в текстовом отчёте.
const RenameArrow = " --> "

// DirPermStandard - права на создаваемые каталоги логов (owner rwx, group r-x).
const DirPermStandard = 0o750
