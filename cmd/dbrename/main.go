// Package main содержит точку входа для приложения dbrename.
// Приложение переименовывает базы данных SQL Server, их файловые группы и файлы по шаблонам.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kargones/dbrename/internal/command"
	"github.com/Kargones/dbrename/internal/command/handlers"
	"github.com/Kargones/dbrename/internal/command/handlers/shared"
	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/di"
	"github.com/Kargones/dbrename/internal/pkg/logging"
	"github.com/Kargones/dbrename/internal/pkg/metrics"
	"github.com/Kargones/dbrename/internal/pkg/tracing"
)

// Коды завершения процесса.
const (
	exitOK           = 0
	exitUsage        = 2
	exitConfigFailed = 5
	exitCommandError = 8
)

// ErrCommandNotFound — команда отсутствует в реестре.
const ErrCommandNotFound = "COMMAND.NOT_FOUND"

func main() {
	os.Exit(run(context.Background(), os.Args))
}

// run разбирает аргументы командной строки и возвращает exit code.
// os.Exit вызывается только в main, чтобы отработали все defer (tracer shutdown, span.End).
func run(ctx context.Context, args []string) int {
	code := exitOK
	app := newApp(func(ctx context.Context) {
		code = execute(ctx)
	})
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка разбора аргументов: %v\n", err)
		return exitUsage
	}
	return code
}

// envFlag связывает флаг командной строки с переменной окружения BR_*.
type envFlag struct {
	name  string
	env   string
	usage string
	bool  bool
}

// envFlags — флаги, значения которых экспортируются в окружение перед загрузкой конфигурации.
var envFlags = []envFlag{
	{name: "output", env: constants.EnvOutputFormat, usage: "формат вывода: text, json, yaml"},
	{name: "config", env: constants.EnvConfigPath, usage: "YAML-файл конфигурации"},
	{name: "env-file", env: constants.EnvEnvFile, usage: ".env файл с переменными BR_*"},
	{name: "server", env: "BR_MSSQL_SERVER", usage: `экземпляр SQL Server (host или host\instance)`},
	{name: "user", env: "BR_MSSQL_USER", usage: "пользователь SQL Server (пусто — Windows-аутентификация)"},
	{name: "password", env: "BR_MSSQL_PASSWORD", usage: "пароль пользователя SQL Server"},
	{name: "databases", env: "BR_DATABASES", usage: "базы для обработки через запятую"},
	{name: "exclude", env: "BR_EXCLUDE_DATABASES", usage: "исключаемые базы через запятую"},
	{name: "all", env: "BR_ALL_DATABASES", usage: "обработать все пользовательские базы", bool: true},
	{name: "database-name", env: "BR_DATABASE_NAME", usage: "шаблон имени базы"},
	{name: "filegroup-name", env: "BR_FILEGROUP_NAME", usage: "шаблон имени файловой группы"},
	{name: "logical-name", env: "BR_LOGICAL_NAME", usage: "шаблон логического имени файла"},
	{name: "file-name", env: "BR_FILE_NAME", usage: "шаблон имени физического файла"},
	{name: "replace-before", env: "BR_REPLACE_BEFORE", usage: "удалять исходные имена родителей перед подстановкой", bool: true},
	{name: "preview", env: "BR_PREVIEW", usage: "рассчитать переименования без изменений", bool: true},
	{name: "set-offline", env: "BR_SET_OFFLINE", usage: "перевести базу в offline после смены путей", bool: true},
	{name: "move", env: "BR_MOVE", usage: "переместить файлы и вернуть базу в online", bool: true},
	{name: "force", env: "BR_FORCE", usage: "отключить пользователей перед переименованием базы", bool: true},
	{name: "remote-mode", env: "BR_REMOTE_MODE", usage: "доступ к файлам: auto, local, remote-session, admin-share"},
	{name: "dry-run", env: constants.EnvDryRun, usage: "план операций по предварительному расчёту", bool: true},
	{name: "plan-only", env: constants.EnvPlanOnly, usage: "только план операций", bool: true},
	{name: "verbose", env: constants.EnvVerbose, usage: "план операций перед выполнением", bool: true},
}

// newApp создаёт корневую команду CLI. Первый позиционный аргумент — имя команды.
func newApp(action func(ctx context.Context)) *cli.Command {
	flags := make([]cli.Flag, 0, len(envFlags)+1)
	flags = append(flags, &cli.StringFlag{
		Name:    "command",
		Usage:   "имя команды (nr-db-rename, nr-version, help)",
		Sources: cli.EnvVars(constants.EnvCommand),
	})
	for _, f := range envFlags {
		if f.bool {
			flags = append(flags, &cli.BoolFlag{Name: f.name, Usage: f.usage, Sources: cli.EnvVars(f.env)})
			continue
		}
		flags = append(flags, &cli.StringFlag{Name: f.name, Usage: f.usage, Sources: cli.EnvVars(f.env)})
	}

	return &cli.Command{
		Name:            constants.AppName,
		Usage:           "Переименование баз данных SQL Server по шаблонам",
		ArgsUsage:       "[команда]",
		Version:         constants.Version,
		HideHelpCommand: true,
		Flags:           flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := exportFlags(cmd); err != nil {
				return err
			}
			action(ctx)
			return nil
		},
	}
}

// exportFlags переносит заданные флаги в окружение, где их читает config.MustLoad.
// Позиционный аргумент имеет приоритет над --command.
func exportFlags(cmd *cli.Command) error {
	if cmd.IsSet("command") {
		if err := os.Setenv(constants.EnvCommand, cmd.String("command")); err != nil {
			return err
		}
	}
	if name := cmd.Args().First(); name != "" {
		if err := os.Setenv(constants.EnvCommand, name); err != nil {
			return err
		}
	}
	for _, f := range envFlags {
		if !cmd.IsSet(f.name) {
			continue
		}
		value := cmd.String(f.name)
		if f.bool {
			value = strconv.FormatBool(cmd.Bool(f.name))
		}
		if err := os.Setenv(f.env, value); err != nil {
			return fmt.Errorf("не удалось установить %s: %w", f.env, err)
		}
	}
	return nil
}

// execute загружает конфигурацию, инициализирует зависимости и выполняет команду.
func execute(ctx context.Context) int {
	cfg, err := config.MustLoad()
	if err != nil || cfg == nil {
		fmt.Fprintf(os.Stderr, "Не удалось загрузить конфигурацию приложения: %v\n", err)
		return exitConfigFailed
	}
	l := cfg.Logger
	l.Debug("Информация о сборке",
		slog.String("version", constants.Version),
		slog.String("commit_hash", constants.PreCommitHash),
	)

	// Пустая команда → help
	if cfg.Command == "" {
		cfg.Command = constants.ActHelp
	}

	// Повторная регистрация возможна только при повторном вызове execute в одном процессе.
	if err = handlers.RegisterAll(); err != nil && !errors.Is(err, command.ErrDuplicateHandler) {
		l.Error("Ошибка регистрации команд", slog.String("error", err.Error()))
		return exitConfigFailed
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		l.Error("Ошибка инициализации приложения", slog.String("error", err.Error()))
		return exitConfigFailed
	}
	if adapter, ok := app.Logger.(*logging.SlogAdapter); ok {
		slog.SetDefault(adapter.Slog())
		l = adapter.Slog()
	}

	traceID := app.TraceID
	ctx = tracing.WithTraceID(ctx, traceID)
	// Спаны OTel используют тот же trace ID, что и логи.
	ctx = tracing.ContextWithOTelTraceID(ctx, traceID)
	ctx = metrics.WithCollector(ctx, app.MetricsCollector)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.TracerShutdown(shutdownCtx); err != nil {
			l.Error("ошибка завершения tracing",
				slog.String("error", err.Error()),
				slog.String("trace_id", traceID),
				slog.String("command", cfg.Command),
			)
		}
	}()

	server := ""
	if cfg.MSSQL != nil {
		server = cfg.MSSQL.Server
	}

	ctx, span := otel.Tracer(constants.AppName).Start(ctx, cfg.Command,
		trace.WithAttributes(
			attribute.String("command", cfg.Command),
			attribute.String("server", server),
			attribute.String("trace_id", traceID),
		),
	)
	defer span.End()

	handler, ok := command.Get(cfg.Command)
	if !ok {
		l.Error("неизвестная команда",
			slog.String(constants.EnvCommand, cfg.Command),
			slog.String(constants.MsgErrProcessing, constants.MsgAppExit),
		)
		_ = shared.WriteError(os.Stdout, cfg.OutputFormat, cfg.Command, traceID, time.Now(),
			ErrCommandNotFound, fmt.Sprintf("Неизвестная команда %q, список команд: %s", cfg.Command, constants.ActHelp))
		return exitUsage
	}

	app.MetricsCollector.RecordCommandStart(cfg.Command, server)
	start := time.Now()

	execErr := handler.Execute(ctx, cfg)

	app.MetricsCollector.RecordCommandEnd(cfg.Command, server, time.Since(start), execErr == nil)
	_ = app.MetricsCollector.Push(ctx) // ошибки push логируются внутри

	if execErr != nil {
		span.RecordError(execErr)
		l.Error("Ошибка выполнения команды",
			slog.String("command", cfg.Command),
			slog.String("error", execErr.Error()),
			slog.String(constants.MsgErrProcessing, constants.MsgAppExit),
		)
		return exitCommandError
	}
	return exitOK
}
