// Package dbrenamehandler реализует NR-команду nr-db-rename
// для переименования баз данных SQL Server, их файловых групп и файлов по шаблонам.
package dbrenamehandler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Kargones/dbrename/internal/adapter/hostfs"
	"github.com/Kargones/dbrename/internal/adapter/mssql"
	"github.com/Kargones/dbrename/internal/command"
	"github.com/Kargones/dbrename/internal/command/handlers/shared"
	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/entity/dbrename"
	"github.com/Kargones/dbrename/internal/pkg/apperrors"
	"github.com/Kargones/dbrename/internal/pkg/dryrun"
	"github.com/Kargones/dbrename/internal/pkg/metrics"
	"github.com/Kargones/dbrename/internal/pkg/output"
	"github.com/Kargones/dbrename/internal/pkg/progress"
	"github.com/Kargones/dbrename/internal/pkg/tracing"
)

// Коды ошибок команды.
const (
	ErrDbRenameConfigMissing = "DBRENAME.CONFIG_MISSING"
	ErrDbRenameConnectFailed = "DBRENAME.CONNECT_FAILED"
	ErrDbRenameRunFailed     = "DBRENAME.RUN_FAILED"
	// ErrDbRenamePartial — хотя бы одна база обработана не полностью.
	ErrDbRenamePartial = "DBRENAME.PARTIAL"
)

// RegisterCmd регистрирует команду nr-db-rename.
func RegisterCmd() error {
	return command.Register(&DbRenameHandler{})
}

// DbRenameHandler обрабатывает команду nr-db-rename.
type DbRenameHandler struct {
	// mssqlClient — опциональный MSSQL клиент (nil в production, mock в тестах)
	mssqlClient mssql.Client
	// mover — опциональный исполнитель перемещения файлов (nil в production)
	mover dbrename.FileMover
	// now — источник времени для <DATE> (nil — time.Now)
	now func() time.Time
	// verbosePlan — план операций для verbose режима, добавляется в JSON результат
	verbosePlan *output.DryRunPlan
}

// Name возвращает имя команды.
func (h *DbRenameHandler) Name() string {
	return constants.ActNRDbRename
}

// Description возвращает описание команды для вывода в help.
func (h *DbRenameHandler) Description() string {
	return "Переименование баз данных, файловых групп, логических и физических файлов по шаблонам. " +
		"BR_PREVIEW=true или BR_DRY_RUN=true рассчитывает переименования без изменений"
}

// Execute выполняет команду nr-db-rename.
func (h *DbRenameHandler) Execute(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	traceID := tracing.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = tracing.GenerateTraceID()
	}

	format := os.Getenv(constants.EnvOutputFormat)
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	log := slog.Default().With(slog.String("trace_id", traceID), slog.String("command", constants.ActNRDbRename))

	if cfg == nil || cfg.MSSQL == nil || cfg.MSSQL.Server == "" {
		log.Error("Не указан экземпляр SQL Server")
		return h.writeError(format, traceID, start,
			ErrDbRenameConfigMissing,
			"Не указан экземпляр SQL Server (BR_MSSQL_SERVER)")
	}
	if cfg.Rename == nil {
		return h.writeError(format, traceID, start,
			ErrDbRenameConfigMissing,
			"Не заданы параметры переименования")
	}

	opts := buildOptions(cfg.Rename, h.now)
	sel := buildSelection(cfg.Rename)

	// Проверка до подключения: ошибка шаблонов не должна требовать доступа к серверу.
	for _, check := range []func() error{opts.Validate, sel.Validate} {
		if err := check(); err != nil {
			log.Error("Некорректные параметры переименования", slog.String("error", err.Error()))
			return h.writeError(format, traceID, start, codeOrDefault(err, apperrors.ErrRenameValidation), err.Error())
		}
	}

	log = log.With(slog.String("server", cfg.MSSQL.Server))
	log.Info("Запуск переименования",
		slog.Bool("preview", opts.Preview),
		slog.String("mode", dryrun.EffectiveMode()))

	ctx, span := tracing.StartSpan(ctx, constants.ActNRDbRename, "server", cfg.MSSQL.Server)
	defer span.End()

	// Получение или создание MSSQL клиента
	client := h.mssqlClient
	if client == nil {
		var err error
		client, err = createMSSQLClient(cfg.MSSQL)
		if err != nil {
			log.Error("Не удалось создать MSSQL клиент", slog.String("error", err.Error()))
			return h.writeError(format, traceID, start,
				ErrDbRenameConnectFailed,
				fmt.Sprintf("Не удалось создать MSSQL клиент: %v", err))
		}
	}

	if err := client.Connect(ctx); err != nil {
		log.Error("Не удалось подключиться к MSSQL", slog.String("error", err.Error()))
		return h.writeError(format, traceID, start,
			ErrDbRenameConnectFailed,
			fmt.Sprintf("Не удалось подключиться к MSSQL серверу: %v", err))
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("Ошибка закрытия соединения MSSQL", slog.String("error", closeErr.Error()))
		}
	}()

	if ctx.Err() != nil {
		return h.writeError(format, traceID, start,
			ErrDbRenameConnectFailed,
			fmt.Sprintf("Операция отменена после подключения: %v", ctx.Err()))
	}

	mover := h.mover
	if mover == nil {
		mover = createMover(cfg.Remote, log)
	}
	collector := metrics.FromContext(ctx)

	// === РЕЖИМЫ ПРЕДПРОСМОТРА (порядок приоритетов!) ===
	// План строится по предварительному расчёту: каталог читается, изменений нет.

	// 1. Dry-run: план без выполнения (высший приоритет)
	if dryrun.IsDryRun() {
		log.Info("Dry-run режим: построение плана")
		plan, err := h.previewPlan(ctx, client, mover, opts, sel, log)
		if err != nil {
			return h.writeError(format, traceID, start, codeOrDefault(err, ErrDbRenameRunFailed), err.Error())
		}
		return output.WriteDryRunResult(os.Stdout, format, constants.ActNRDbRename, traceID, constants.APIVersion, start, plan)
	}

	// 2. Plan-only: показать план, не выполнять
	if dryrun.IsPlanOnly() {
		log.Info("Plan-only режим: отображение плана операций")
		plan, err := h.previewPlan(ctx, client, mover, opts, sel, log)
		if err != nil {
			return h.writeError(format, traceID, start, codeOrDefault(err, ErrDbRenameRunFailed), err.Error())
		}
		return output.WritePlanOnlyResult(os.Stdout, format, constants.ActNRDbRename, traceID, constants.APIVersion, start, plan)
	}

	// 3. Verbose: показать план, потом выполнить
	if dryrun.IsVerbose() && !opts.Preview {
		log.Info("Verbose режим: отображение плана перед выполнением")
		plan, err := h.previewPlan(ctx, client, mover, opts, sel, log)
		if err != nil {
			return h.writeError(format, traceID, start, codeOrDefault(err, ErrDbRenameRunFailed), err.Error())
		}
		if !output.IsStructured(format) {
			if writeErr := plan.WritePlanText(os.Stdout); writeErr != nil {
				log.Warn("Не удалось вывести план операций", slog.String("error", writeErr.Error()))
			}
			fmt.Fprintln(os.Stdout) //nolint:errcheck // writing to stdout
		}
		h.verbosePlan = plan
	}

	prog := progress.New(progress.Options{Output: os.Stderr, ShowETA: true}, log)
	renamer := dbrename.NewRenamer(client, mover, opts,
		dbrename.WithLogger(log),
		dbrename.WithMetrics(collector),
		dbrename.WithProgress(prog),
	)

	report, err := renamer.Run(ctx, sel)
	if err != nil {
		log.Error("Ошибка переименования", slog.String("error", err.Error()))
		return h.writeError(format, traceID, start, codeOrDefault(err, ErrDbRenameRunFailed), err.Error())
	}

	data := newDbRenameData(report)
	full, partial := report.Counts()
	log.Info("Переименование завершено",
		slog.Int("full", full),
		slog.Int("partial", partial),
		slog.Int("skipped", len(report.Skipped)),
		slog.Duration("duration", time.Since(start)))

	status := output.StatusSuccess
	if report.HasPartial() {
		status = output.StatusPartial
	}

	result := &output.Result{
		Status:  status,
		Command: constants.ActNRDbRename,
		Data:    data,
		Plan:    h.verbosePlan,
		Summary: buildSummary(report),
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: constants.APIVersion,
		},
	}
	if err := output.NewWriter(format).Write(os.Stdout, result); err != nil {
		return fmt.Errorf("%s: %w", shared.ErrOutputWrite, err)
	}

	if status == output.StatusPartial {
		return fmt.Errorf("%s: баз обработано не полностью: %d", ErrDbRenamePartial, partial)
	}
	return nil
}

// writeError выводит структурированную ошибку и возвращает error.
func (h *DbRenameHandler) writeError(format, traceID string, start time.Time, code, message string) error {
	return shared.WriteError(os.Stdout, format, constants.ActNRDbRename, traceID, start, code, message)
}

// buildOptions переносит параметры конфигурации в dbrename.Options.
// BR_DRY_RUN включает Preview так же, как явный флаг.
func buildOptions(rc *config.RenameConfig, now func() time.Time) dbrename.Options {
	return dbrename.Options{
		Templates: dbrename.Templates{
			Database:  rc.DatabaseName,
			FileGroup: rc.FileGroupName,
			Logical:   rc.LogicalName,
			FileName:  rc.FileName,
		},
		ReplaceBefore: rc.ReplaceBefore,
		Preview:       rc.Preview || dryrun.IsDryRun(),
		SetOffline:    rc.SetOffline,
		Move:          rc.Move,
		Force:         rc.Force,
		Now:           now,
	}
}

func buildSelection(rc *config.RenameConfig) dbrename.Selection {
	return dbrename.Selection{
		Databases:        rc.Databases,
		ExcludeDatabases: rc.ExcludeDatabases,
		AllDatabases:     rc.AllDatabases,
	}
}

// createMSSQLClient создаёт клиент по параметрам MSSQLConfig.
func createMSSQLClient(mc *config.MSSQLConfig) (mssql.Client, error) {
	opts := mssql.ClientOptions{
		Server:                 mc.Server,
		Port:                   mc.Port,
		User:                   mc.User,
		Password:               mc.Password,
		Database:               mc.Database,
		Timeout:                mc.Timeout,
		StatementTimeout:       mc.StatementTimeout,
		TrustServerCertificate: mc.TrustServerCertificate,
	}
	return mssql.NewClientWithEncrypt(opts, mc.Encrypt)
}

// createMover создаёт hostfs.Mover. Без RemoteConfig используется режим auto.
func createMover(rc *config.RemoteConfig, log *slog.Logger) *hostfs.Mover {
	opts := hostfs.Options{Mode: hostfs.ModeAuto}
	pwshPath := constants.DefaultPwshPath
	if rc != nil {
		opts.Mode = rc.Mode
		opts.LocalHosts = rc.LocalHosts
		if rc.PwshPath != "" {
			pwshPath = rc.PwshPath
		}
	}
	return hostfs.NewMover(opts, hostfs.NewPwshExecutor(pwshPath, log), log)
}

// codeOrDefault возвращает код AppError из цепочки ошибок или fallback.
func codeOrDefault(err error, fallback string) string {
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return fallback
}
