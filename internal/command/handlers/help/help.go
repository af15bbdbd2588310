// Package help реализует команду help для вывода списка доступных команд
// и переменных окружения, управляющих запуском.
package help

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Kargones/dbrename/internal/command"
	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/dryrun"
	"github.com/Kargones/dbrename/internal/pkg/output"
	"github.com/Kargones/dbrename/internal/pkg/tracing"
)

// RegisterCmd регистрирует команду help.
func RegisterCmd() error {
	return command.Register(&Handler{})
}

// Data содержит информацию обо всех доступных командах.
type Data struct {
	Commands []CommandInfo `json:"commands" yaml:"commands"`
	Options  []OptionInfo  `json:"options" yaml:"options"`
}

// CommandInfo описывает одну команду.
type CommandInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// OptionInfo описывает переменную окружения.
type OptionInfo struct {
	Env         string `json:"env" yaml:"env"`
	Description string `json:"description" yaml:"description"`
}

// options — основные переменные окружения. Полный список — в README.
var options = []OptionInfo{
	{"BR_OUTPUT_FORMAT", "Формат вывода: text, json, yaml"},
	{"BR_CONFIG_PATH", "YAML-файл конфигурации (по умолчанию dbrename.yaml)"},
	{"BR_ENV_FILE", ".env файл с переменными BR_*"},
	{"BR_MSSQL_SERVER", `Экземпляр SQL Server (host или host\instance)`},
	{"BR_DATABASES", "Базы для обработки через запятую"},
	{"BR_ALL_DATABASES", "Обработать все пользовательские базы"},
	{"BR_EXCLUDE_DATABASES", "Исключаемые базы через запятую"},
	{"BR_DATABASE_NAME", "Шаблон имени базы: <DBN>, <DATE>"},
	{"BR_FILEGROUP_NAME", "Шаблон имени файловой группы: + <FGN>"},
	{"BR_LOGICAL_NAME", "Шаблон логического имени файла: + <FT>, <LGN>"},
	{"BR_FILE_NAME", "Шаблон имени физического файла: + <FNN>"},
	{"BR_REPLACE_BEFORE", "Удалять исходные имена родителей перед подстановкой"},
	{"BR_PREVIEW", "Рассчитать переименования без изменений"},
	{"BR_SET_OFFLINE", "Перевести базу в offline после смены путей файлов"},
	{"BR_MOVE", "Переместить файлы и вернуть базу в online"},
	{"BR_FORCE", "Отключить пользователей перед переименованием базы"},
	{"BR_REMOTE_MODE", "Доступ к файлам: auto, local, remote-session, admin-share"},
	{"BR_DRY_RUN", "План операций по предварительному расчёту, без изменений"},
	{"BR_PLAN_ONLY", "Только план операций"},
	{"BR_VERBOSE", "План операций перед выполнением"},
}

// Handler обрабатывает команду help.
type Handler struct{}

// Name возвращает имя команды.
func (h *Handler) Name() string {
	return constants.ActHelp
}

// Description возвращает описание команды для вывода в help.
func (h *Handler) Description() string {
	return "Вывод списка доступных команд"
}

// Execute собирает список команд и выводит результат.
func (h *Handler) Execute(ctx context.Context, cfg *config.Config) error {
	// dry-run имеет приоритет над plan-only
	if !dryrun.IsDryRun() && dryrun.IsPlanOnly() {
		return dryrun.WritePlanOnlyUnsupported(os.Stdout, constants.ActHelp)
	}

	start := time.Now()
	helpData := buildData()

	traceID := tracing.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = tracing.GenerateTraceID()
	}

	format := os.Getenv(constants.EnvOutputFormat)
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}

	// Текстовый вывод без metadata: trace_id и duration_ms есть только в json/yaml.
	if !output.IsStructured(format) {
		return helpData.writeText(os.Stdout)
	}

	result := &output.Result{
		Status:  output.StatusSuccess,
		Command: constants.ActHelp,
		Data:    helpData,
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: constants.APIVersion,
		},
	}
	return output.NewWriter(format).Write(os.Stdout, result)
}

// buildData собирает команды из реестра в алфавитном порядке.
func buildData() *Data {
	data := &Data{Options: options}
	for name, handler := range command.All() {
		data.Commands = append(data.Commands, CommandInfo{
			Name:        name,
			Description: handler.Description(),
		})
	}
	sort.Slice(data.Commands, func(i, j int) bool {
		return data.Commands[i].Name < data.Commands[j].Name
	})
	return data
}

// writeText выводит информацию о командах в человекочитаемом формате.
func (d *Data) writeText(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(constants.AppName + " — переименование баз данных SQL Server по шаблонам\n")
	sb.WriteString("\nКоманды:\n")

	maxLen := 0
	for _, cmd := range d.Commands {
		maxLen = max(maxLen, len(cmd.Name))
	}
	for _, cmd := range d.Commands {
		fmt.Fprintf(&sb, "  %-*s  %s\n", maxLen, cmd.Name, cmd.Description)
	}

	sb.WriteString("\nОпции:\n")
	maxLen = 0
	for _, opt := range d.Options {
		maxLen = max(maxLen, len(opt.Env))
	}
	for _, opt := range d.Options {
		fmt.Fprintf(&sb, "  %-*s  %s\n", maxLen, opt.Env, opt.Description)
	}

	_, err := fmt.Fprint(w, sb.String())
	return err
}
