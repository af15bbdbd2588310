// Package version реализует команду nr-version для вывода информации о сборке.
package version

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/Kargones/dbrename/internal/command"
	"github.com/Kargones/dbrename/internal/config"
	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/dryrun"
	"github.com/Kargones/dbrename/internal/pkg/output"
	"github.com/Kargones/dbrename/internal/pkg/tracing"
)

// RegisterCmd регистрирует команду nr-version.
func RegisterCmd() error {
	return command.Register(&VersionHandler{})
}

// VersionData содержит информацию о версии приложения.
type VersionData struct {
	// Version — полная версия приложения.
	Version string `json:"version" yaml:"version"`

	// GoVersion — версия Go, использованная при сборке.
	GoVersion string `json:"go_version" yaml:"go_version"`

	// Commit — хеш коммита на момент сборки.
	Commit string `json:"commit" yaml:"commit"`

	// Platform — GOOS/GOARCH сборки.
	Platform string `json:"platform" yaml:"platform"`

	// Commands — зарегистрированные команды.
	Commands []string `json:"commands" yaml:"commands"`
}

// writeText выводит информацию о версии в человекочитаемом формате.
func (d *VersionData) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s version %s\n  Go:       %s\n  Commit:   %s\n  Platform: %s\n",
		constants.AppName, d.Version, d.GoVersion, d.Commit, d.Platform)
	return err
}

// buildVersionData создаёт VersionData с fallback значениями.
// Если version пустой — используется "dev", если commit пустой — "unknown".
func buildVersionData(version, commit string) *VersionData {
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	return &VersionData{
		Version:   version,
		GoVersion: runtime.Version(),
		Commit:    commit,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Commands:  command.Names(),
	}
}

// VersionHandler обрабатывает команду nr-version.
type VersionHandler struct{}

// Name возвращает имя команды.
func (h *VersionHandler) Name() string {
	return constants.ActNRVersion
}

// Description возвращает описание команды для вывода в help.
func (h *VersionHandler) Description() string {
	return "Вывод информации о версии приложения"
}

// Execute собирает данные о версии и выводит результат.
func (h *VersionHandler) Execute(ctx context.Context, cfg *config.Config) error {
	start := time.Now()

	versionData := buildVersionData(constants.Version, constants.PreCommitHash)

	traceID := tracing.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = tracing.GenerateTraceID()
	}

	format := os.Getenv(constants.EnvOutputFormat)
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}

	if !dryrun.IsDryRun() && dryrun.IsPlanOnly() {
		return dryrun.WritePlanOnlyUnsupported(os.Stdout, constants.ActNRVersion)
	}

	// Текстовый вывод компактный, без metadata.
	if !output.IsStructured(format) {
		return versionData.writeText(os.Stdout)
	}

	result := &output.Result{
		Status:  output.StatusSuccess,
		Command: constants.ActNRVersion,
		Data:    versionData,
		Metadata: &output.Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: constants.APIVersion,
		},
	}
	return output.NewWriter(format).Write(os.Stdout, result)
}
