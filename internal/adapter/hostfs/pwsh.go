package hostfs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/util/runner"
)

// PwshExecutor выполняет скрипты через исполняемый файл PowerShell.
type PwshExecutor struct {
	// Path — путь к pwsh или powershell.exe.
	Path string
	Log  *slog.Logger
}

// NewPwshExecutor создаёт исполнитель. Пустой path — pwsh из PATH.
func NewPwshExecutor(path string, log *slog.Logger) *PwshExecutor {
	if path == "" {
		path = constants.DefaultPwshPath
	}
	if log == nil {
		log = slog.Default()
	}
	return &PwshExecutor{Path: path, Log: log}
}

// Execute запускает скрипт и возвращает его вывод.
// При ошибке в текст ошибки добавляется поток ошибок PowerShell.
func (e *PwshExecutor) Execute(ctx context.Context, script string) (string, error) {
	r := &runner.Runner{RunString: e.Path}
	if err := r.AddScript(script); err != nil {
		return "", err
	}
	out, err := r.RunCommand(ctx, e.Log)
	text := strings.TrimSpace(runner.DecodeOutput(out))
	if err != nil {
		errText := strings.TrimSpace(runner.DecodeOutput(r.ErrOut))
		if errText != "" {
			return text, fmt.Errorf("%w: %s", err, runner.TrimOut([]byte(errText)))
		}
		return text, err
	}
	return text, nil
}
