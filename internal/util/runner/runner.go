// Package runner предоставляет функциональность для выполнения внешних команд,
// в первую очередь скриптов PowerShell для файловых операций на хосте SQL Server.
package runner

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Kargones/dbrename/internal/pkg/dryrun"
)

const maxConsoleOut = 2048

// Runner структура для выполнения команд и управления их параметрами
type Runner struct {
	RunString string
	Params    []string
	WorkDir   string
	// Script — текст скрипта, переданного через AddScript. Используется только для логов.
	Script     string
	ConsoleOut []byte
	ErrOut     []byte
}

// ClearParams очищает все параметры команды.
func (r *Runner) ClearParams() {
	r.Params = []string{}
	r.Script = ""
}

// AddScript добавляет параметры запуска скрипта PowerShell.
// Скрипт передаётся через -EncodedCommand: кавычки и спецсимволы не требуют экранирования.
func (r *Runner) AddScript(script string) error {
	encoded, err := EncodeScript(script)
	if err != nil {
		return err
	}
	r.Script = script
	r.Params = append(r.Params, "-NoProfile", "-NonInteractive", "-EncodedCommand", encoded)
	return nil
}

// EncodeScript кодирует скрипт для -EncodedCommand: base64 от UTF-16LE.
func EncodeScript(script string) (string, error) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String(script)
	if err != nil {
		return "", fmt.Errorf("failed to encode script: %w", err)
	}
	return base64.StdEncoding.EncodeToString([]byte(utf16)), nil
}

// validateParams проверяет корректность исполняемого файла и параметров.
func (r *Runner) validateParams() error {
	if r.RunString == "" {
		return errors.New("executable path is empty")
	}
	for _, param := range r.Params {
		if strings.ContainsAny(param, ";&|") {
			return fmt.Errorf("potentially unsafe parameter detected: %s", param)
		}
	}
	return nil
}

// logParams возвращает параметры для лога: закодированный скрипт заменяется на маркер.
func (r *Runner) logParams() []string {
	out := make([]string, len(r.Params))
	for i, p := range r.Params {
		if i > 0 && r.Params[i-1] == "-EncodedCommand" {
			out[i] = "<script>"
			continue
		}
		out[i] = dryrun.MaskPassword(p)
	}
	return out
}

// RunCommand выполняет команду и возвращает стандартный вывод.
// Параметры очищаются после запуска.
func (r *Runner) RunCommand(ctx context.Context, l *slog.Logger) ([]byte, error) {
	defer r.ClearParams()

	l.Debug("Параметры запуска",
		slog.String("Исполняемый файл", r.RunString),
		slog.String("WorkDir", r.WorkDir),
		slog.String("Параметры", fmt.Sprint(r.logParams())),
		slog.String("Скрипт", dryrun.MaskPassword(r.Script)),
	)

	if err := r.validateParams(); err != nil {
		return nil, err
	}

	// #nosec G204 - parameters are validated above
	cmd := exec.CommandContext(ctx, r.RunString, r.Params...)
	cmd.Dir = r.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	r.ConsoleOut = stdout.Bytes()
	r.ErrOut = stderr.Bytes()

	if err != nil {
		l.Error("Runner",
			slog.String("Ошибка при запуске", err.Error()),
			slog.String("Исполняемый файл", r.RunString),
			slog.String("Вывод ошибок", TrimOut([]byte(DecodeOutput(r.ErrOut)))),
		)
		return r.ConsoleOut, err
	}
	l.Debug("Runner",
		slog.String("Вывод консоли", TrimOut([]byte(DecodeOutput(r.ConsoleOut)))),
	)
	return r.ConsoleOut, nil
}

// DecodeOutput возвращает вывод как строку UTF-8.
// Вывод, не являющийся UTF-8, считается выводом консоли Windows в кодировке CP866.
func DecodeOutput(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	result, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), charmap.CodePage866.NewDecoder()))
	if err != nil {
		return string(b)
	}
	return string(result)
}

// TrimOut обрезает вывод команды.
func TrimOut(b []byte) string {
	if len(b) < maxConsoleOut {
		return string(b)
	}
	return string(b[:1020]) + "\n********\n" + string(b[len(b)-1020:])
}
