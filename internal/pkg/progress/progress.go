// Package progress отображает ход обработки баз данных.
// В терминале рисуется progress bar, в CI/CD и при перенаправлении вывода
// каждая обработанная база фиксируется строкой лога.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Progress отображает ход операции, состоящей из известного числа шагов.
type Progress interface {
	// Start инициализирует progress с начальным сообщением.
	Start(message string)
	// Update сообщает, что выполнено current шагов. message — текущий объект.
	Update(current int64, message string)
	// Finish завершает progress с финальным статусом.
	Finish()
	// SetTotal устанавливает общее количество шагов.
	SetTotal(total int64)
}

// Options конфигурирует progress.
type Options struct {
	// Total — общее количество шагов
	Total int64
	// Output — куда выводить (обычно os.Stderr: stdout занят результатом команды)
	Output io.Writer
	// ShowETA — показывать ли расчётное время завершения
	ShowETA bool
	// ThrottleInterval — минимальный интервал между перерисовками bar
	ThrottleInterval time.Duration
}

// IsTTY проверяет, является ли writer терминалом.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return false
		}
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// FormatDuration форматирует duration в читаемый вид (1h 7m, 5m 30s, 45s).
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		return "0s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	switch {
	case hours > 0 && seconds == 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case seconds == 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
}
