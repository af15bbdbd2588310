// Package shared содержит общие компоненты для всех command handlers.
package shared

// Общие коды ошибок для всех команд.
const (
	// ErrConfigMissing — отсутствует необходимая конфигурация.
	ErrConfigMissing = "CONFIG.MISSING"
	// ErrOutputWrite — не удалось записать результат команды.
	ErrOutputWrite = "OUTPUT.WRITE_FAILED"
)
