// Package command предоставляет интерфейс обработчика команды и реестр команд.
// Обработчики регистрируются явно из handlers.RegisterAll, без init().
package command

import (
	"context"

	"github.com/Kargones/dbrename/internal/config"
)

// Handler определяет интерфейс обработчика команды.
// Каждая команда приложения должна реализовывать этот интерфейс.
// Обработчики регистрируются явно через handlers.RegisterAll().
type Handler interface {
	// Name возвращает имя команды для регистрации в реестре.
	// Должно соответствовать константам из internal/constants
	// (например, "nr-db-rename", "nr-version").
	Name() string

	// Description возвращает описание команды для вывода в help.
	Description() string

	// Execute выполняет команду с переданным контекстом и конфигурацией.
	// Возвращает ошибку если выполнение завершилось неуспешно.
	Execute(ctx context.Context, cfg *config.Config) error
}
