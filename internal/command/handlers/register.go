// Package handlers явно регистрирует все обработчики команд в глобальном реестре.
package handlers

import (
	"github.com/Kargones/dbrename/internal/command/handlers/dbrenamehandler"
	"github.com/Kargones/dbrename/internal/command/handlers/help"
	"github.com/Kargones/dbrename/internal/command/handlers/version"
)

// RegisterAll регистрирует все обработчики команд.
// Вызывается один раз из main() до обращения к реестру.
func RegisterAll() error {
	for _, register := range []func() error{
		dbrenamehandler.RegisterCmd,
		help.RegisterCmd,
		version.RegisterCmd,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
