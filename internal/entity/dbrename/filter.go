package dbrename

import (
	"fmt"
	"strings"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/apperrors"
)

// Selection — какие базы экземпляра обрабатывать.
type Selection struct {
	Databases        []string
	ExcludeDatabases []string
	AllDatabases     bool
}

// Validate требует ровно один способ выбора баз: список или AllDatabases.
func (s Selection) Validate() error {
	switch {
	case len(s.Databases) == 0 && !s.AllDatabases:
		return apperrors.NewAppError(apperrors.ErrRenameValidation,
			"не указаны базы: задайте список баз или AllDatabases", nil)
	case len(s.Databases) > 0 && s.AllDatabases:
		return apperrors.NewAppError(apperrors.ErrRenameValidation,
			"список баз и AllDatabases взаимоисключающие", nil)
	}
	return nil
}

// IsSystemDatabase проверяет, является ли база системной.
func IsSystemDatabase(name string) bool {
	for _, sys := range constants.SystemDatabases {
		if strings.EqualFold(sys, name) {
			return true
		}
	}
	return false
}

// selectDatabases отбирает базы для обработки в порядке их перечисления на экземпляре.
// Исключённые по ExcludeDatabases базы не попадают ни в результат, ни в предупреждения.
func selectDatabases(all []Database, sel Selection) ([]Database, []SkippedDatabase) {
	requested := NewNameRegistry(sel.Databases...)
	excluded := NewNameRegistry(sel.ExcludeDatabases...)
	found := NewNameRegistry()

	var targets []Database
	var skipped []SkippedDatabase
	skip := func(db string, reason SkipReason, msg string) {
		skipped = append(skipped, SkippedDatabase{Database: db, Reason: reason, Message: msg})
	}

	for _, db := range all {
		if !sel.AllDatabases && !requested.Contains(db.Name) {
			continue
		}
		found.Add(db.Name)
		if excluded.Contains(db.Name) {
			continue
		}

		switch {
		case IsSystemDatabase(db.Name):
			skip(db.Name, SkipSystem, fmt.Sprintf("база %s является системной и не переименовывается", db.Name))
		case db.IsSnapshot:
			skip(db.Name, SkipSnapshot, fmt.Sprintf("база %s является снимком (snapshot)", db.Name))
		case db.IsMirrored:
			skip(db.Name, SkipMirrored, fmt.Sprintf("база %s участвует в зеркалировании", db.Name))
		case db.IsAGMember:
			skip(db.Name, SkipAvailability, fmt.Sprintf("база %s входит в группу доступности", db.Name))
		case !db.IsAccessible():
			skip(db.Name, SkipInaccessible, fmt.Sprintf("база %s недоступна (состояние %s)", db.Name, db.State))
		default:
			targets = append(targets, db)
		}
	}

	for _, name := range sel.Databases {
		if !found.Contains(name) && !excluded.Contains(name) {
			skip(name, SkipNotFound, fmt.Sprintf("база %s не найдена на экземпляре", name))
		}
	}
	return targets, skipped
}
