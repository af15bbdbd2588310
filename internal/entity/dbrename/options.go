package dbrename

import (
	"time"

	"github.com/Kargones/dbrename/internal/pkg/apperrors"
)

// Options — параметры переименования.
type Options struct {
	Templates Templates

	// ReplaceBefore удаляет из имени объекта исходные имена его родителей
	// перед подстановкой в шаблон.
	ReplaceBefore bool
	// Preview рассчитывает переименования без изменяющих вызовов.
	Preview bool
	// SetOffline переводит базу в offline после смены путей файлов.
	SetOffline bool
	// Move перемещает файлы и возвращает базу в online. Подразумевает SetOffline.
	Move bool
	// Force отключает пользователей базы перед её переименованием.
	Force bool

	// Now — источник текущего времени для <DATE>. nil — time.Now.
	Now func() time.Time
}

// Validate проверяет параметры до обращения к любой базе.
func (o Options) Validate() error {
	if o.Templates.IsEmpty() {
		return apperrors.NewAppError(apperrors.ErrRenameValidation,
			"требуется хотя бы один шаблон: DatabaseName, FileGroupName, LogicalName или FileName", nil)
	}
	if (o.SetOffline || o.Move) && o.Templates.FileName == "" {
		return apperrors.NewAppError(apperrors.ErrRenameValidation,
			"SetOffline и Move требуют шаблон FileName", nil)
	}
	return nil
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// takeOffline — нужно ли переводить базу в offline после смены путей.
func (o Options) takeOffline() bool {
	return o.SetOffline || o.Move
}
