package dbrename

import (
	"sort"
	"strings"

	"github.com/Kargones/dbrename/internal/constants"
)

// Templates — шаблоны имён по уровням. Пустой шаблон — уровень не обрабатывается.
type Templates struct {
	Database  string
	FileGroup string
	Logical   string
	FileName  string
}

// IsEmpty возвращает true, если не задан ни один шаблон.
func (t Templates) IsEmpty() bool {
	return t.Database == "" && t.FileGroup == "" && t.Logical == "" && t.FileName == ""
}

// values — значения плейсхолдеров для одного объекта.
// Незаполненные поля означают, что плейсхолдер на этом уровне не поддерживается
// и остаётся в имени как есть.
type values struct {
	database    string
	date        string
	fileGroup   *string
	fileType    *string
	logicalName *string
	fileName    *string
}

// expand подставляет значения в шаблон за один проход:
// подставленное значение повторно не разбирается.
func expand(template string, v values) string {
	pairs := []string{
		constants.PlaceholderDatabase, v.database,
		constants.PlaceholderDate, v.date,
	}
	add := func(token string, val *string) {
		if val != nil {
			pairs = append(pairs, token, *val)
		}
	}
	add(constants.PlaceholderFileGroup, v.fileGroup)
	add(constants.PlaceholderFileType, v.fileType)
	add(constants.PlaceholderLogicalName, v.logicalName)
	add(constants.PlaceholderFileName, v.fileName)
	return strings.NewReplacer(pairs...).Replace(template)
}

// stripAncestors удаляет из имени исходные имена родительских объектов
// (режим ReplaceBefore). Более длинные фрагменты удаляются первыми.
// Простая замена подстрок: фрагмент, случайно совпавший с частью имени, тоже удаляется.
func stripAncestors(name string, ancestors ...string) string {
	frags := make([]string, 0, len(ancestors))
	for _, a := range ancestors {
		if a != "" {
			frags = append(frags, a)
		}
	}
	sort.SliceStable(frags, func(i, j int) bool { return len(frags[i]) > len(frags[j]) })
	for _, f := range frags {
		name = strings.ReplaceAll(name, f, "")
	}
	return name
}

func ptr(s string) *string { return &s }
