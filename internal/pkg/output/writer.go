package output

import (
	"io"
	"strings"
)

// FormatJSON, FormatText и FormatYAML — поддерживаемые форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatYAML = "yaml"
)

// Writer определяет интерфейс для форматирования результатов команд.
// Реализации: JSONWriter, TextWriter, YAMLWriter.
type Writer interface {
	// Write форматирует result и записывает в w.
	Write(w io.Writer, result *Result) error
}

// TextRenderer реализуется payload'ом команды, у которого есть собственное
// человекочитаемое представление. TextWriter использует его вместо JSON-дампа Data.
type TextRenderer interface {
	WriteText(w io.Writer) error
}

// NewWriter создаёт Writer по указанному формату (case-insensitive).
// При неизвестном формате возвращает TextWriter.
func NewWriter(format string) Writer {
	switch NormalizeFormat(format) {
	case FormatJSON:
		return NewJSONWriter()
	case FormatYAML:
		return NewYAMLWriter()
	default:
		return NewTextWriter()
	}
}

// NormalizeFormat приводит формат к одному из поддерживаемых значений.
// "yml" считается синонимом "yaml", всё неизвестное — "text".
func NormalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return FormatJSON
	case FormatYAML, "yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// IsStructured возвращает true для машиночитаемых форматов (json, yaml).
func IsStructured(format string) bool {
	return NormalizeFormat(format) != FormatText
}
