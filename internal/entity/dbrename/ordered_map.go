package dbrename

import (
	"encoding/json"
	"strings"

	"github.com/Kargones/dbrename/internal/constants"
)

// Rename — одна пара «старое имя → новое имя».
type Rename struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// OrderedMap хранит переименования в порядке добавления.
// Нулевое значение готово к использованию.
type OrderedMap struct {
	keys   []string
	values map[string]string
}

// Set добавляет или обновляет значение. Обновление сохраняет исходную позицию ключа.
func (m *OrderedMap) Set(from, to string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[from]; !ok {
		m.keys = append(m.keys, from)
	}
	m.values[from] = to
}

// Get возвращает новое имя для from.
func (m *OrderedMap) Get(from string) (string, bool) {
	to, ok := m.values[from]
	return to, ok
}

// Len возвращает количество записей.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Entries возвращает записи в порядке добавления.
func (m *OrderedMap) Entries() []Rename {
	out := make([]Rename, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Rename{From: k, To: m.values[k]})
	}
	return out
}

// Prune удаляет записи, где старое и новое имя совпадают.
func (m *OrderedMap) Prune() {
	kept := m.keys[:0]
	for _, k := range m.keys {
		if m.values[k] == k {
			delete(m.values, k)
			continue
		}
		kept = append(kept, k)
	}
	m.keys = kept
}

// String возвращает строки «old --> new», разделённые переводом строки.
func (m *OrderedMap) String() string {
	lines := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		lines = append(lines, k+constants.RenameArrow+m.values[k])
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON сериализует карту массивом пар, чтобы сохранить порядок.
func (m OrderedMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

// MarshalYAML сериализует карту последовательностью пар.
func (m OrderedMap) MarshalYAML() (any, error) {
	return m.Entries(), nil
}

// RenameMaps — карты переименований по уровням иерархии.
type RenameMaps struct {
	Database    OrderedMap `json:"database" yaml:"database"`
	FileGroup   OrderedMap `json:"filegroup" yaml:"filegroup"`
	LogicalFile OrderedMap `json:"logical_file" yaml:"logical_file"`
	// PhysicalFile содержит полные пути.
	PhysicalFile OrderedMap `json:"physical_file" yaml:"physical_file"`
}

// Prune удаляет тождественные записи на всех уровнях.
func (r *RenameMaps) Prune() {
	r.Database.Prune()
	r.FileGroup.Prune()
	r.LogicalFile.Prune()
	r.PhysicalFile.Prune()
}
