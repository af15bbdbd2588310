package dbrename

import (
	"fmt"
	"strings"
)

// NameRegistry — множество имён одной области видимости.
// Сравнение без учёта регистра: так сравнивает SQL Server с collation по умолчанию
// и файловая система Windows.
type NameRegistry struct {
	names map[string]struct{}
}

// NewNameRegistry создаёт реестр из списка имён.
func NewNameRegistry(names ...string) *NameRegistry {
	r := &NameRegistry{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		r.Add(n)
	}
	return r
}

func registryKey(name string) string {
	return strings.ToLower(name)
}

// Add регистрирует имя.
func (r *NameRegistry) Add(name string) {
	r.names[registryKey(name)] = struct{}{}
}

// Contains проверяет, занято ли имя.
func (r *NameRegistry) Contains(name string) bool {
	_, ok := r.names[registryKey(name)]
	return ok
}

// TakenByOther проверяет, занято ли имя кем-то кроме self.
// Переименование "hr" → "HR" не считается коллизией.
func (r *NameRegistry) TakenByOther(name, self string) bool {
	if strings.EqualFold(name, self) {
		return false
	}
	return r.Contains(name)
}

// Replace удаляет старое имя и регистрирует новое.
func (r *NameRegistry) Replace(oldName, newName string) {
	delete(r.names, registryKey(oldName))
	r.Add(newName)
}

// PathRegistry — реестр имён файлов по каталогам всего экземпляра.
type PathRegistry struct {
	dirs map[string]*NameRegistry
}

// NewPathRegistry создаёт реестр из полных путей файлов.
func NewPathRegistry(paths ...string) *PathRegistry {
	r := &PathRegistry{dirs: make(map[string]*NameRegistry)}
	for _, p := range paths {
		r.Add(p)
	}
	return r
}

func (r *PathRegistry) dir(path string) (*NameRegistry, string) {
	dir, file := SplitPath(path)
	key := registryKey(dir)
	names, ok := r.dirs[key]
	if !ok {
		names = NewNameRegistry()
		r.dirs[key] = names
	}
	return names, file
}

// Add регистрирует путь.
func (r *PathRegistry) Add(path string) {
	names, file := r.dir(path)
	names.Add(file)
}

// TakenByOther проверяет, занят ли путь другим файлом каталога.
func (r *PathRegistry) TakenByOther(path, self string) bool {
	if strings.EqualFold(path, self) {
		return false
	}
	names, file := r.dir(path)
	return names.Contains(file)
}

// Replace удаляет старый путь и регистрирует новый.
func (r *PathRegistry) Replace(oldPath, newPath string) {
	names, file := r.dir(oldPath)
	delete(names.names, registryKey(file))
	r.Add(newPath)
}

// disambiguate возвращает base, если оно свободно, иначе base с трёхзначным
// счётчиком (001, 002, ...). Каждый кандидат проверяется через taken,
// поэтому учитываются и имена, выданные ранее в этом же проходе.
// Возвращает имя и новое значение счётчика.
func disambiguate(base string, counter int, taken func(candidate string) bool) (string, int) {
	name := base
	for taken(name) {
		counter++
		name = fmt.Sprintf("%s%03d", base, counter)
	}
	return name, counter
}
