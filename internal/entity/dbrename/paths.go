package dbrename

import "strings"

// Пути приходят с хоста SQL Server: "D:\Data\HR.mdf" для Windows,
// "/var/opt/mssql/data/HR.mdf" для Linux. path/filepath разбирает пути
// по правилам ОС, на которой запущена утилита, поэтому разделители ищутся явно.

// SplitPath делит путь на каталог (с завершающим разделителем) и имя файла.
func SplitPath(path string) (dir, file string) {
	i := strings.LastIndexAny(path, `\/`)
	return path[:i+1], path[i+1:]
}

// SplitExt делит имя файла на основу и расширение (с точкой).
// Имя без точки или начинающееся с точки расширения не имеет.
func SplitExt(file string) (base, ext string) {
	i := strings.LastIndex(file, ".")
	if i <= 0 {
		return file, ""
	}
	return file[:i], file[i:]
}

// BaseName возвращает имя файла без каталога и расширения (значение <FNN>).
func BaseName(path string) string {
	_, file := SplitPath(path)
	base, _ := SplitExt(file)
	return base
}

// WithBaseName заменяет основу имени файла, сохраняя каталог и расширение.
func WithBaseName(path, base string) string {
	dir, file := SplitPath(path)
	_, ext := SplitExt(file)
	return dir + base + ext
}

// AdminSharePath переводит локальный путь хоста в UNC путь административного ресурса:
// "D:\Data\HR.mdf" на host → "\\host\D$\Data\HR.mdf".
// Пути без буквы диска возвращаются без изменений.
func AdminSharePath(host, path string) string {
	if len(path) < 2 || path[1] != ':' || host == "" {
		return path
	}
	rest := strings.ReplaceAll(path[2:], "/", `\`)
	return `\\` + host + `\` + strings.ToUpper(path[:1]) + `$` + rest
}
