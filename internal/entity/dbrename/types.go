// Package dbrename переименовывает базы данных SQL Server и их объекты по шаблонам.
//
// Иерархия объектов обрабатывается в фиксированном порядке:
// база данных → файловые группы → логические файлы (данные, затем журнал)
// → физические файлы (данные, затем журнал) → перемещение файлов.
// Первая ошибка на любом уровне прекращает обработку базы (статус PARTIAL),
// обработка остальных баз продолжается.
package dbrename

import "strings"

// Level — уровень иерархии переименования.
type Level string

// Уровни иерархии. Значения используются как label метрик и в логах.
const (
	LevelDatabase  Level = "database"
	LevelFileGroup Level = "filegroup"
	LevelLogical   Level = "logical"
	LevelPhysical  Level = "physical"
	LevelMove      Level = "move"
)

// FileGroupType — тип файловой группы (sys.filegroups.type).
type FileGroupType string

// Типы файловых групп.
const (
	FileGroupRows            FileGroupType = "Rows"
	FileGroupFileStream      FileGroupType = "FileStream"
	FileGroupMemoryOptimized FileGroupType = "MemoryOptimized"
	FileGroupOther           FileGroupType = "Other"
)

// FileTypeTag — значение плейсхолдера <FT>.
type FileTypeTag string

// Теги типов файлов.
const (
	TagRows            FileTypeTag = "ROWS"
	TagMemoryOptimized FileTypeTag = "MMO"
	TagFileStream      FileTypeTag = "FS"
	TagLog             FileTypeTag = "LOG"
	TagStandard        FileTypeTag = "STD"
)

// Tag возвращает тег <FT> для файлов данных группы этого типа.
func (t FileGroupType) Tag() FileTypeTag {
	switch t {
	case FileGroupRows:
		return TagRows
	case FileGroupFileStream:
		return TagFileStream
	case FileGroupMemoryOptimized:
		return TagMemoryOptimized
	default:
		return TagStandard
	}
}

// Database описывает базу данных экземпляра и её состояние.
type Database struct {
	Name string
	// State — sys.databases.state_desc (ONLINE, OFFLINE, RESTORING, ...).
	State      string
	IsSnapshot bool
	IsMirrored bool
	// IsAGMember — база входит в группу доступности Always On.
	IsAGMember bool
}

// IsAccessible возвращает true для баз в состоянии ONLINE.
func (d Database) IsAccessible() bool {
	return strings.EqualFold(d.State, "ONLINE")
}

// DataFile — файл базы данных: логическое имя и путь на хосте SQL Server.
type DataFile struct {
	LogicalName  string
	PhysicalName string
}

// FileGroup — файловая группа с её файлами данных.
type FileGroup struct {
	Name  string
	Type  FileGroupType
	Files []DataFile
}

// Layout — файловая структура базы данных.
type Layout struct {
	FileGroups []FileGroup
	LogFiles   []DataFile
}

// ServerInfo идентифицирует экземпляр SQL Server в результатах.
type ServerInfo struct {
	// ComputerName — NetBIOS имя хоста, на котором работает SQL Server.
	ComputerName string `json:"computer_name" yaml:"computer_name"`
	// InstanceName — имя экземпляра (MSSQLSERVER для экземпляра по умолчанию).
	InstanceName string `json:"instance_name" yaml:"instance_name"`
	// SqlInstance — @@SERVERNAME.
	SqlInstance string `json:"sql_instance" yaml:"sql_instance"`
}

// Status — итоговый статус обработки базы.
type Status string

// Статусы обработки базы.
const (
	// StatusFull — все запрошенные переименования и перемещения выполнены.
	StatusFull Status = "FULL"
	// StatusPartial — что-то не выполнено, требуется ручное вмешательство.
	StatusPartial Status = "PARTIAL"
)

// TargetKind — способ выполнения файловых операций на хосте SQL Server.
type TargetKind string

// Способы выполнения файловых операций.
const (
	TargetLocal         TargetKind = "local"
	TargetRemoteSession TargetKind = "remote-session"
	TargetAdminShare    TargetKind = "admin-share"
)

// MoveTarget — разрешённый способ доступа к файлам хоста.
type MoveTarget struct {
	Kind TargetKind `json:"kind" yaml:"kind"`
	Host string     `json:"host,omitempty" yaml:"host,omitempty"`
}

// Locate возвращает путь, по которому файл доступен для выбранного способа:
// локальный путь, UNC административного ресурса или путь на удалённом хосте.
func (t MoveTarget) Locate(path string) string {
	if t.Kind == TargetAdminShare {
		return AdminSharePath(t.Host, path)
	}
	return path
}

// PendingMove — физический файл, который нужно переместить.
type PendingMove struct {
	Database    string     `json:"database" yaml:"database"`
	Source      string     `json:"source" yaml:"source"`
	Destination string     `json:"destination" yaml:"destination"`
	Target      MoveTarget `json:"target" yaml:"target"`
	// Location — путь назначения так, как он виден исполнителю перемещения.
	Location string `json:"location" yaml:"location"`
}

// SkipReason — причина исключения базы из обработки.
type SkipReason string

// Причины пропуска баз.
const (
	SkipSystem       SkipReason = "system"
	SkipSnapshot     SkipReason = "snapshot"
	SkipMirrored     SkipReason = "mirrored"
	SkipAvailability SkipReason = "availability-group"
	SkipInaccessible SkipReason = "inaccessible"
	SkipNotFound     SkipReason = "not-found"
)

// SkippedDatabase — база, исключённая из обработки, с предупреждением.
type SkippedDatabase struct {
	Database string     `json:"database" yaml:"database"`
	Reason   SkipReason `json:"reason" yaml:"reason"`
	Message  string     `json:"message" yaml:"message"`
}
