package dbrename

import "context"

// Catalog — доступ к каталогу экземпляра SQL Server.
// Все имена передаются как есть, экранирование идентификаторов — задача реализации.
type Catalog interface {
	ServerInfo(ctx context.Context) (ServerInfo, error)
	ListDatabases(ctx context.Context) ([]Database, error)
	DatabaseLayout(ctx context.Context, database string) (*Layout, error)
	// InstanceFilePaths возвращает физические пути всех файлов всех баз экземпляра.
	InstanceFilePaths(ctx context.Context) ([]string, error)

	RenameDatabase(ctx context.Context, oldName, newName string) error
	RenameFileGroup(ctx context.Context, database, oldName, newName string) error
	RenameLogicalFile(ctx context.Context, database, oldName, newName string) error
	// SetFilePath меняет путь файла в каталоге. Применяется при следующем переводе базы online.
	SetFilePath(ctx context.Context, database, logicalName, path string) error

	SetSingleUser(ctx context.Context, database string) error
	SetMultiUser(ctx context.Context, database string) error
	SetOffline(ctx context.Context, database string) error
	SetOnline(ctx context.Context, database string) error
}

// FileMover перемещает файлы на хосте SQL Server.
type FileMover interface {
	// ResolveTarget выбирает способ доступа к файлам хоста computerName.
	ResolveTarget(ctx context.Context, computerName string) (MoveTarget, error)
	// Move переименовывает файл source в destination (пути хоста SQL Server).
	Move(ctx context.Context, target MoveTarget, source, destination string) error
}
