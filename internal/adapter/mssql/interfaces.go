// Package mssql предоставляет реализацию клиента для работы с Microsoft SQL Server.
// Клиент читает каталог экземпляра и выполняет DDL переименования объектов баз данных.
// Интерфейсы разделены по принципу ISP: DatabaseConnector, CatalogReader, CatalogWriter.
// Композитный интерфейс Client объединяет их и удовлетворяет dbrename.Catalog.
package mssql

import (
	"context"

	"github.com/Kargones/dbrename/internal/entity/dbrename"
)

// Коды ошибок для MSSQL операций.
const (
	// ErrMSSQLConnect — ошибка подключения к серверу MSSQL
	ErrMSSQLConnect = "MSSQL.CONNECT_FAILED"
	// ErrMSSQLQuery — ошибка выполнения SQL запроса
	ErrMSSQLQuery = "MSSQL.QUERY_FAILED"
	// ErrMSSQLExec — ошибка выполнения DDL
	ErrMSSQLExec = "MSSQL.EXEC_FAILED"
	// ErrMSSQLTimeout — превышено время ожидания операции
	ErrMSSQLTimeout = "MSSQL.TIMEOUT"
)

// DatabaseConnector предоставляет операции для подключения к серверу MSSQL.
type DatabaseConnector interface {
	// Connect устанавливает соединение с сервером MSSQL.
	Connect(ctx context.Context) error
	// Close закрывает соединение с сервером.
	Close() error
	// Ping проверяет доступность сервера.
	Ping(ctx context.Context) error
}

// CatalogReader читает каталог экземпляра.
type CatalogReader interface {
	// ServerInfo возвращает имя хоста, экземпляра и @@SERVERNAME.
	ServerInfo(ctx context.Context) (dbrename.ServerInfo, error)
	// ListDatabases возвращает базы экземпляра в порядке database_id.
	ListDatabases(ctx context.Context) ([]dbrename.Database, error)
	// DatabaseLayout возвращает файловые группы и файлы базы.
	DatabaseLayout(ctx context.Context, database string) (*dbrename.Layout, error)
	// InstanceFilePaths возвращает пути всех файлов экземпляра (sys.master_files).
	InstanceFilePaths(ctx context.Context) ([]string, error)
}

// CatalogWriter изменяет объекты баз данных.
type CatalogWriter interface {
	RenameDatabase(ctx context.Context, oldName, newName string) error
	RenameFileGroup(ctx context.Context, database, oldName, newName string) error
	RenameLogicalFile(ctx context.Context, database, oldName, newName string) error
	// SetFilePath меняет путь файла в каталоге.
	// Новый путь используется при следующем переводе базы в ONLINE.
	SetFilePath(ctx context.Context, database, logicalName, path string) error
	SetSingleUser(ctx context.Context, database string) error
	SetMultiUser(ctx context.Context, database string) error
	SetOffline(ctx context.Context, database string) error
	SetOnline(ctx context.Context, database string) error
}

// Client — композитный интерфейс, объединяющий все операции MSSQL.
type Client interface {
	DatabaseConnector
	CatalogReader
	CatalogWriter
}

// Compile-time проверка совместимости с доменом.
var _ dbrename.Catalog = (Client)(nil)
