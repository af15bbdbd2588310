// Package mssqltest предоставляет тестовые утилиты для пакета mssql:
// мок-реализации интерфейсов и вспомогательные конструкторы.
package mssqltest

import (
	"context"

	"github.com/Kargones/dbrename/internal/adapter/mssql"
	"github.com/Kargones/dbrename/internal/entity/dbrename"
)

// Compile-time проверки реализации интерфейсов
var (
	_ mssql.Client            = (*MockMSSQLClient)(nil)
	_ mssql.DatabaseConnector = (*MockMSSQLClient)(nil)
	_ mssql.CatalogReader     = (*MockMSSQLClient)(nil)
	_ mssql.CatalogWriter     = (*MockMSSQLClient)(nil)
)

// MockMSSQLClient — мок-реализация mssql.Client для тестирования.
// Использует функциональные поля для гибкой настройки поведения в тестах.
// Без пользовательской функции изменяющие методы возвращают nil.
type MockMSSQLClient struct {
	ConnectFunc func(ctx context.Context) error
	CloseFunc   func() error
	PingFunc    func(ctx context.Context) error

	ServerInfoFunc        func(ctx context.Context) (dbrename.ServerInfo, error)
	ListDatabasesFunc     func(ctx context.Context) ([]dbrename.Database, error)
	DatabaseLayoutFunc    func(ctx context.Context, database string) (*dbrename.Layout, error)
	InstanceFilePathsFunc func(ctx context.Context) ([]string, error)

	RenameDatabaseFunc    func(ctx context.Context, oldName, newName string) error
	RenameFileGroupFunc   func(ctx context.Context, database, oldName, newName string) error
	RenameLogicalFileFunc func(ctx context.Context, database, oldName, newName string) error
	SetFilePathFunc       func(ctx context.Context, database, logicalName, path string) error
	SetSingleUserFunc     func(ctx context.Context, database string) error
	SetMultiUserFunc      func(ctx context.Context, database string) error
	SetOfflineFunc        func(ctx context.Context, database string) error
	SetOnlineFunc         func(ctx context.Context, database string) error
}

// Connect устанавливает соединение с сервером MSSQL.
func (m *MockMSSQLClient) Connect(ctx context.Context) error {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return nil
}

// Close закрывает соединение с сервером.
func (m *MockMSSQLClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ping проверяет доступность сервера.
func (m *MockMSSQLClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// ServerInfo по умолчанию возвращает экземпляр по умолчанию на хосте SQL01.
func (m *MockMSSQLClient) ServerInfo(ctx context.Context) (dbrename.ServerInfo, error) {
	if m.ServerInfoFunc != nil {
		return m.ServerInfoFunc(ctx)
	}
	return dbrename.ServerInfo{ComputerName: "SQL01", InstanceName: "MSSQLSERVER", SqlInstance: "SQL01"}, nil
}

// ListDatabases по умолчанию возвращает системные базы и базу HR.
func (m *MockMSSQLClient) ListDatabases(ctx context.Context) ([]dbrename.Database, error) {
	if m.ListDatabasesFunc != nil {
		return m.ListDatabasesFunc(ctx)
	}
	dbs := make([]dbrename.Database, 0, 5)
	for _, name := range []string{"master", "tempdb", "model", "msdb", "HR"} {
		dbs = append(dbs, dbrename.Database{Name: name, State: "ONLINE"})
	}
	return dbs, nil
}

// DatabaseLayout по умолчанию возвращает PRIMARY с одним файлом данных и один файл журнала.
func (m *MockMSSQLClient) DatabaseLayout(ctx context.Context, database string) (*dbrename.Layout, error) {
	if m.DatabaseLayoutFunc != nil {
		return m.DatabaseLayoutFunc(ctx, database)
	}
	return &dbrename.Layout{
		FileGroups: []dbrename.FileGroup{{
			Name:  "PRIMARY",
			Type:  dbrename.FileGroupRows,
			Files: []dbrename.DataFile{{LogicalName: database, PhysicalName: `D:\Data\` + database + `.mdf`}},
		}},
		LogFiles: []dbrename.DataFile{{LogicalName: database + "_log", PhysicalName: `E:\Logs\` + database + `_log.ldf`}},
	}, nil
}

// InstanceFilePaths по умолчанию возвращает пустой список.
func (m *MockMSSQLClient) InstanceFilePaths(ctx context.Context) ([]string, error) {
	if m.InstanceFilePathsFunc != nil {
		return m.InstanceFilePathsFunc(ctx)
	}
	return nil, nil
}

func (m *MockMSSQLClient) RenameDatabase(ctx context.Context, oldName, newName string) error {
	if m.RenameDatabaseFunc != nil {
		return m.RenameDatabaseFunc(ctx, oldName, newName)
	}
	return nil
}

func (m *MockMSSQLClient) RenameFileGroup(ctx context.Context, database, oldName, newName string) error {
	if m.RenameFileGroupFunc != nil {
		return m.RenameFileGroupFunc(ctx, database, oldName, newName)
	}
	return nil
}

func (m *MockMSSQLClient) RenameLogicalFile(ctx context.Context, database, oldName, newName string) error {
	if m.RenameLogicalFileFunc != nil {
		return m.RenameLogicalFileFunc(ctx, database, oldName, newName)
	}
	return nil
}

func (m *MockMSSQLClient) SetFilePath(ctx context.Context, database, logicalName, path string) error {
	if m.SetFilePathFunc != nil {
		return m.SetFilePathFunc(ctx, database, logicalName, path)
	}
	return nil
}

func (m *MockMSSQLClient) SetSingleUser(ctx context.Context, database string) error {
	if m.SetSingleUserFunc != nil {
		return m.SetSingleUserFunc(ctx, database)
	}
	return nil
}

func (m *MockMSSQLClient) SetMultiUser(ctx context.Context, database string) error {
	if m.SetMultiUserFunc != nil {
		return m.SetMultiUserFunc(ctx, database)
	}
	return nil
}

func (m *MockMSSQLClient) SetOffline(ctx context.Context, database string) error {
	if m.SetOfflineFunc != nil {
		return m.SetOfflineFunc(ctx, database)
	}
	return nil
}

func (m *MockMSSQLClient) SetOnline(ctx context.Context, database string) error {
	if m.SetOnlineFunc != nil {
		return m.SetOnlineFunc(ctx, database)
	}
	return nil
}

// NewMockMSSQLClient создаёт MockMSSQLClient с дефолтными значениями.
func NewMockMSSQLClient() *MockMSSQLClient {
	return &MockMSSQLClient{}
}

// NewMockMSSQLClientWithError создаёт MockMSSQLClient, который возвращает ошибку
// для подключения, чтения каталога и всех изменяющих операций.
func NewMockMSSQLClientWithError(err error) *MockMSSQLClient {
	fail := func(context.Context, string) error { return err }
	failRename := func(context.Context, string, string, string) error { return err }
	return &MockMSSQLClient{
		ConnectFunc: func(context.Context) error { return err },
		PingFunc:    func(context.Context) error { return err },
		ServerInfoFunc: func(context.Context) (dbrename.ServerInfo, error) {
			return dbrename.ServerInfo{}, err
		},
		ListDatabasesFunc:     func(context.Context) ([]dbrename.Database, error) { return nil, err },
		DatabaseLayoutFunc:    func(context.Context, string) (*dbrename.Layout, error) { return nil, err },
		InstanceFilePathsFunc: func(context.Context) ([]string, error) { return nil, err },
		RenameDatabaseFunc:    func(context.Context, string, string) error { return err },
		RenameFileGroupFunc:   failRename,
		RenameLogicalFileFunc: failRename,
		SetFilePathFunc:       failRename,
		SetSingleUserFunc:     fail,
		SetMultiUserFunc:      fail,
		SetOfflineFunc:        fail,
		SetOnlineFunc:         fail,
	}
}
