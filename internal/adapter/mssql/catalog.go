package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Kargones/dbrename/internal/entity/dbrename"
)

const serverInfoQuery = `
SELECT
	CAST(SERVERPROPERTY('ComputerNamePhysicalNetBIOS') AS nvarchar(128)),
	CAST(ISNULL(SERVERPROPERTY('InstanceName'), 'MSSQLSERVER') AS nvarchar(128)),
	CAST(@@SERVERNAME AS nvarchar(128));
`

// replica_id заполнен у баз, входящих в группу доступности (SQL Server 2012+).
const listDatabasesQuery = `
SELECT
	d.name,
	d.state_desc,
	CAST(CASE WHEN d.source_database_id IS NULL THEN 0 ELSE 1 END AS bit),
	CAST(CASE WHEN m.mirroring_guid IS NULL THEN 0 ELSE 1 END AS bit),
	CAST(CASE WHEN d.replica_id IS NULL THEN 0 ELSE 1 END AS bit)
FROM sys.databases d
LEFT JOIN sys.database_mirroring m ON m.database_id = d.database_id
ORDER BY d.database_id;
`

const instanceFilesQuery = `SELECT physical_name FROM sys.master_files ORDER BY database_id, file_id;`

// Каталоги sys.filegroups и sys.database_files видны только в контексте базы,
// поэтому запросы строятся с трёхчастным именем.
const (
	fileGroupsQuery = `SELECT data_space_id, name, type FROM %s.sys.filegroups ORDER BY data_space_id;`
	filesQuery      = `SELECT data_space_id, name, physical_name, type FROM %s.sys.database_files ORDER BY file_id;`
)

// sys.database_files.type
const fileTypeLog = 1

// ServerInfo возвращает имя хоста, экземпляра и @@SERVERNAME.
func (c *client) ServerInfo(ctx context.Context) (dbrename.ServerInfo, error) {
	var info dbrename.ServerInfo
	if c.db == nil {
		return info, fmt.Errorf("%s: connection not established", ErrMSSQLQuery)
	}
	queryCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	var computer, instance, server sql.NullString
	if err := c.db.QueryRowContext(queryCtx, serverInfoQuery).Scan(&computer, &instance, &server); err != nil {
		return info, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	info.ComputerName = computer.String
	info.InstanceName = instance.String
	info.SqlInstance = server.String
	if info.SqlInstance == "" {
		info.SqlInstance = c.opts.Server
	}
	return info, nil
}

// ListDatabases возвращает базы экземпляра с признаками, влияющими на возможность переименования.
func (c *client) ListDatabases(ctx context.Context) ([]dbrename.Database, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%s: connection not established", ErrMSSQLQuery)
	}
	queryCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.db.QueryContext(queryCtx, listDatabasesQuery)
	if err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	defer rows.Close() //nolint:errcheck // ошибка итерации проверяется через rows.Err

	var dbs []dbrename.Database
	for rows.Next() {
		var db dbrename.Database
		if err := rows.Scan(&db.Name, &db.State, &db.IsSnapshot, &db.IsMirrored, &db.IsAGMember); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMSSQLQuery, err)
		}
		dbs = append(dbs, db)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	return dbs, nil
}

// InstanceFilePaths возвращает физические пути всех файлов экземпляра.
func (c *client) InstanceFilePaths(ctx context.Context) ([]string, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%s: connection not established", ErrMSSQLQuery)
	}
	queryCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	rows, err := c.db.QueryContext(queryCtx, instanceFilesQuery)
	if err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	defer rows.Close() //nolint:errcheck // ошибка итерации проверяется через rows.Err

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMSSQLQuery, err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	return paths, nil
}

// DatabaseLayout возвращает файловые группы базы (в порядке data_space_id) с их файлами
// и файлы журнала. Пустые файловые группы тоже возвращаются.
func (c *client) DatabaseLayout(ctx context.Context, database string) (*dbrename.Layout, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%s: connection not established", ErrMSSQLQuery)
	}
	queryCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	layout := &dbrename.Layout{}
	groups := make(map[int]int) // data_space_id → индекс в layout.FileGroups

	rows, err := c.db.QueryContext(queryCtx, fmt.Sprintf(fileGroupsQuery, quoteName(database)))
	if err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	for rows.Next() {
		var (
			id       int
			name, tp string
		)
		if err := rows.Scan(&id, &name, &tp); err != nil {
			rows.Close() //nolint:errcheck,gosec // возвращаем ошибку сканирования
			return nil, fmt.Errorf("%s: %w", ErrMSSQLQuery, err)
		}
		groups[id] = len(layout.FileGroups)
		layout.FileGroups = append(layout.FileGroups, dbrename.FileGroup{Name: name, Type: fileGroupType(tp)})
	}
	if err := rows.Err(); err != nil {
		rows.Close() //nolint:errcheck,gosec // возвращаем ошибку итерации
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	rows.Close() //nolint:errcheck,gosec // все строки прочитаны

	rows, err = c.db.QueryContext(queryCtx, fmt.Sprintf(filesQuery, quoteName(database)))
	if err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	defer rows.Close() //nolint:errcheck // ошибка итерации проверяется через rows.Err

	for rows.Next() {
		var (
			spaceID, tp int
			f           dbrename.DataFile
		)
		if err := rows.Scan(&spaceID, &f.LogicalName, &f.PhysicalName, &tp); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMSSQLQuery, err)
		}
		if tp == fileTypeLog {
			layout.LogFiles = append(layout.LogFiles, f)
			continue
		}
		// Файлы полнотекстовых каталогов не принадлежат файловым группам.
		if i, ok := groups[spaceID]; ok {
			layout.FileGroups[i].Files = append(layout.FileGroups[i].Files, f)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrapErr(queryCtx, ErrMSSQLQuery, err)
	}
	return layout, nil
}

// fileGroupType переводит sys.filegroups.type в тип домена.
func fileGroupType(t string) dbrename.FileGroupType {
	switch strings.TrimSpace(t) {
	case "FG":
		return dbrename.FileGroupRows
	case "FD":
		return dbrename.FileGroupFileStream
	case "FX":
		return dbrename.FileGroupMemoryOptimized
	default:
		return dbrename.FileGroupOther
	}
}

// quoteName экранирует идентификатор как QUOTENAME: [name] с удвоением ].
// DDL не поддерживает параметры, поэтому все имена в инструкциях проходят через quoteName.
func quoteName(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// quoteString формирует строковый литерал N'...' с удвоением апострофов.
func quoteString(s string) string {
	return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// RenameDatabase выполняет ALTER DATABASE ... MODIFY NAME.
func (c *client) RenameDatabase(ctx context.Context, oldName, newName string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s MODIFY NAME = %s;",
		quoteName(oldName), quoteName(newName)))
}

// RenameFileGroup выполняет ALTER DATABASE ... MODIFY FILEGROUP ... NAME.
func (c *client) RenameFileGroup(ctx context.Context, database, oldName, newName string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s MODIFY FILEGROUP %s NAME = %s;",
		quoteName(database), quoteName(oldName), quoteName(newName)))
}

// RenameLogicalFile выполняет ALTER DATABASE ... MODIFY FILE (NAME, NEWNAME).
func (c *client) RenameLogicalFile(ctx context.Context, database, oldName, newName string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s MODIFY FILE (NAME = %s, NEWNAME = %s);",
		quoteName(database), quoteName(oldName), quoteName(newName)))
}

// SetFilePath выполняет ALTER DATABASE ... MODIFY FILE (NAME, FILENAME).
func (c *client) SetFilePath(ctx context.Context, database, logicalName, path string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s MODIFY FILE (NAME = %s, FILENAME = %s);",
		quoteName(database), quoteName(logicalName), quoteString(path)))
}

// SetSingleUser отключает всех пользователей базы, откатывая их транзакции.
func (c *client) SetSingleUser(ctx context.Context, database string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s SET SINGLE_USER WITH ROLLBACK IMMEDIATE;", quoteName(database)))
}

// SetMultiUser возвращает базу в многопользовательский режим.
func (c *client) SetMultiUser(ctx context.Context, database string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s SET MULTI_USER;", quoteName(database)))
}

// SetOffline переводит базу в OFFLINE, откатывая активные транзакции.
func (c *client) SetOffline(ctx context.Context, database string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s SET OFFLINE WITH ROLLBACK IMMEDIATE;", quoteName(database)))
}

// SetOnline переводит базу в ONLINE.
func (c *client) SetOnline(ctx context.Context, database string) error {
	return c.exec(ctx, fmt.Sprintf("ALTER DATABASE %s SET ONLINE;", quoteName(database)))
}
