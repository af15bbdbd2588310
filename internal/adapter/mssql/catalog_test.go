package mssql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/dbrename/internal/entity/dbrename"
)

func newMockClient(t *testing.T) (*client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close() //nolint:errcheck,gosec // тестовое соединение
	})
	return &client{db: db, opts: ClientOptions{Server: "sql01"}}, mock
}

func TestClient_ServerInfo(t *testing.T) {
	t.Run("именованный экземпляр", func(t *testing.T) {
		cli, mock := newMockClient(t)
		mock.ExpectQuery("SERVERPROPERTY").
			WillReturnRows(sqlmock.NewRows([]string{"c", "i", "s"}).AddRow("SQL01", "DEV", `SQL01\DEV`))

		info, err := cli.ServerInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, dbrename.ServerInfo{ComputerName: "SQL01", InstanceName: "DEV", SqlInstance: `SQL01\DEV`}, info)
	})

	t.Run("@@SERVERNAME не задан", func(t *testing.T) {
		cli, mock := newMockClient(t)
		mock.ExpectQuery("SERVERPROPERTY").
			WillReturnRows(sqlmock.NewRows([]string{"c", "i", "s"}).AddRow("SQL01", "MSSQLSERVER", nil))

		info, err := cli.ServerInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "sql01", info.SqlInstance)
	})

	t.Run("ошибка запроса", func(t *testing.T) {
		cli, mock := newMockClient(t)
		mock.ExpectQuery("SERVERPROPERTY").WillReturnError(errors.New("login failed"))

		_, err := cli.ServerInfo(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMSSQLQuery)
	})
}

func TestClient_ListDatabases(t *testing.T) {
	cli, mock := newMockClient(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sys.databases d")).
		WillReturnRows(sqlmock.NewRows([]string{"name", "state", "snap", "mirror", "ag"}).
			AddRow("master", "ONLINE", false, false, false).
			AddRow("HR", "ONLINE", false, false, false).
			AddRow("HR_snap", "ONLINE", true, false, false).
			AddRow("Sales", "RESTORING", false, true, true))

	dbs, err := cli.ListDatabases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dbrename.Database{
		{Name: "master", State: "ONLINE"},
		{Name: "HR", State: "ONLINE"},
		{Name: "HR_snap", State: "ONLINE", IsSnapshot: true},
		{Name: "Sales", State: "RESTORING", IsMirrored: true, IsAGMember: true},
	}, dbs)
}

func TestClient_InstanceFilePaths(t *testing.T) {
	cli, mock := newMockClient(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sys.master_files")).
		WillReturnRows(sqlmock.NewRows([]string{"physical_name"}).
			AddRow(`D:\Data\master.mdf`).
			AddRow(`D:\Data\HR.mdf`))

	paths, err := cli.InstanceFilePaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{`D:\Data\master.mdf`, `D:\Data\HR.mdf`}, paths)
}

func TestClient_DatabaseLayout(t *testing.T) {
	cli, mock := newMockClient(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM [HR]]x].sys.filegroups")).
		WillReturnRows(sqlmock.NewRows([]string{"data_space_id", "name", "type"}).
			AddRow(1, "PRIMARY", "FG").
			AddRow(2, "Archive", "FG").
			AddRow(3, "Docs", "FD").
			AddRow(4, "Mem", "FX").
			AddRow(5, "Empty", "FG"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM [HR]]x].sys.database_files")).
		WillReturnRows(sqlmock.NewRows([]string{"data_space_id", "name", "physical_name", "type"}).
			AddRow(1, "HR", `D:\Data\HR.mdf`, 0).
			AddRow(0, "HR_log", `E:\Logs\HR_log.ldf`, 1).
			AddRow(2, "HR_arch", `D:\Data\HR_arch.ndf`, 0).
			AddRow(3, "HR_docs", `D:\FS\HR_docs`, 2).
			AddRow(4, "HR_mem", `D:\Mem\HR_mem`, 2).
			AddRow(0, "HR_ft", `D:\FT\HR_ft`, 4))

	layout, err := cli.DatabaseLayout(context.Background(), "HR]x")
	require.NoError(t, err)

	assert.Equal(t, &dbrename.Layout{
		FileGroups: []dbrename.FileGroup{
			{Name: "PRIMARY", Type: dbrename.FileGroupRows, Files: []dbrename.DataFile{{LogicalName: "HR", PhysicalName: `D:\Data\HR.mdf`}}},
			{Name: "Archive", Type: dbrename.FileGroupRows, Files: []dbrename.DataFile{{LogicalName: "HR_arch", PhysicalName: `D:\Data\HR_arch.ndf`}}},
			{Name: "Docs", Type: dbrename.FileGroupFileStream, Files: []dbrename.DataFile{{LogicalName: "HR_docs", PhysicalName: `D:\FS\HR_docs`}}},
			{Name: "Mem", Type: dbrename.FileGroupMemoryOptimized, Files: []dbrename.DataFile{{LogicalName: "HR_mem", PhysicalName: `D:\Mem\HR_mem`}}},
			{Name: "Empty", Type: dbrename.FileGroupRows},
		},
		LogFiles: []dbrename.DataFile{{LogicalName: "HR_log", PhysicalName: `E:\Logs\HR_log.ldf`}},
	}, layout)
}

func TestClient_DatabaseLayout_QueryError(t *testing.T) {
	cli, mock := newMockClient(t)
	mock.ExpectQuery("sys.filegroups").WillReturnError(errors.New("database is offline"))

	_, err := cli.DatabaseLayout(context.Background(), "HR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is offline")
}

func TestClient_DDL(t *testing.T) {
	tests := []struct {
		name string
		call func(c *client) error
		want string
	}{
		{"RenameDatabase", func(c *client) error { return c.RenameDatabase(context.Background(), "HR", "HR2") },
			"ALTER DATABASE [HR] MODIFY NAME = [HR2];"},
		{"RenameFileGroup", func(c *client) error { return c.RenameFileGroup(context.Background(), "HR", "A", "DATA") },
			"ALTER DATABASE [HR] MODIFY FILEGROUP [A] NAME = [DATA];"},
		{"RenameLogicalFile", func(c *client) error { return c.RenameLogicalFile(context.Background(), "HR", "HR_log", "HR2_log") },
			"ALTER DATABASE [HR] MODIFY FILE (NAME = [HR_log], NEWNAME = [HR2_log]);"},
		{"SetFilePath", func(c *client) error {
			return c.SetFilePath(context.Background(), "HR", "HR", `D:\Data\O'Brien.mdf`)
		}, `ALTER DATABASE [HR] MODIFY FILE (NAME = [HR], FILENAME = N'D:\Data\O''Brien.mdf');`},
		{"SetSingleUser", func(c *client) error { return c.SetSingleUser(context.Background(), "HR") },
			"ALTER DATABASE [HR] SET SINGLE_USER WITH ROLLBACK IMMEDIATE;"},
		{"SetMultiUser", func(c *client) error { return c.SetMultiUser(context.Background(), "HR") },
			"ALTER DATABASE [HR] SET MULTI_USER;"},
		{"SetOffline", func(c *client) error { return c.SetOffline(context.Background(), "HR") },
			"ALTER DATABASE [HR] SET OFFLINE WITH ROLLBACK IMMEDIATE;"},
		{"SetOnline", func(c *client) error { return c.SetOnline(context.Background(), "HR") },
			"ALTER DATABASE [HR] SET ONLINE;"},
		{"инъекция в имени", func(c *client) error { return c.RenameDatabase(context.Background(), "HR", "x]; DROP DATABASE HR; --") },
			"ALTER DATABASE [HR] MODIFY NAME = [x]]; DROP DATABASE HR; --];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, mock := newMockClient(t)
			mock.ExpectExec(regexp.QuoteMeta(tt.want)).WillReturnResult(sqlmock.NewResult(0, 0))
			require.NoError(t, tt.call(cli))
		})
	}
}

func TestClient_ExecErrors(t *testing.T) {
	t.Run("ошибка сервера", func(t *testing.T) {
		cli, mock := newMockClient(t)
		mock.ExpectExec("MODIFY NAME").WillReturnError(errors.New("The database could not be exclusively locked"))

		err := cli.RenameDatabase(context.Background(), "HR", "HR2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMSSQLExec)
		assert.Contains(t, err.Error(), "exclusively locked")
	})

	t.Run("таймаут", func(t *testing.T) {
		cli, mock := newMockClient(t)
		cli.opts.StatementTimeout = 10 * time.Millisecond
		mock.ExpectExec("SET OFFLINE").WillDelayFor(time.Second).WillReturnResult(sqlmock.NewResult(0, 0))

		err := cli.SetOffline(context.Background(), "HR")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMSSQLTimeout)
	})

	t.Run("нет соединения", func(t *testing.T) {
		cli := &client{opts: ClientOptions{Server: "sql01"}}
		err := cli.SetOnline(context.Background(), "HR")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection not established")
		_, err = cli.ListDatabases(context.Background())
		assert.Error(t, err)
	})
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, "[HR]", quoteName("HR"))
	assert.Equal(t, "[a]]b]", quoteName("a]b"))
	assert.Equal(t, "N'O''Brien'", quoteString("O'Brien"))
}

func TestFileGroupType(t *testing.T) {
	assert.Equal(t, dbrename.FileGroupRows, fileGroupType("FG"))
	assert.Equal(t, dbrename.FileGroupFileStream, fileGroupType("FD"))
	assert.Equal(t, dbrename.FileGroupMemoryOptimized, fileGroupType("FX"))
	assert.Equal(t, dbrename.FileGroupOther, fileGroupType("PS"))
}
