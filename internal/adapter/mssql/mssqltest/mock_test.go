package mssqltest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/dbrename/internal/adapter/mssql/mssqltest"
	"github.com/Kargones/dbrename/internal/entity/dbrename"
)

func TestMockDefaults(t *testing.T) {
	ctx := context.Background()
	mock := mssqltest.NewMockMSSQLClient()

	require.NoError(t, mock.Connect(ctx))
	dbs, err := mock.ListDatabases(ctx)
	require.NoError(t, err)
	assert.Len(t, dbs, 5)

	layout, err := mock.DatabaseLayout(ctx, "HR")
	require.NoError(t, err)
	assert.Equal(t, `D:\Data\HR.mdf`, layout.FileGroups[0].Files[0].PhysicalName)
	assert.Equal(t, "HR_log", layout.LogFiles[0].LogicalName)
	assert.NoError(t, mock.RenameDatabase(ctx, "HR", "HR2"))
}

func TestMockWithCustomFunctions(t *testing.T) {
	var renamed []string
	mock := &mssqltest.MockMSSQLClient{
		RenameDatabaseFunc: func(_ context.Context, oldName, newName string) error {
			renamed = append(renamed, oldName+"->"+newName)
			return nil
		},
	}

	report, err := dbrename.NewRenamer(mock, nil, dbrename.Options{Templates: dbrename.Templates{Database: "<DBN>_old"}}).
		Run(context.Background(), dbrename.Selection{AllDatabases: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"HR->HR_old"}, renamed)
	assert.Len(t, report.Skipped, 4)
}

func TestMockWithError(t *testing.T) {
	ctx := context.Background()
	expected := errors.New("connection refused")
	mock := mssqltest.NewMockMSSQLClientWithError(expected)

	assert.ErrorIs(t, mock.Connect(ctx), expected)
	_, err := mock.ListDatabases(ctx)
	assert.ErrorIs(t, err, expected)
	assert.ErrorIs(t, mock.SetOffline(ctx, "HR"), expected)
	assert.ErrorIs(t, mock.SetFilePath(ctx, "HR", "HR", "x"), expected)
	assert.NoError(t, mock.Close())
}
