package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/testutil"
)

// unsetEnv снимает переменные BR_*, которые читает CLI, и восстанавливает их после теста.
func unsetEnv(t *testing.T) {
	t.Helper()
	keys := []string{constants.EnvCommand, "BR_MSSQL_SERVER", "BR_LOG_LEVEL", "BR_METRICS_ENABLED", "BR_TRACING_ENABLED"}
	for _, f := range envFlags {
		keys = append(keys, f.env)
	}
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func TestRun_EmptyCommandShowsHelp(t *testing.T) {
	unsetEnv(t)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run(context.Background(), []string{constants.AppName})
	})

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Команды:")
	assert.Contains(t, out, constants.ActNRDbRename)
}

func TestRun_VersionJSON(t *testing.T) {
	unsetEnv(t)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run(context.Background(), []string{constants.AppName, "--output", "json", constants.ActNRVersion})
	})
	require.Equal(t, exitOK, code)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, constants.ActNRVersion, result["command"])
}

func TestRun_UnknownCommand(t *testing.T) {
	unsetEnv(t)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run(context.Background(), []string{constants.AppName, "--output", "json", "nr-unknown"})
	})

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, out, ErrCommandNotFound)
}

func TestRun_DbRenameWithoutServer(t *testing.T) {
	unsetEnv(t)

	var code int
	out := testutil.CaptureStdout(t, func() {
		code = run(context.Background(), []string{constants.AppName, "--output", "json", constants.ActNRDbRename})
	})

	assert.Equal(t, exitCommandError, code)
	assert.Contains(t, out, "DBRENAME.CONFIG_MISSING")
}

func TestRun_MissingConfigFile(t *testing.T) {
	unsetEnv(t)

	code := run(context.Background(), []string{constants.AppName,
		"--config", filepath.Join(t.TempDir(), "absent.yaml"), constants.ActNRVersion})

	assert.Equal(t, exitConfigFailed, code)
}

func TestExportFlags(t *testing.T) {
	unsetEnv(t)

	called := false
	app := newApp(func(context.Context) { called = true })
	err := app.Run(context.Background(), []string{constants.AppName,
		"--server", `sql01\HR`,
		"--databases", "HR,Sales",
		"--database-name", "<DBN>_<DATE>",
		"--all",
		"--dry-run",
		constants.ActNRDbRename,
	})
	require.NoError(t, err)
	require.True(t, called)

	assert.Equal(t, constants.ActNRDbRename, os.Getenv(constants.EnvCommand))
	assert.Equal(t, `sql01\HR`, os.Getenv("BR_MSSQL_SERVER"))
	assert.Equal(t, "HR,Sales", os.Getenv("BR_DATABASES"))
	assert.Equal(t, "<DBN>_<DATE>", os.Getenv("BR_DATABASE_NAME"))
	assert.Equal(t, "true", os.Getenv("BR_ALL_DATABASES"))
	assert.Equal(t, "true", os.Getenv(constants.EnvDryRun))

	_, ok := os.LookupEnv("BR_MOVE")
	assert.False(t, ok, "незаданный флаг не экспортируется")
}

func TestExportFlags_PositionalOverridesCommandFlag(t *testing.T) {
	unsetEnv(t)

	app := newApp(func(context.Context) {})
	require.NoError(t, app.Run(context.Background(), []string{constants.AppName,
		"--command", constants.ActHelp, constants.ActNRVersion}))

	assert.Equal(t, constants.ActNRVersion, os.Getenv(constants.EnvCommand))
}

func TestExportFlags_EnvSource(t *testing.T) {
	unsetEnv(t)
	t.Setenv("BR_MOVE", "true")

	app := newApp(func(context.Context) {})
	require.NoError(t, app.Run(context.Background(), []string{constants.AppName}))

	assert.Equal(t, "true", os.Getenv("BR_MOVE"))
}
