package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// isolateEnv очищает переменные BR_*, которые могли остаться в окружении разработчика,
// и переводит тест в пустой каталог без dbrename.yaml.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] != '=' {
				continue
			}
			if name := kv[:i]; len(name) > 3 && name[:3] == "BR_" {
				t.Setenv(name, "")
				require.NoError(t, os.Unsetenv(name))
			}
			break
		}
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestMustLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := MustLoad()
	require.NoError(t, err)

	assert.Nil(t, cfg.AppConfig)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, 1433, cfg.MSSQL.Port)
	assert.Equal(t, "master", cfg.MSSQL.Database)
	assert.True(t, cfg.MSSQL.Encrypt)
	assert.Equal(t, 30*time.Second, cfg.MSSQL.Timeout)
	assert.Equal(t, RemoteModeAuto, cfg.Remote.Mode)
	assert.Equal(t, "pwsh", cfg.Remote.PwshPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Compress)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "dbrename", cfg.Metrics.JobName)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Empty(t, cfg.Rename.Databases)
	assert.NotNil(t, cfg.Logger)
}

func TestMustLoad_Env(t *testing.T) {
	isolateEnv(t)
	t.Setenv("BR_COMMAND", "nr-db-rename")
	t.Setenv("BR_OUTPUT_FORMAT", "json")
	t.Setenv("BR_MSSQL_SERVER", `sql01\HR`)
	t.Setenv("BR_MSSQL_PORT", "14330")
	t.Setenv("BR_MSSQL_ENCRYPT", "false")
	t.Setenv("BR_DATABASES", "HR, Sales ,,")
	t.Setenv("BR_DATABASE_NAME", "<DBN>_<DATE>")
	t.Setenv("BR_FILE_NAME", "<DBN>_<FNN>")
	t.Setenv("BR_MOVE", "true")
	t.Setenv("BR_REMOTE_MODE", "Admin-Share")

	cfg, err := MustLoad()
	require.NoError(t, err)

	assert.Equal(t, "nr-db-rename", cfg.Command)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, `sql01\HR`, cfg.MSSQL.Server)
	assert.Equal(t, 14330, cfg.MSSQL.Port)
	assert.False(t, cfg.MSSQL.Encrypt)
	assert.Equal(t, []string{"HR", "Sales"}, cfg.Rename.Databases)
	assert.Equal(t, "<DBN>_<DATE>", cfg.Rename.DatabaseName)
	assert.Equal(t, "<DBN>_<FNN>", cfg.Rename.FileName)
	assert.True(t, cfg.Rename.Move)
	assert.Equal(t, RemoteModeAdminShare, cfg.Remote.Mode)
}

func TestMustLoad_YAMLWithEnvOverride(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "app.yaml", `
mssql:
  server: sql01
  encrypt: false
  timeout: 5s
rename:
  allDatabases: true
  excludeDatabases: [Staging]
  logicalName: "<DBN>_<FT>"
  replaceBefore: true
remote:
  localHosts: ["SQLCLUSTER"]
logging:
  level: Debug
  compress: false
metrics:
  enabled: true
  pushgatewayUrl: http://pushgateway:9091
`)
	t.Setenv("BR_CONFIG_PATH", path)
	t.Setenv("BR_MSSQL_SERVER", "sql02")

	cfg, err := MustLoad()
	require.NoError(t, err)

	require.NotNil(t, cfg.AppConfig)
	assert.Equal(t, "sql02", cfg.MSSQL.Server, "переменная окружения перекрывает файл")
	assert.False(t, cfg.MSSQL.Encrypt, "false из файла не заменяется значением по умолчанию")
	assert.Equal(t, 5*time.Second, cfg.MSSQL.Timeout)
	assert.Equal(t, 1433, cfg.MSSQL.Port, "отсутствующее поле берётся из значений по умолчанию")
	assert.True(t, cfg.Rename.AllDatabases)
	assert.Equal(t, []string{"Staging"}, cfg.Rename.ExcludeDatabases)
	assert.Equal(t, "<DBN>_<FT>", cfg.Rename.LogicalName)
	assert.True(t, cfg.Rename.ReplaceBefore)
	assert.Equal(t, []string{"SQLCLUSTER"}, cfg.Remote.LocalHosts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Compress)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "dbrename", cfg.Metrics.JobName)
}

func TestMustLoad_EnvFile(t *testing.T) {
	isolateEnv(t)
	envFile := writeFile(t, ".env", "BR_MSSQL_SERVER=sql-from-env-file\nBR_MSSQL_USER=dba\n")
	t.Setenv("BR_ENV_FILE", envFile)
	t.Setenv("BR_MSSQL_USER", "operator")
	t.Cleanup(func() { _ = os.Unsetenv("BR_MSSQL_SERVER") })

	cfg, err := MustLoad()
	require.NoError(t, err)
	assert.Equal(t, "sql-from-env-file", cfg.MSSQL.Server)
	assert.Equal(t, "operator", cfg.MSSQL.User, "godotenv не перезаписывает заданные переменные")
}

func TestMustLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
		want  string
	}{
		{
			name:  "явно заданный файл отсутствует",
			setup: func(t *testing.T) { t.Setenv("BR_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml")) },
			want:  "ошибка чтения файла конфигурации",
		},
		{
			name: "битый YAML",
			setup: func(t *testing.T) {
				t.Setenv("BR_CONFIG_PATH", writeFile(t, "bad.yaml", "mssql: [unclosed"))
			},
			want: "ошибка парсинга",
		},
		{
			name:  "отсутствует .env файл",
			setup: func(t *testing.T) { t.Setenv("BR_ENV_FILE", filepath.Join(t.TempDir(), "none.env")) },
			want:  "ошибка загрузки .env файла",
		},
		{
			name:  "нечисловой порт",
			setup: func(t *testing.T) { t.Setenv("BR_MSSQL_PORT", "abc") },
			want:  "MSSQL",
		},
		{
			name:  "порт вне диапазона",
			setup: func(t *testing.T) { t.Setenv("BR_MSSQL_PORT", "70000") },
			want:  "mssql: port",
		},
		{
			name:  "неизвестный режим remote",
			setup: func(t *testing.T) { t.Setenv("BR_REMOTE_MODE", "ftp") },
			want:  "remote: неизвестный режим",
		},
		{
			name:  "метрики без pushgateway",
			setup: func(t *testing.T) { t.Setenv("BR_METRICS_ENABLED", "true") },
			want:  "pushgateway_url",
		},
		{
			name:  "трейсинг без endpoint",
			setup: func(t *testing.T) { t.Setenv("BR_TRACING_ENABLED", "true") },
			want:  "tracing: endpoint",
		},
		{
			name:  "неверный формат логов",
			setup: func(t *testing.T) { t.Setenv("BR_LOG_FORMAT", "xml") },
			want:  "logging: неизвестный формат",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setup(t)
			_, err := MustLoad()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAppConfig_DefaultFileInWorkDir(t *testing.T) {
	isolateEnv(t)
	require.NoError(t, os.WriteFile("dbrename.yaml", []byte("rename:\n  databaseName: \"<DBN>2\"\n"), 0o600))

	appConfig, err := loadAppConfig(discardLogger(), &Config{})
	require.NoError(t, err)
	require.NotNil(t, appConfig)
	assert.Equal(t, "<DBN>2", appConfig.Rename.DatabaseName)
	assert.Equal(t, "master", appConfig.MSSQL.Database)
}

func TestValidateLoggingConfig(t *testing.T) {
	lc := getDefaultLoggingConfig()
	require.NoError(t, validateLoggingConfig(lc))

	lc.Output = "file"
	lc.FilePath = ""
	assert.ErrorContains(t, validateLoggingConfig(lc), "filePath")

	lc = getDefaultLoggingConfig()
	lc.Level = "trace"
	assert.ErrorContains(t, validateLoggingConfig(lc), "уровень")
}

func TestValidateTracingConfig(t *testing.T) {
	tc := getDefaultTracingConfig()
	require.NoError(t, validateTracingConfig(tc), "выключенный трейсинг всегда валиден")

	tc.Enabled = true
	tc.Endpoint = "http://jaeger:4318"
	require.NoError(t, validateTracingConfig(tc))

	tc.SamplingRate = 1.5
	assert.ErrorContains(t, validateTracingConfig(tc), "1.5")
}

func TestValidateMSSQLConfig(t *testing.T) {
	mc := getDefaultMSSQLConfig()
	require.NoError(t, validateMSSQLConfig(mc), "пустой Server допустим на этапе загрузки")

	mc.Timeout = 0
	assert.Error(t, validateMSSQLConfig(mc))

	mc = getDefaultMSSQLConfig()
	mc.StatementTimeout = -time.Second
	assert.Error(t, validateMSSQLConfig(mc))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(nil))
	assert.Equal(t, []string{"HR", "Sales", "Archive"}, splitList([]string{"HR,Sales", " Archive ", ""}))
}
