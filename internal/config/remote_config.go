package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kargones/dbrename/internal/constants"
)

// Режимы доступа к файлам хоста SQL Server.
const (
	RemoteModeAuto          = "auto"
	RemoteModeLocal         = "local"
	RemoteModeRemoteSession = "remote-session"
	RemoteModeAdminShare    = "admin-share"
)

// RemoteConfig содержит параметры перемещения файлов на хосте SQL Server.
type RemoteConfig struct {
	// Mode - auto, local, remote-session или admin-share.
	// auto: локальный хост, затем удалённый сеанс PowerShell, затем административный ресурс.
	Mode string `yaml:"mode" env:"BR_REMOTE_MODE"`

	// LocalHosts - дополнительные имена, под которыми известен локальный компьютер
	// (например, имя кластерного ресурса).
	LocalHosts []string `yaml:"localHosts" env:"BR_REMOTE_LOCAL_HOSTS" env-separator:","`

	// PwshPath - путь к pwsh или powershell.exe
	PwshPath string `yaml:"pwshPath" env:"BR_PWSH_PATH"`
}

func getDefaultRemoteConfig() *RemoteConfig {
	return &RemoteConfig{
		Mode:     RemoteModeAuto,
		PwshPath: constants.DefaultPwshPath,
	}
}

func loadRemoteConfig(l *slog.Logger, cfg *Config) (*RemoteConfig, error) {
	remoteConfig := getDefaultRemoteConfig()
	if cfg.AppConfig != nil {
		c := cfg.AppConfig.Remote
		remoteConfig = &c
	}
	if err := readEnvOverride("Remote", remoteConfig); err != nil {
		return nil, err
	}
	remoteConfig.Mode = strings.ToLower(strings.TrimSpace(remoteConfig.Mode))
	if remoteConfig.Mode == "" {
		remoteConfig.Mode = RemoteModeAuto
	}
	if remoteConfig.PwshPath == "" {
		remoteConfig.PwshPath = constants.DefaultPwshPath
	}
	remoteConfig.LocalHosts = splitList(remoteConfig.LocalHosts)

	l.Debug("Remote конфигурация загружена",
		slog.String("mode", remoteConfig.Mode),
		slog.String("pwsh_path", remoteConfig.PwshPath),
	)
	return remoteConfig, nil
}

func validateRemoteConfig(rc *RemoteConfig) error {
	switch rc.Mode {
	case RemoteModeAuto, RemoteModeLocal, RemoteModeRemoteSession, RemoteModeAdminShare:
		return nil
	default:
		return fmt.Errorf("remote: неизвестный режим %q, допустимо: auto, local, remote-session, admin-share", rc.Mode)
	}
}
