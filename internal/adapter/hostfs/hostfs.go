// Package hostfs перемещает файлы баз данных на хосте SQL Server.
//
// Поддерживаются три способа доступа к файлам:
//   - local: утилита запущена на хосте SQL Server, используется os.Rename;
//   - remote-session: удалённый сеанс PowerShell (Invoke-Command через WinRM);
//   - admin-share: административный ресурс \\host\D$ с переименованием по UNC пути.
package hostfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Kargones/dbrename/internal/entity/dbrename"
)

// Режимы выбора способа доступа.
const (
	ModeAuto          = "auto"
	ModeLocal         = string(dbrename.TargetLocal)
	ModeRemoteSession = string(dbrename.TargetRemoteSession)
	ModeAdminShare    = string(dbrename.TargetAdminShare)
)

// ErrDestinationExists возвращается, если файл назначения уже существует.
var ErrDestinationExists = errors.New("файл назначения уже существует")

// Compile-time проверка реализации интерфейса
var _ dbrename.FileMover = (*Mover)(nil)

// ScriptExecutor выполняет скрипт PowerShell и возвращает его вывод.
type ScriptExecutor interface {
	Execute(ctx context.Context, script string) (string, error)
}

// Options — параметры Mover.
type Options struct {
	// Mode — auto, local, remote-session или admin-share.
	Mode string
	// LocalHosts — дополнительные имена, считающиеся локальным хостом.
	LocalHosts []string
}

// Mover реализует dbrename.FileMover.
type Mover struct {
	opts     Options
	executor ScriptExecutor
	log      *slog.Logger

	hostname func() (string, error)
	rename   func(oldpath, newpath string) error
	stat     func(name string) (os.FileInfo, error)
}

// NewMover создаёт Mover. executor нужен для remote-session и проверки WinRM.
func NewMover(opts Options, executor ScriptExecutor, log *slog.Logger) *Mover {
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if log == nil {
		log = slog.Default()
	}
	return &Mover{
		opts:     opts,
		executor: executor,
		log:      log,
		hostname: os.Hostname,
		rename:   os.Rename,
		stat:     os.Stat,
	}
}

// ResolveTarget выбирает способ доступа к файлам хоста computerName.
// В режиме auto: локальный хост → local, доступен WinRM → remote-session, иначе admin-share.
func (m *Mover) ResolveTarget(ctx context.Context, computerName string) (dbrename.MoveTarget, error) {
	switch m.opts.Mode {
	case ModeLocal:
		return dbrename.MoveTarget{Kind: dbrename.TargetLocal}, nil
	case ModeRemoteSession:
		return dbrename.MoveTarget{Kind: dbrename.TargetRemoteSession, Host: computerName}, nil
	case ModeAdminShare:
		return dbrename.MoveTarget{Kind: dbrename.TargetAdminShare, Host: computerName}, nil
	case ModeAuto:
	default:
		return dbrename.MoveTarget{}, fmt.Errorf("неизвестный режим доступа к файлам: %s", m.opts.Mode)
	}

	if m.isLocal(computerName) {
		return dbrename.MoveTarget{Kind: dbrename.TargetLocal}, nil
	}
	if m.executor != nil {
		_, err := m.executor.Execute(ctx, testWSManScript(computerName))
		if err == nil {
			return dbrename.MoveTarget{Kind: dbrename.TargetRemoteSession, Host: computerName}, nil
		}
		m.log.Debug("WinRM недоступен, используется административный ресурс",
			"computer", computerName, "error", err)
	}
	return dbrename.MoveTarget{Kind: dbrename.TargetAdminShare, Host: computerName}, nil
}

func (m *Mover) isLocal(computerName string) bool {
	if computerName == "" || computerName == "." || strings.EqualFold(computerName, "localhost") {
		return true
	}
	for _, h := range m.opts.LocalHosts {
		if strings.EqualFold(h, computerName) {
			return true
		}
	}
	host, err := m.hostname()
	if err != nil {
		return false
	}
	// os.Hostname может вернуть FQDN, ComputerName — NetBIOS имя.
	short, _, _ := strings.Cut(host, ".")
	return strings.EqualFold(short, computerName) || strings.EqualFold(host, computerName)
}

// Move переименовывает source в destination (пути хоста SQL Server).
// Существующий файл назначения не перезаписывается.
func (m *Mover) Move(ctx context.Context, target dbrename.MoveTarget, source, destination string) error {
	switch target.Kind {
	case dbrename.TargetLocal:
		return m.moveFile(source, destination)
	case dbrename.TargetAdminShare:
		return m.moveFile(target.Locate(source), target.Locate(destination))
	case dbrename.TargetRemoteSession:
		if m.executor == nil {
			return errors.New("удалённый сеанс PowerShell не настроен")
		}
		if _, err := m.executor.Execute(ctx, moveItemScript(target.Host, source, destination)); err != nil {
			return fmt.Errorf("не удалось переместить %s на %s: %w", source, target.Host, err)
		}
		return nil
	default:
		return fmt.Errorf("неизвестный способ доступа к файлам: %q", target.Kind)
	}
}

func (m *Mover) moveFile(source, destination string) error {
	if source == destination {
		return nil
	}
	// Переименование с изменением только регистра допустимо: на Windows stat найдёт сам source.
	if !strings.EqualFold(source, destination) {
		if _, err := m.stat(destination); err == nil {
			return fmt.Errorf("%w: %s", ErrDestinationExists, destination)
		}
	}
	if err := m.rename(source, destination); err != nil {
		return fmt.Errorf("не удалось переместить %s в %s: %w", source, destination, err)
	}
	m.log.Debug("Файл перемещён", "source", source, "destination", destination)
	return nil
}
