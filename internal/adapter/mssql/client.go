package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	// blank import для драйвера SQL Server
	_ "github.com/denisenkom/go-mssqldb"

	"github.com/Kargones/dbrename/internal/constants"
)

// Compile-time проверка реализации интерфейса
var _ Client = (*client)(nil)

// ClientOptions содержит параметры для создания MSSQL клиента.
type ClientOptions struct {
	// Server — адрес сервера MSSQL, допускается форма host\instance
	Server string
	// Port — порт сервера (по умолчанию 1433)
	Port int
	// User — имя пользователя. Пустое значение — встроенная аутентификация Windows.
	User string
	// Password — пароль пользователя
	Password string
	// Database — имя базы данных для подключения (обычно "master")
	Database string
	// Timeout — таймаут подключения
	Timeout time.Duration
	// StatementTimeout — таймаут одного запроса или DDL. 0 — без ограничения.
	StatementTimeout time.Duration
	// Encrypt — использовать TLS шифрование (по умолчанию true)
	// Для явного отключения шифрования используйте NewClientWithEncrypt(opts, false).
	Encrypt bool
	// TrustServerCertificate — не проверять сертификат сервера
	TrustServerCertificate bool
	// encryptSet — Encrypt был задан явно через NewClientWithEncrypt
	encryptSet bool
}

// client — реализация интерфейса Client для MSSQL.
type client struct {
	db   *sql.DB
	opts ClientOptions
}

// NewClient создаёт новый MSSQL клиент с указанными параметрами.
// Примечание: подключение устанавливается отложенно при первом запросе или через Connect().
func NewClient(opts ClientOptions) (Client, error) {
	if opts.Server == "" {
		return nil, fmt.Errorf("%s: server is required", ErrMSSQLConnect)
	}
	if opts.Port == 0 {
		opts.Port = constants.DefaultMSSQLPort
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, fmt.Errorf("%s: invalid port %d, must be between 1 and 65535", ErrMSSQLConnect, opts.Port)
	}
	if opts.Database == "" {
		opts.Database = constants.DefaultMSSQLDatabase
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	// Если encryptSet=false, значит Encrypt не был явно задан — используем true
	if !opts.encryptSet {
		opts.Encrypt = true
	}

	return &client{
		opts: opts,
	}, nil
}

// NewClientWithEncrypt создаёт MSSQL клиент с явным указанием режима шифрования.
func NewClientWithEncrypt(opts ClientOptions, encrypt bool) (Client, error) {
	opts.Encrypt = encrypt
	opts.encryptSet = true
	return NewClient(opts)
}

// connString формирует строку подключения в ADO-формате go-mssqldb.
// SECURITY: строка содержит пароль, её нельзя логировать без dryrun.MaskPassword.
func (c *client) connString() string {
	encryptMode := "true"
	if !c.opts.Encrypt {
		encryptMode = "disable"
	}

	connString := fmt.Sprintf(
		"server=%s;port=%d;database=%s;encrypt=%s;connection timeout=%d;app name=%s",
		escapeConnStringParam(c.opts.Server),
		c.opts.Port,
		escapeConnStringParam(c.opts.Database),
		encryptMode,
		int(c.opts.Timeout.Seconds()),
		constants.AppName,
	)
	if c.opts.User != "" {
		connString += fmt.Sprintf(";user id=%s;password=%s",
			escapeConnStringParam(c.opts.User),
			escapeConnStringParam(c.opts.Password))
	}
	if c.opts.TrustServerCertificate {
		connString += ";TrustServerCertificate=true"
	}
	return connString
}

// Connect устанавливает соединение с сервером MSSQL.
func (c *client) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlserver", c.connString())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMSSQLConnect, err)
	}
	// DDL переименования выполняется последовательно, пул не нужен.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // исходная ошибка важнее
		if ctx.Err() != nil {
			return fmt.Errorf("%s: context cancelled during ping: %w", ErrMSSQLConnect, ctx.Err())
		}
		return fmt.Errorf("%s: ping failed: %w", ErrMSSQLConnect, err)
	}

	c.db = db
	return nil
}

// escapeConnStringParam экранирует параметр для безопасного использования в connection string.
// Защищает от инъекции управляющих символов (; = и др.) в DSN.
func escapeConnStringParam(s string) string {
	return url.QueryEscape(s)
}

// Close закрывает соединение с сервером.
func (c *client) Close() error {
	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}

// Ping проверяет доступность сервера.
func (c *client) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("%s: connection not established", ErrMSSQLConnect)
	}
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMSSQLConnect, err)
	}
	return nil
}

// withTimeout ограничивает контекст StatementTimeout, если он задан.
func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.StatementTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.StatementTimeout)
	}
	return ctx, func() {}
}

// wrapErr приводит ошибку драйвера к коду операции, отделяя таймаут.
func (c *client) wrapErr(ctx context.Context, code string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: operation timed out after %v: %w", ErrMSSQLTimeout, c.opts.StatementTimeout, err)
	}
	return fmt.Errorf("%s: %w", code, err)
}

// exec выполняет одну DDL инструкцию.
func (c *client) exec(ctx context.Context, stmt string) error {
	if c.db == nil {
		return fmt.Errorf("%s: connection not established", ErrMSSQLExec)
	}
	execCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.db.ExecContext(execCtx, stmt); err != nil {
		return c.wrapErr(execCtx, ErrMSSQLExec, err)
	}
	return nil
}
