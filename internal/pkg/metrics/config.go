package metrics

import (
	"errors"
	"net/url"
	"time"

	"github.com/Kargones/dbrename/internal/constants"
)

// Ошибки валидации конфигурации.
var (
	ErrPushgatewayURLRequired = errors.New("pushgateway URL is required when metrics enabled")
	ErrPushgatewayURLInvalid  = errors.New("pushgateway URL has invalid format")
	ErrJobNameRequired        = errors.New("job name is required")
	ErrInvalidTimeout         = errors.New("timeout must be positive")
)

// Config содержит настройки отправки метрик.
type Config struct {
	Enabled        bool
	PushgatewayURL string
	JobName        string
	Timeout        time.Duration

	// InstanceLabel — grouping label "instance" в Pushgateway. Пусто — hostname.
	InstanceLabel string
}

// DefaultConfig возвращает выключенную конфигурацию с job=dbrename.
func DefaultConfig() Config {
	return Config{
		JobName: constants.AppName,
		Timeout: 10 * time.Second,
	}
}

// Validate проверяет конфигурацию. Выключенные метрики всегда валидны.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PushgatewayURL == "" {
		return ErrPushgatewayURLRequired
	}
	u, err := url.Parse(c.PushgatewayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrPushgatewayURLInvalid
	}
	if c.JobName == "" {
		return ErrJobNameRequired
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
