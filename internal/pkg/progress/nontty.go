package progress

import (
	"log/slog"
	"time"
)

// NonTTYProgress пишет в лог каждый выполненный шаг.
// Шаг — обработка одной базы, их немного, поэтому промежуточные шаги не пропускаются.
type NonTTYProgress struct {
	opts      Options
	startTime time.Time
	message   string
	log       *slog.Logger
}

// NewNonTTYProgress создаёт non-TTY progress. nil log — slog.Default().
func NewNonTTYProgress(opts Options, log *slog.Logger) *NonTTYProgress {
	if log == nil {
		log = slog.Default()
	}
	return &NonTTYProgress{opts: opts, log: log}
}

// Start инициализирует progress с начальным сообщением.
func (p *NonTTYProgress) Start(message string) {
	p.startTime = time.Now()
	p.message = message
	p.log.Info("Операция начата",
		slog.String("message", message),
		slog.Int64("total", p.opts.Total))
}

// Update фиксирует выполненный шаг.
func (p *NonTTYProgress) Update(current int64, message string) {
	if message != "" {
		p.message = message
	}
	p.log.Info("Прогресс операции",
		slog.Int64("current", current),
		slog.Int64("total", p.opts.Total),
		slog.String("elapsed", FormatDuration(time.Since(p.startTime))),
		slog.String("message", p.message))
}

// SetTotal устанавливает общее количество шагов.
func (p *NonTTYProgress) SetTotal(total int64) {
	p.opts.Total = total
}

// Finish выводит итоговую длительность.
func (p *NonTTYProgress) Finish() {
	p.log.Info("Операция завершена",
		slog.String("duration", FormatDuration(time.Since(p.startTime))))
}
