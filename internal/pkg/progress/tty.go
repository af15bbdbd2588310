package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// barWidth — ширина progress bar в символах.
const barWidth = 30

// TTYProgress рисует progress bar в терминале.
type TTYProgress struct {
	mu        sync.Mutex
	opts      Options
	startTime time.Time
	current   int64
	lastDraw  time.Time
	message   string
}

// NewTTYProgress создаёт TTY progress bar.
func NewTTYProgress(opts Options) *TTYProgress {
	return &TTYProgress{opts: opts}
}

// Start инициализирует progress bar с начальным сообщением.
func (p *TTYProgress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.message = message
	p.current = 0
	p.lastDraw = time.Time{}
	p.draw()
}

// Update обновляет прогресс. Последний шаг рисуется всегда, промежуточные — не чаще ThrottleInterval.
func (p *TTYProgress) Update(current int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	if message != "" {
		p.message = message
	}
	if current < p.opts.Total && p.opts.ThrottleInterval > 0 && time.Since(p.lastDraw) < p.opts.ThrottleInterval {
		return
	}
	p.draw()
}

// SetTotal устанавливает общее количество шагов.
func (p *TTYProgress) SetTotal(total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Total = total
}

// Finish дорисовывает bar до 100% и переводит строку.
func (p *TTYProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.opts.Total
	p.draw()
	if p.opts.Output != nil {
		_, _ = fmt.Fprintln(p.opts.Output) //nolint:errcheck // terminal output
	}
}

// draw выводит строку вида: [=====>    ] 2/5 40% | ETA: 10s | HR
func (p *TTYProgress) draw() {
	p.lastDraw = time.Now()
	if p.opts.Output == nil {
		return
	}

	percent := p.percent()
	line := fmt.Sprintf("\r%s %d/%d %d%%", renderBar(percent), p.current, p.opts.Total, percent)
	if p.opts.ShowETA && p.current > 0 && p.current < p.opts.Total {
		line += " | ETA: " + p.eta()
	}
	if p.message != "" {
		line += " | " + p.message
	}
	line += "\033[K"

	_, _ = fmt.Fprint(p.opts.Output, line) //nolint:errcheck // terminal output
}

func (p *TTYProgress) percent() int {
	if p.opts.Total <= 0 {
		return 0
	}
	percent := int(p.current * 100 / p.opts.Total)
	if percent > 100 {
		return 100
	}
	return percent
}

// eta оценивает оставшееся время по средней длительности выполненных шагов.
func (p *TTYProgress) eta() string {
	elapsed := time.Since(p.startTime)
	remaining := time.Duration(float64(elapsed) / float64(p.current) * float64(p.opts.Total-p.current))
	if remaining < time.Second {
		return "<1s"
	}
	return FormatDuration(remaining)
}

// renderBar рисует заполненную часть и стрелку. При 0% стрелки нет.
func renderBar(percent int) string {
	filled := percent * barWidth / 100
	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			bar.WriteString("=")
		case i == filled && filled > 0:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")
	return bar.String()
}
