package progress

import (
	"log/slog"
	"os"
	"time"

	"github.com/Kargones/dbrename/internal/pkg/output"
)

// DefaultThrottleInterval — интервал throttling по умолчанию.
const DefaultThrottleInterval = 200 * time.Millisecond

// New выбирает реализацию Progress по окружению:
//  1. BR_SHOW_PROGRESS=false → NoopProgress
//  2. BR_OUTPUT_FORMAT=json|yaml → NoopProgress (машиночитаемый вывод не засоряется)
//  3. Output — терминал → TTYProgress
//  4. Иначе → NonTTYProgress, пишущий в log
func New(opts Options, log *slog.Logger) Progress {
	if opts.ThrottleInterval == 0 {
		opts.ThrottleInterval = DefaultThrottleInterval
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	if os.Getenv("BR_SHOW_PROGRESS") == "false" {
		return NewNoOp()
	}
	if output.IsStructured(os.Getenv("BR_OUTPUT_FORMAT")) {
		return NewNoOp()
	}
	if IsTTY(opts.Output) {
		return NewTTYProgress(opts)
	}
	return NewNonTTYProgress(opts, log)
}
