package progress

// NoopProgress ничего не выводит.
// Используется при BR_SHOW_PROGRESS=false, структурированном выводе и в тестах.
type NoopProgress struct{}

// NewNoOp создаёт NoopProgress.
func NewNoOp() Progress {
	return &NoopProgress{}
}

func (p *NoopProgress) Start(_ string)           {}
func (p *NoopProgress) Update(_ int64, _ string) {}
func (p *NoopProgress) SetTotal(_ int64)         {}
func (p *NoopProgress) Finish()                  {}
