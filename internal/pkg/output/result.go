// Package output предоставляет структуры и интерфейсы для форматирования
// результатов команд в текстовом, JSON и YAML формате.
package output

// StatusSuccess, StatusPartial и StatusError — возможные значения поля Status в Result.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// Result представляет структурированный результат выполнения команды.
// Используется для сериализации (BR_OUTPUT_FORMAT=json|yaml)
// или для формирования человекочитаемого вывода (BR_OUTPUT_FORMAT=text).
type Result struct {
	// Status содержит статус выполнения: "success", "partial" или "error".
	Status string `json:"status" yaml:"status"`

	// Command содержит имя выполненной команды.
	Command string `json:"command" yaml:"command"`

	// Data содержит payload конкретной команды.
	Data any `json:"data,omitempty" yaml:"data,omitempty"`

	// Error заполняется только при status="error".
	Error *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`

	Metadata *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// DryRun — результат является планом, а не реальным выполнением.
	DryRun bool `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`

	// PlanOnly — результат является только отображением плана.
	PlanOnly bool `json:"plan_only,omitempty" yaml:"plan_only,omitempty"`

	Plan *DryRunPlan `json:"plan,omitempty" yaml:"plan,omitempty"`

	// Summary копируется в Metadata.Summary при сериализации.
	Summary *SummaryInfo `json:"-" yaml:"-"`
}

// ErrorInfo содержит информацию об ошибке в структурированном виде.
// ВАЖНО: Message НЕ ДОЛЖЕН содержать секреты!
type ErrorInfo struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Metadata содержит метаданные выполнения команды.
type Metadata struct {
	// DurationMs — время выполнения команды в миллисекундах.
	DurationMs int64 `json:"duration_ms" yaml:"duration_ms"`

	// TraceID — идентификатор трассировки для корреляции логов.
	TraceID string `json:"trace_id,omitempty" yaml:"trace_id,omitempty"`

	// APIVersion — версия формата вывода. Текущая версия: "v1".
	APIVersion string `json:"api_version" yaml:"api_version"`

	Summary *SummaryInfo `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// withSummary возвращает копию результата, у которой Summary перенесён в Metadata.
func (r *Result) withSummary() *Result {
	out := *r
	if r.Summary != nil && r.Metadata != nil {
		meta := *r.Metadata
		meta.Summary = r.Summary
		out.Metadata = &meta
	}
	return &out
}
