package output

// SummaryInfo содержит сводку с ключевыми метриками выполнения.
type SummaryInfo struct {
	KeyMetrics []KeyMetric `json:"key_metrics,omitempty" yaml:"key_metrics,omitempty"`

	WarningsCount int `json:"warnings_count" yaml:"warnings_count"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// KeyMetric — одна метрика сводки (например, "Переименовано баз: 3").
type KeyMetric struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// NewSummaryInfo создаёт пустую сводку.
func NewSummaryInfo() *SummaryInfo {
	return &SummaryInfo{
		KeyMetrics: make([]KeyMetric, 0),
		Warnings:   make([]string, 0),
	}
}

// AddMetric добавляет метрику в сводку.
func (s *SummaryInfo) AddMetric(name, value, unit string) {
	s.KeyMetrics = append(s.KeyMetrics, KeyMetric{Name: name, Value: value, Unit: unit})
}

// AddWarning добавляет предупреждение и увеличивает счётчик.
func (s *SummaryInfo) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
	s.WarningsCount++
}
