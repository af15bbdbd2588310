package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// DryRunPlan содержит план операций, построенный без реального выполнения.
type DryRunPlan struct {
	Command          string     `json:"command" yaml:"command"`
	Steps            []PlanStep `json:"steps" yaml:"steps"`
	Summary          string     `json:"summary,omitempty" yaml:"summary,omitempty"`
	ValidationPassed bool       `json:"validation_passed" yaml:"validation_passed"`
}

// PlanStep описывает один шаг плана.
type PlanStep struct {
	Order           int            `json:"order" yaml:"order"`
	Operation       string         `json:"operation" yaml:"operation"`
	Parameters      map[string]any `json:"parameters" yaml:"parameters"`
	ExpectedChanges []string       `json:"expected_changes,omitempty" yaml:"expected_changes,omitempty"`
	Skipped         bool           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	SkipReason      string         `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
}

// WriteText выводит план с заголовком "=== DRY RUN ===".
func (p *DryRunPlan) WriteText(w io.Writer) error {
	return p.writeText(w, "=== DRY RUN ===", "=== END DRY RUN ===")
}

// WritePlanText выводит план для plan-only и verbose режимов.
func (p *DryRunPlan) WritePlanText(w io.Writer) error {
	return p.writeText(w, "=== OPERATION PLAN ===", "=== END OPERATION PLAN ===")
}

func (p *DryRunPlan) writeText(w io.Writer, header, footer string) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s\n", header)
	fmt.Fprintf(&sb, "Команда: %s\n", p.Command)
	fmt.Fprintf(&sb, "Валидация: %s\n\n", boolToStatus(p.ValidationPassed))
	sb.WriteString("План выполнения:\n")

	for _, step := range p.Steps {
		if step.Skipped {
			fmt.Fprintf(&sb, "  %d. [SKIP] %s — %s\n", step.Order, step.Operation, step.SkipReason)
			continue
		}
		fmt.Fprintf(&sb, "  %d. %s\n", step.Order, step.Operation)

		keys := make([]string, 0, len(step.Parameters))
		for k := range step.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "      %s: %s\n", k, sanitizeValue(step.Parameters[k]))
		}

		if len(step.ExpectedChanges) > 0 {
			sb.WriteString("      Ожидаемые изменения:\n")
			for _, change := range step.ExpectedChanges {
				fmt.Fprintf(&sb, "        - %s\n", sanitizeValue(change))
			}
		}
	}

	if p.Summary != "" {
		fmt.Fprintf(&sb, "\nИтого: %s\n", p.Summary)
	}
	fmt.Fprintf(&sb, "%s\n", footer)

	_, err := io.WriteString(w, sb.String())
	return err
}

func boolToStatus(b bool) string {
	if b {
		return "✅ Пройдена"
	}
	return "❌ Не пройдена"
}

// sanitizeValue удаляет ANSI escape-последовательности и управляющие символы,
// переводы строк и табуляции заменяются пробелами.
// Имена баз и файлов приходят с сервера и выводятся в терминал как есть.
func sanitizeValue(v any) string {
	s := fmt.Sprintf("%v", v)
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		switch {
		case r == '\n' || r == '\t':
			sb.WriteRune(' ')
		case r < 32 || r == 127:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// WriteDryRunResult выводит dry-run план: текстом или как Result с DryRun=true.
func WriteDryRunResult(w io.Writer, format, command, traceID, apiVersion string, start time.Time, plan *DryRunPlan) error {
	return writePlanResult(w, format, command, traceID, apiVersion, start, plan, false)
}

// WritePlanOnlyResult выводит план без выполнения: текстом или как Result с PlanOnly=true.
func WritePlanOnlyResult(w io.Writer, format, command, traceID, apiVersion string, start time.Time, plan *DryRunPlan) error {
	return writePlanResult(w, format, command, traceID, apiVersion, start, plan, true)
}

func writePlanResult(w io.Writer, format, command, traceID, apiVersion string, start time.Time, plan *DryRunPlan, planOnly bool) error {
	if !IsStructured(format) {
		if planOnly {
			return plan.WritePlanText(w)
		}
		return plan.WriteText(w)
	}

	result := &Result{
		Status:   StatusSuccess,
		Command:  command,
		Plan:     plan,
		DryRun:   !planOnly,
		PlanOnly: planOnly,
		Metadata: &Metadata{
			DurationMs: time.Since(start).Milliseconds(),
			TraceID:    traceID,
			APIVersion: apiVersion,
		},
	}
	return NewWriter(format).Write(w, result)
}
