package dbrenamehandler

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Kargones/dbrename/internal/entity/dbrename"
	"github.com/Kargones/dbrename/internal/pkg/output"
)

// DbRenameData содержит результат переименования по всем базам.
type DbRenameData struct {
	dbrename.Report `yaml:",inline"`

	FullCount    int `json:"full_count" yaml:"full_count"`
	PartialCount int `json:"partial_count" yaml:"partial_count"`
}

func newDbRenameData(report *dbrename.Report) *DbRenameData {
	full, partial := report.Counts()
	return &DbRenameData{Report: *report, FullCount: full, PartialCount: partial}
}

// WriteText выводит результат в человекочитаемом формате.
func (d *DbRenameData) WriteText(w io.Writer) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Экземпляр: %s (хост %s, экземпляр %s)\n",
		d.Server.SqlInstance, d.Server.ComputerName, d.Server.InstanceName)
	if d.Preview {
		sb.WriteString("Режим: предпросмотр, изменения не выполнялись\n")
	}

	for _, db := range d.Databases {
		fmt.Fprintf(&sb, "\n[%s] %s\n", db.Status, db.OriginalDatabase)
		writeRenames(&sb, "База", db.DatabaseRenames)
		writeRenames(&sb, "Файловые группы", db.FileGroupsRenames)
		writeRenames(&sb, "Логические имена", db.LogicalNameRenames)
		writeRenames(&sb, "Файлы", db.FileNameRenames)
		if len(db.PendingRenames) > 0 {
			sb.WriteString("  Ожидают перемещения:\n")
			for _, m := range db.PendingRenames {
				fmt.Fprintf(&sb, "    %s -> %s (%s)\n", m.Source, m.Destination, m.Target.Kind)
			}
		}
		for _, note := range db.Notes {
			fmt.Fprintf(&sb, "  ! %s\n", note)
		}
	}

	if len(d.Skipped) > 0 {
		sb.WriteString("\nПропущены:\n")
		for _, s := range d.Skipped {
			fmt.Fprintf(&sb, "  %s (%s): %s\n", s.Database, s.Reason, s.Message)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRenames(sb *strings.Builder, title, renames string) {
	if renames == "" {
		return
	}
	fmt.Fprintf(sb, "  %s:\n", title)
	for _, line := range strings.Split(renames, "\n") {
		fmt.Fprintf(sb, "    %s\n", line)
	}
}

// buildSummary собирает ключевые метрики и предупреждения о пропущенных базах.
func buildSummary(report *dbrename.Report) *output.SummaryInfo {
	full, partial := report.Counts()
	summary := output.NewSummaryInfo()
	summary.AddMetric("Обработано полностью", strconv.Itoa(full), "баз")
	summary.AddMetric("Обработано частично", strconv.Itoa(partial), "баз")
	summary.AddMetric("Пропущено", strconv.Itoa(len(report.Skipped)), "баз")
	for _, s := range report.Skipped {
		summary.AddWarning(s.Message)
	}
	for _, db := range report.Databases {
		if db.Status == dbrename.StatusPartial {
			summary.AddWarning(fmt.Sprintf("база %s требует ручного вмешательства", db.OriginalDatabase))
		}
	}
	return summary
}
