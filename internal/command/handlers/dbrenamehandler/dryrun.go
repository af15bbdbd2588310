package dbrenamehandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/entity/dbrename"
	"github.com/Kargones/dbrename/internal/pkg/dryrun"
	"github.com/Kargones/dbrename/internal/pkg/output"
)

// previewPlan рассчитывает переименования без изменений и строит по ним план операций.
// Используется в dry-run, plan-only и verbose режимах.
func (h *DbRenameHandler) previewPlan(
	ctx context.Context,
	catalog dbrename.Catalog,
	mover dbrename.FileMover,
	opts dbrename.Options,
	sel dbrename.Selection,
	log *slog.Logger,
) (*output.DryRunPlan, error) {
	opts.Preview = true
	report, err := dbrename.NewRenamer(catalog, mover, opts, dbrename.WithLogger(log)).Run(ctx, sel)
	if err != nil {
		return nil, err
	}
	return buildPlan(report, opts), nil
}

// buildPlan создаёт план: один шаг на каждое переименование и перемещение.
func buildPlan(report *dbrename.Report, opts dbrename.Options) *output.DryRunPlan {
	var steps []output.PlanStep

	for _, s := range report.Skipped {
		steps = append(steps, output.PlanStep{
			Operation:  fmt.Sprintf("Обработка базы %s", s.Database),
			Parameters: map[string]any{"database": s.Database, "reason": string(s.Reason)},
			Skipped:    true,
			SkipReason: s.Message,
		})
	}

	renames := 0
	for _, db := range report.Databases {
		for _, r := range db.Renames.Database.Entries() {
			params := map[string]any{"database": r.From, "new_name": r.To}
			if opts.Force {
				params["force"] = true
			}
			steps = append(steps, renameStep("Переименование базы", params, r))
			renames++
		}
		for _, r := range db.Renames.FileGroup.Entries() {
			steps = append(steps, renameStep("Переименование файловой группы",
				map[string]any{"database": db.Database, "filegroup": r.From, "new_name": r.To}, r))
			renames++
		}
		for _, r := range db.Renames.LogicalFile.Entries() {
			steps = append(steps, renameStep("Переименование логического файла",
				map[string]any{"database": db.Database, "logical_name": r.From, "new_name": r.To}, r))
			renames++
		}
		for _, r := range db.Renames.PhysicalFile.Entries() {
			steps = append(steps, renameStep("Изменение пути файла в каталоге",
				map[string]any{"database": db.Database, "path": r.From, "new_path": r.To}, r))
			renames++
		}
		steps = append(steps, relocationSteps(db, opts)...)
	}

	if len(steps) == 0 {
		steps = append(steps, output.PlanStep{
			Operation:       "Переименование",
			Parameters:      map[string]any{"server": report.Server.SqlInstance},
			ExpectedChanges: []string{"Нет изменений: все имена уже соответствуют шаблонам"},
		})
	}

	return dryrun.BuildPlanWithSummary(
		constants.ActNRDbRename,
		steps,
		fmt.Sprintf("%s: баз %d, переименований %d, пропущено %d",
			report.Server.SqlInstance, len(report.Databases), renames, len(report.Skipped)),
	)
}

func renameStep(operation string, params map[string]any, r dbrename.Rename) output.PlanStep {
	return output.PlanStep{
		Operation:       operation,
		Parameters:      params,
		ExpectedChanges: []string{r.From + constants.RenameArrow + r.To},
	}
}

// relocationSteps описывает перевод базы offline, перемещение файлов и возврат online.
func relocationSteps(db dbrename.DatabaseResult, opts dbrename.Options) []output.PlanStep {
	if len(db.PendingRenames) == 0 || !(opts.SetOffline || opts.Move) {
		return nil
	}

	steps := []output.PlanStep{{
		Operation:       "Перевод базы в offline",
		Parameters:      map[string]any{"database": db.Database},
		ExpectedChanges: []string{fmt.Sprintf("База %s станет недоступна", db.Database)},
	}}
	if !opts.Move {
		return steps
	}
	for _, m := range db.PendingRenames {
		steps = append(steps, output.PlanStep{
			Operation: "Перемещение файла",
			Parameters: map[string]any{
				"source":      m.Source,
				"destination": m.Destination,
				"target":      string(m.Target.Kind),
				"location":    m.Location,
			},
			ExpectedChanges: []string{m.Source + constants.RenameArrow + m.Destination},
		})
	}
	return append(steps, output.PlanStep{
		Operation:       "Перевод базы в online",
		Parameters:      map[string]any{"database": db.Database},
		ExpectedChanges: []string{"База снова доступна с новыми путями файлов"},
	})
}
