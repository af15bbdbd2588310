package dbrename

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kargones/dbrename/internal/constants"
	"github.com/Kargones/dbrename/internal/pkg/apperrors"
	"github.com/Kargones/dbrename/internal/pkg/metrics"
	"github.com/Kargones/dbrename/internal/pkg/progress"
	"github.com/Kargones/dbrename/internal/pkg/tracing"
)

// Renamer выполняет переименование баз по шаблонам.
type Renamer struct {
	catalog  Catalog
	mover    FileMover
	opts     Options
	log      *slog.Logger
	metrics  metrics.Collector
	progress progress.Progress
}

// Option настраивает Renamer.
type Option func(*Renamer)

// WithLogger задаёт логгер. По умолчанию slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Renamer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics задаёт сборщик метрик. По умолчанию NopCollector.
func WithMetrics(m metrics.Collector) Option {
	return func(r *Renamer) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithProgress задаёт отображение хода обработки баз. По умолчанию ничего не выводится.
func WithProgress(p progress.Progress) Option {
	return func(r *Renamer) {
		if p != nil {
			r.progress = p
		}
	}
}

// NewRenamer создаёт Renamer. mover может быть nil, если не требуется перемещение файлов (Move).
func NewRenamer(catalog Catalog, mover FileMover, opts Options, options ...Option) *Renamer {
	r := &Renamer{
		catalog:  catalog,
		mover:    mover,
		opts:     opts,
		log:      slog.Default(),
		metrics:  metrics.NewNopCollector(),
		progress: progress.NewNoOp(),
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// runState — состояние одного вызова Run, общее для всех баз.
type runState struct {
	info      ServerInfo
	date      string
	databases *NameRegistry
	// paths заполняется только при заданном шаблоне FileName.
	paths  *PathRegistry
	target MoveTarget
}

// Run проверяет параметры, выбирает базы и обрабатывает их по одной.
// Ошибки валидации и чтения каталога экземпляра возвращаются как error,
// ошибки обработки отдельной базы отражаются в её статусе.
func (r *Renamer) Run(ctx context.Context, sel Selection) (*Report, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if r.opts.Move && r.mover == nil {
		return nil, apperrors.NewAppError(apperrors.ErrRenameValidation,
			"Move требует исполнителя перемещения файлов", nil)
	}

	info, err := r.catalog.ServerInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить сведения об экземпляре: %w", err)
	}
	all, err := r.catalog.ListDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить список баз: %w", err)
	}

	targets, skipped := selectDatabases(all, sel)
	for _, s := range skipped {
		r.log.Warn("База пропущена", "database", s.Database, "reason", s.Reason, "message", s.Message)
		r.metrics.RecordDatabase("SKIPPED")
	}

	report := &Report{
		Server:    info,
		Preview:   r.opts.Preview,
		Databases: make([]DatabaseResult, 0, len(targets)),
		Skipped:   skipped,
	}
	if len(targets) == 0 {
		return report, nil
	}

	names := make([]string, 0, len(all))
	for _, db := range all {
		names = append(names, db.Name)
	}
	run := &runState{
		info:      info,
		date:      r.opts.now().Format(constants.DateLayout),
		databases: NewNameRegistry(names...),
		target:    MoveTarget{Kind: TargetLocal},
	}

	if r.opts.Templates.FileName != "" {
		paths, err := r.catalog.InstanceFilePaths(ctx)
		if err != nil {
			return nil, fmt.Errorf("не удалось получить список файлов экземпляра: %w", err)
		}
		run.paths = NewPathRegistry(paths...)
		run.target = r.resolveTarget(ctx, info.ComputerName)
	}

	r.progress.SetTotal(int64(len(targets)))
	r.progress.Start("Переименование баз данных")
	defer r.progress.Finish()
	for i, db := range targets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Databases = append(report.Databases, r.processDatabase(ctx, run, db))
		r.progress.Update(int64(i+1), db.Name)
	}
	return report, nil
}

func (r *Renamer) resolveTarget(ctx context.Context, computerName string) MoveTarget {
	if r.mover == nil {
		return MoveTarget{Kind: TargetLocal}
	}
	target, err := r.mover.ResolveTarget(ctx, computerName)
	if err != nil {
		r.log.Warn("Не удалось определить способ доступа к файлам, используется административный ресурс",
			"computer", computerName, "error", err)
		return MoveTarget{Kind: TargetAdminShare, Host: computerName}
	}
	r.log.Debug("Способ доступа к файлам определён", "computer", computerName, "kind", target.Kind)
	return target
}

func (r *Renamer) processDatabase(ctx context.Context, run *runState, db Database) DatabaseResult {
	ctx, span := tracing.StartSpan(ctx, "dbrename.database", "database", db.Name)
	defer span.End()

	p := &pass{
		Renamer:   r,
		run:       run,
		log:       r.log.With("database", db.Name),
		origDB:    db.Name,
		currentDB: db.Name,
		liveDB:    db.Name,
		result: DatabaseResult{
			ComputerName:     run.info.ComputerName,
			InstanceName:     run.info.InstanceName,
			SqlInstance:      run.info.SqlInstance,
			OriginalDatabase: db.Name,
			Status:           StatusFull,
			Renames:          &RenameMaps{},
		},
	}
	p.execute(ctx)

	p.result.Database = p.currentDB
	p.result.PendingRenames = p.pending
	p.result.finalize()
	r.metrics.RecordDatabase(string(p.result.Status))
	p.log.Info("Обработка базы завершена", "status", p.result.Status, "new_name", p.currentDB)
	return p.result
}

// fileGroupState и fileState — объекты базы с исходными и текущими именами.
type fileGroupState struct {
	orig, current string
}

type fileState struct {
	group   *fileGroupState // nil для файлов журнала
	tag     FileTypeTag
	logical string
	// origLogical — логическое имя до переименования, вычитается из имени файла при ReplaceBefore.
	origLogical string
	path        string
}

func (f *fileState) groupNames() (orig, current string) {
	if f.group == nil {
		return "", ""
	}
	return f.group.orig, f.group.current
}

// pass — обработка одной базы. Все поля локальны для прохода.
type pass struct {
	*Renamer
	run    *runState
	log    *slog.Logger
	result DatabaseResult

	origDB    string
	currentDB string
	// liveDB — имя базы на сервере. В режиме Preview остаётся исходным.
	liveDB string

	groups  []*fileGroupState
	files   []*fileState // сначала файлы данных, затем журнала
	pending []PendingMove
}

func (p *pass) execute(ctx context.Context) {
	t := p.opts.Templates

	if t.Database != "" && !p.renameDatabase(ctx) {
		return
	}
	if t.FileGroup == "" && t.Logical == "" && t.FileName == "" {
		return
	}

	layout, err := p.catalog.DatabaseLayout(ctx, p.liveDB)
	if err != nil {
		p.fail(LevelFileGroup, apperrors.ErrRenameApply, "не удалось прочитать файловую структуру базы", err)
		return
	}
	p.load(layout)

	if t.FileGroup != "" && !p.renameFileGroups(ctx) {
		return
	}
	if t.Logical != "" && !p.renameLogicalFiles(ctx) {
		return
	}
	if t.FileName != "" && !p.renamePhysicalFiles(ctx) {
		return
	}
	p.relocate(ctx)
}

func (p *pass) load(layout *Layout) {
	for _, fg := range layout.FileGroups {
		g := &fileGroupState{orig: fg.Name, current: fg.Name}
		p.groups = append(p.groups, g)
		for _, f := range fg.Files {
			p.files = append(p.files, &fileState{
				group: g, tag: fg.Type.Tag(), logical: f.LogicalName, origLogical: f.LogicalName, path: f.PhysicalName,
			})
		}
	}
	for _, f := range layout.LogFiles {
		p.files = append(p.files, &fileState{
			tag: TagLog, logical: f.LogicalName, origLogical: f.LogicalName, path: f.PhysicalName,
		})
	}
}

func (p *pass) renameDatabase(ctx context.Context) bool {
	old := p.currentDB
	candidate := expand(p.opts.Templates.Database, values{database: old, date: p.run.date})
	if candidate == old {
		p.identity(LevelDatabase, old)
		return true
	}

	newName, _ := disambiguate(candidate, 0, func(n string) bool {
		return p.run.databases.TakenByOther(n, old)
	})
	if !p.opts.Preview {
		if err := p.applyDatabaseRename(ctx, old, newName); err != nil {
			p.fail(LevelDatabase, apperrors.ErrRenameApply,
				fmt.Sprintf("не удалось переименовать базу %s в %s", old, newName), err)
			return false
		}
		p.liveDB = newName
	}

	p.run.databases.Replace(old, newName)
	p.result.Renames.Database.Set(old, newName)
	p.currentDB = newName
	p.renamed(LevelDatabase, old, newName)
	return true
}

// applyDatabaseRename переименовывает базу, при Force предварительно отключая пользователей.
// Ошибка возврата в MULTI_USER не отменяет переименование и фиксируется в заметках.
func (p *pass) applyDatabaseRename(ctx context.Context, old, newName string) error {
	if !p.opts.Force {
		return p.catalog.RenameDatabase(ctx, old, newName)
	}

	if err := p.catalog.SetSingleUser(ctx, old); err != nil {
		return fmt.Errorf("не удалось перевести базу в SINGLE_USER: %w", err)
	}
	renameErr := p.catalog.RenameDatabase(ctx, old, newName)

	name := newName
	if renameErr != nil {
		name = old
	}
	if err := p.catalog.SetMultiUser(ctx, name); err != nil {
		p.log.Error("Не удалось вернуть базу в MULTI_USER", "error", err)
		p.result.partial(fmt.Sprintf("база %s осталась в режиме SINGLE_USER: %v", name, err))
	}
	return renameErr
}

func (p *pass) renameFileGroups(ctx context.Context) bool {
	names := make([]string, 0, len(p.groups))
	for _, g := range p.groups {
		names = append(names, g.current)
	}
	registry := NewNameRegistry(names...)
	counter := 0

	for _, g := range p.groups {
		if g.orig == constants.PrimaryFileGroup {
			continue
		}
		own := g.current
		if p.opts.ReplaceBefore {
			own = stripAncestors(own, p.origDB)
		}
		candidate := expand(p.opts.Templates.FileGroup, values{
			database:  p.currentDB,
			date:      p.run.date,
			fileGroup: ptr(own),
		})
		if candidate == g.current {
			p.identity(LevelFileGroup, g.current)
			continue
		}

		var newName string
		newName, counter = disambiguate(candidate, counter, func(n string) bool {
			return registry.TakenByOther(n, g.current)
		})
		if !p.opts.Preview {
			if err := p.catalog.RenameFileGroup(ctx, p.liveDB, g.current, newName); err != nil {
				p.fail(LevelFileGroup, apperrors.ErrRenameApply,
					fmt.Sprintf("не удалось переименовать файловую группу %s в %s", g.current, newName), err)
				return false
			}
		}
		registry.Replace(g.current, newName)
		p.result.Renames.FileGroup.Set(g.current, newName)
		p.renamed(LevelFileGroup, g.current, newName)
		g.current = newName
	}
	return true
}

func (p *pass) renameLogicalFiles(ctx context.Context) bool {
	names := make([]string, 0, len(p.files))
	for _, f := range p.files {
		names = append(names, f.logical)
	}
	registry := NewNameRegistry(names...)
	counter := 0

	for _, f := range p.files {
		origGroup, group := f.groupNames()
		own := f.logical
		if p.opts.ReplaceBefore {
			own = stripAncestors(own, p.origDB, origGroup)
		}
		candidate := expand(p.opts.Templates.Logical, values{
			database:    p.currentDB,
			date:        p.run.date,
			fileGroup:   ptr(group),
			fileType:    ptr(string(f.tag)),
			logicalName: ptr(own),
		})
		if candidate == f.logical {
			p.identity(LevelLogical, f.logical)
			continue
		}

		var newName string
		newName, counter = disambiguate(candidate, counter, func(n string) bool {
			return registry.TakenByOther(n, f.logical)
		})
		if !p.opts.Preview {
			if err := p.catalog.RenameLogicalFile(ctx, p.liveDB, f.logical, newName); err != nil {
				p.fail(LevelLogical, apperrors.ErrRenameApply,
					fmt.Sprintf("не удалось переименовать логический файл %s в %s", f.logical, newName), err)
				return false
			}
		}
		registry.Replace(f.logical, newName)
		p.result.Renames.LogicalFile.Set(f.logical, newName)
		p.renamed(LevelLogical, f.logical, newName)
		f.logical = newName
	}
	return true
}

func (p *pass) renamePhysicalFiles(ctx context.Context) bool {
	counter := 0

	for _, f := range p.files {
		origGroup, group := f.groupNames()
		own := BaseName(f.path)
		if p.opts.ReplaceBefore {
			own = stripAncestors(own, p.origDB, origGroup, f.origLogical)
		}
		candidate := expand(p.opts.Templates.FileName, values{
			database:    p.currentDB,
			date:        p.run.date,
			fileGroup:   ptr(group),
			fileType:    ptr(string(f.tag)),
			logicalName: ptr(f.logical),
			fileName:    ptr(own),
		})
		if WithBaseName(f.path, candidate) == f.path {
			p.identity(LevelPhysical, f.path)
			continue
		}

		var base string
		base, counter = disambiguate(candidate, counter, func(b string) bool {
			return p.run.paths.TakenByOther(WithBaseName(f.path, b), f.path)
		})
		newPath := WithBaseName(f.path, base)
		if !p.opts.Preview {
			if err := p.catalog.SetFilePath(ctx, p.liveDB, f.logical, newPath); err != nil {
				p.fail(LevelPhysical, apperrors.ErrRenameApply,
					fmt.Sprintf("не удалось изменить путь файла %s на %s", f.path, newPath), err)
				return false
			}
		}
		p.run.paths.Replace(f.path, newPath)
		p.result.Renames.PhysicalFile.Set(f.path, newPath)
		p.pending = append(p.pending, PendingMove{
			Database:    p.currentDB,
			Source:      f.path,
			Destination: newPath,
			Target:      p.run.target,
			Location:    p.run.target.Locate(newPath),
		})
		p.renamed(LevelPhysical, f.path, newPath)
		f.path = newPath
	}
	return true
}

// relocate переводит базу в offline, перемещает файлы и возвращает базу online.
// Неперемещённые файлы остаются в pending для ручного завершения.
func (p *pass) relocate(ctx context.Context) {
	if len(p.pending) == 0 {
		return
	}

	if !p.opts.takeOffline() {
		p.result.partial("пути файлов изменены в каталоге: переместите файлы вручную " +
			"и переведите базу offline/online, чтобы изменения вступили в силу")
		return
	}
	if p.opts.Preview {
		if !p.opts.Move {
			p.result.partial(fmt.Sprintf("база %s будет оставлена offline для ручного перемещения файлов", p.currentDB))
		}
		return
	}

	if err := p.catalog.SetOffline(ctx, p.liveDB); err != nil {
		p.fail(LevelMove, apperrors.ErrRenameOffline,
			fmt.Sprintf("не удалось перевести базу %s в offline", p.liveDB), err)
		return
	}
	if !p.opts.Move {
		p.result.partial(fmt.Sprintf("база %s оставлена offline: переместите файлы и переведите базу online", p.liveDB))
		return
	}

	for len(p.pending) > 0 {
		m := p.pending[0]
		if err := p.mover.Move(ctx, m.Target, m.Source, m.Destination); err != nil {
			p.fail(LevelMove, apperrors.ErrRenameMove,
				fmt.Sprintf("не удалось переместить %s в %s, база %s оставлена offline", m.Source, m.Destination, p.liveDB), err)
			return
		}
		p.metrics.RecordRename(string(LevelMove), metrics.OutcomeRenamed)
		p.log.Info("Файл перемещён", "source", m.Source, "destination", m.Destination, "target", m.Target.Kind)
		p.pending = p.pending[1:]
	}

	if err := p.catalog.SetOnline(ctx, p.liveDB); err != nil {
		p.fail(LevelMove, apperrors.ErrRenameOnline,
			fmt.Sprintf("файлы перемещены, но базу %s не удалось перевести online", p.liveDB), err)
	}
}

func (p *pass) renamed(level Level, from, to string) {
	outcome := metrics.OutcomeRenamed
	if p.opts.Preview {
		outcome = metrics.OutcomePreview
	}
	p.metrics.RecordRename(string(level), outcome)
	p.log.Info("Переименование", "level", level, "from", from, "to", to, "preview", p.opts.Preview)
}

func (p *pass) identity(level Level, name string) {
	p.metrics.RecordRename(string(level), metrics.OutcomeSkipped)
	p.log.Debug("Имя не меняется", "level", level, "name", name)
}

// fail фиксирует ошибку уровня: статус PARTIAL, заметка с кодом ошибки.
func (p *pass) fail(level Level, code, message string, err error) {
	appErr := apperrors.NewAppError(code, message, err)
	p.metrics.RecordRename(string(level), metrics.OutcomeFailed)
	p.log.Error("Обработка базы прервана", "level", level, "error", appErr)
	p.result.partial(appErr.Error())
}
