package dbrename

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// fakeCatalog — каталог экземпляра в памяти.
// Изменяющие вызовы меняют состояние так же, как это сделал бы SQL Server.
type fakeCatalog struct {
	info    ServerInfo
	dbs     []Database
	layouts map[string]*Layout
	// other — файлы баз без описанной структуры.
	other []string

	calls     []string
	mutations []string
	// failOn — ошибка для конкретного вызова, ключ в формате записи calls.
	failOn map[string]error
}

func (c *fakeCatalog) record(mutating bool, op string, args ...string) error {
	call := strings.TrimSpace(op + " " + strings.Join(args, " "))
	c.calls = append(c.calls, call)
	if mutating {
		c.mutations = append(c.mutations, call)
	}
	return c.failOn[call]
}

func (c *fakeCatalog) called(op string) bool {
	for _, call := range c.calls {
		if strings.HasPrefix(call, op) {
			return true
		}
	}
	return false
}

func (c *fakeCatalog) ServerInfo(context.Context) (ServerInfo, error) {
	return c.info, c.record(false, "ServerInfo")
}

func (c *fakeCatalog) ListDatabases(context.Context) ([]Database, error) {
	if err := c.record(false, "ListDatabases"); err != nil {
		return nil, err
	}
	return append([]Database(nil), c.dbs...), nil
}

func (c *fakeCatalog) DatabaseLayout(_ context.Context, database string) (*Layout, error) {
	if err := c.record(false, "DatabaseLayout", database); err != nil {
		return nil, err
	}
	l, ok := c.layouts[database]
	if !ok {
		return nil, fmt.Errorf("нет структуры базы %s", database)
	}
	out := &Layout{LogFiles: append([]DataFile(nil), l.LogFiles...)}
	for _, fg := range l.FileGroups {
		fg.Files = append([]DataFile(nil), fg.Files...)
		out.FileGroups = append(out.FileGroups, fg)
	}
	return out, nil
}

func (c *fakeCatalog) InstanceFilePaths(context.Context) ([]string, error) {
	if err := c.record(false, "InstanceFilePaths"); err != nil {
		return nil, err
	}
	paths := append([]string(nil), c.other...)
	for _, l := range c.layouts {
		c.eachFile(l, func(f *DataFile) { paths = append(paths, f.PhysicalName) })
	}
	return paths, nil
}

func (c *fakeCatalog) eachFile(l *Layout, fn func(f *DataFile)) {
	for i := range l.FileGroups {
		for j := range l.FileGroups[i].Files {
			fn(&l.FileGroups[i].Files[j])
		}
	}
	for i := range l.LogFiles {
		fn(&l.LogFiles[i])
	}
}

func (c *fakeCatalog) RenameDatabase(_ context.Context, oldName, newName string) error {
	if err := c.record(true, "RenameDatabase", oldName, newName); err != nil {
		return err
	}
	for i := range c.dbs {
		if c.dbs[i].Name == oldName {
			c.dbs[i].Name = newName
		}
	}
	if l, ok := c.layouts[oldName]; ok {
		delete(c.layouts, oldName)
		c.layouts[newName] = l
	}
	return nil
}

func (c *fakeCatalog) RenameFileGroup(_ context.Context, database, oldName, newName string) error {
	if err := c.record(true, "RenameFileGroup", database, oldName, newName); err != nil {
		return err
	}
	l := c.layouts[database]
	for i := range l.FileGroups {
		if l.FileGroups[i].Name == oldName {
			l.FileGroups[i].Name = newName
		}
	}
	return nil
}

func (c *fakeCatalog) RenameLogicalFile(_ context.Context, database, oldName, newName string) error {
	if err := c.record(true, "RenameLogicalFile", database, oldName, newName); err != nil {
		return err
	}
	c.eachFile(c.layouts[database], func(f *DataFile) {
		if f.LogicalName == oldName {
			f.LogicalName = newName
		}
	})
	return nil
}

func (c *fakeCatalog) SetFilePath(_ context.Context, database, logicalName, path string) error {
	if err := c.record(true, "SetFilePath", database, logicalName, path); err != nil {
		return err
	}
	c.eachFile(c.layouts[database], func(f *DataFile) {
		if f.LogicalName == logicalName {
			f.PhysicalName = path
		}
	})
	return nil
}

func (c *fakeCatalog) SetSingleUser(_ context.Context, database string) error {
	return c.record(true, "SetSingleUser", database)
}

func (c *fakeCatalog) SetMultiUser(_ context.Context, database string) error {
	return c.record(true, "SetMultiUser", database)
}

func (c *fakeCatalog) SetOffline(_ context.Context, database string) error {
	return c.record(true, "SetOffline", database)
}

func (c *fakeCatalog) SetOnline(_ context.Context, database string) error {
	return c.record(true, "SetOnline", database)
}

// fakeMover записывает перемещения в формате "source -> destination".
type fakeMover struct {
	target     MoveTarget
	resolveErr error
	resolved   []string
	moves      []string
	// failOn — ошибка перемещения по исходному пути.
	failOn map[string]error
}

func (m *fakeMover) ResolveTarget(_ context.Context, computerName string) (MoveTarget, error) {
	m.resolved = append(m.resolved, computerName)
	if m.resolveErr != nil {
		return MoveTarget{}, m.resolveErr
	}
	return m.target, nil
}

func (m *fakeMover) Move(_ context.Context, _ MoveTarget, source, destination string) error {
	if err := m.failOn[source]; err != nil {
		return err
	}
	m.moves = append(m.moves, source+" -> "+destination)
	return nil
}

// spyCollector считает вызовы метрик.
type spyCollector struct {
	mu        sync.Mutex
	renames   map[string]int
	databases map[string]int
}

func newSpyCollector() *spyCollector {
	return &spyCollector{renames: map[string]int{}, databases: map[string]int{}}
}

func (s *spyCollector) RecordCommandStart(string, string)                    {}
func (s *spyCollector) RecordCommandEnd(string, string, time.Duration, bool) {}
func (s *spyCollector) Push(context.Context) error                           { return nil }

func (s *spyCollector) RecordRename(level, outcome string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renames[level+"/"+outcome]++
}

func (s *spyCollector) RecordDatabase(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases[status]++
}

func testNow() time.Time {
	return time.Date(2017, 8, 7, 10, 30, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenamer(cat Catalog, mover FileMover, opts Options, options ...Option) *Renamer {
	opts.Now = testNow
	return NewRenamer(cat, mover, opts, append([]Option{WithLogger(discardLogger())}, options...)...)
}

func testServer() ServerInfo {
	return ServerInfo{ComputerName: "SQL01", InstanceName: "MSSQLSERVER", SqlInstance: "SQL01"}
}

func online(names ...string) []Database {
	dbs := make([]Database, 0, len(names))
	for _, n := range names {
		dbs = append(dbs, Database{Name: n, State: "ONLINE"})
	}
	return dbs
}

// hrCatalog — экземпляр с системными базами и базой HR из одного файла данных и журнала.
func hrCatalog() *fakeCatalog {
	return &fakeCatalog{
		info: testServer(),
		dbs:  online("master", "model", "msdb", "tempdb", "HR"),
		layouts: map[string]*Layout{
			"HR": {
				FileGroups: []FileGroup{
					{Name: "PRIMARY", Type: FileGroupRows, Files: []DataFile{{LogicalName: "HR", PhysicalName: `D:\Data\HR.mdf`}}},
				},
				LogFiles: []DataFile{{LogicalName: "HR_log", PhysicalName: `E:\Logs\HR_log.ldf`}},
			},
		},
		other: []string{`D:\Data\master.mdf`, `E:\Logs\mastlog.ldf`},
	}
}

// spyProgress запоминает шаги, переданные в Update.
type spyProgress struct {
	total    int64
	steps    []string
	finished bool
}

func (p *spyProgress) Start(string)                   {}
func (p *spyProgress) SetTotal(total int64)           { p.total = total }
func (p *spyProgress) Update(_ int64, message string) { p.steps = append(p.steps, message) }
func (p *spyProgress) Finish()                        { p.finished = true }
