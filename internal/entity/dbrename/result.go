package dbrename

// DatabaseResult — итог обработки одной базы.
type DatabaseResult struct {
	ComputerName string `json:"computer_name" yaml:"computer_name"`
	InstanceName string `json:"instance_name" yaml:"instance_name"`
	SqlInstance  string `json:"sql_instance" yaml:"sql_instance"`
	// Database — имя базы после обработки.
	Database         string `json:"database" yaml:"database"`
	OriginalDatabase string `json:"original_database" yaml:"original_database"`

	DatabaseRenames    string `json:"database_renames" yaml:"database_renames"`
	FileGroupsRenames  string `json:"filegroups_renames" yaml:"filegroups_renames"`
	LogicalNameRenames string `json:"logical_name_renames" yaml:"logical_name_renames"`
	FileNameRenames    string `json:"filename_renames" yaml:"filename_renames"`

	PendingRenames []PendingMove `json:"pending_renames" yaml:"pending_renames"`
	Status         Status        `json:"status" yaml:"status"`
	Notes          []string      `json:"notes,omitempty" yaml:"notes,omitempty"`

	Renames *RenameMaps `json:"renames" yaml:"renames"`
}

// finalize удаляет тождественные записи и заполняет строковые представления карт.
func (r *DatabaseResult) finalize() {
	r.Renames.Prune()
	r.DatabaseRenames = r.Renames.Database.String()
	r.FileGroupsRenames = r.Renames.FileGroup.String()
	r.LogicalNameRenames = r.Renames.LogicalFile.String()
	r.FileNameRenames = r.Renames.PhysicalFile.String()
	if r.PendingRenames == nil {
		r.PendingRenames = []PendingMove{}
	}
}

func (r *DatabaseResult) partial(note string) {
	r.Status = StatusPartial
	r.Notes = append(r.Notes, note)
}

// Report — результат выполнения по всем базам.
type Report struct {
	Server    ServerInfo        `json:"server" yaml:"server"`
	Preview   bool              `json:"preview" yaml:"preview"`
	Databases []DatabaseResult  `json:"databases" yaml:"databases"`
	Skipped   []SkippedDatabase `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Counts возвращает количество баз в статусах FULL и PARTIAL.
func (r *Report) Counts() (full, partial int) {
	for _, db := range r.Databases {
		if db.Status == StatusFull {
			full++
		} else {
			partial++
		}
	}
	return full, partial
}

// HasPartial возвращает true, если хотя бы одна база обработана не полностью.
func (r *Report) HasPartial() bool {
	_, partial := r.Counts()
	return partial > 0
}
