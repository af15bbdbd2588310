package hostfs

import "os"

// SetFileOps подменяет файловые операции Mover в тестах.
func (m *Mover) SetFileOps(rename func(string, string) error, stat func(string) (os.FileInfo, error)) {
	m.rename = rename
	m.stat = stat
}

// SetHostname подменяет определение имени хоста в тестах.
func (m *Mover) SetHostname(fn func() (string, error)) {
	m.hostname = fn
}

var (
	PsQuote        = psQuote
	MoveItemScript = moveItemScript
)
