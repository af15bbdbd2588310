// Package testutil содержит общие утилиты для тестирования.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// CaptureStdout выполняет fn, перехватывая os.Stdout, и возвращает вывод.
// Pipe вычитывается параллельно, поэтому объём вывода не ограничен буфером pipe.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stdout")

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r) //nolint:errcheck // test helper
		done <- buf.String()
	}()

	oldStdout := os.Stdout
	os.Stdout = w
	func() {
		defer func() { os.Stdout = oldStdout }()
		fn()
	}()

	require.NoError(t, w.Close())
	out := <-done
	require.NoError(t, r.Close())
	return out
}
