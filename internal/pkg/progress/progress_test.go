package progress

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressInterface(_ *testing.T) {
	var _ Progress = (*TTYProgress)(nil)
	var _ Progress = (*NonTTYProgress)(nil)
	var _ Progress = (*NoopProgress)(nil)
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "progress")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f), "обычный файл не является терминалом")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		show     string
		format   string
		wantType Progress
	}{
		{"отключён явно", "false", "", &NoopProgress{}},
		{"json вывод", "", "json", &NoopProgress{}},
		{"yaml вывод", "", "yaml", &NoopProgress{}},
		{"не терминал", "", "text", &NonTTYProgress{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BR_SHOW_PROGRESS", tt.show)
			t.Setenv("BR_OUTPUT_FORMAT", tt.format)
			p := New(Options{Total: 3, Output: &bytes.Buffer{}}, nil)
			assert.IsType(t, tt.wantType, p)
		})
	}
}

func TestTTYProgress_Draw(t *testing.T) {
	var buf bytes.Buffer
	p := NewTTYProgress(Options{Total: 4, Output: &buf})

	p.Start("Переименование баз")
	p.Update(2, "HR")
	p.Finish()

	out := buf.String()
	assert.Contains(t, out, "2/4 50% | HR")
	assert.Contains(t, out, "4/4 100%")
	assert.Contains(t, out, "["+strings.Repeat("=", barWidth)+"]")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTTYProgress_Throttle(t *testing.T) {
	var buf bytes.Buffer
	p := NewTTYProgress(Options{Total: 10, Output: &buf, ThrottleInterval: time.Hour})

	p.Start("")
	p.Update(1, "A")
	assert.NotContains(t, buf.String(), "1/10", "промежуточный шаг пропускается при throttling")

	p.Update(10, "J")
	assert.Contains(t, buf.String(), "10/10", "последний шаг рисуется всегда")
}

func TestTTYProgress_ETA(t *testing.T) {
	var buf bytes.Buffer
	p := NewTTYProgress(Options{Total: 3, Output: &buf, ShowETA: true})
	p.Start("")
	p.startTime = time.Now().Add(-10 * time.Second)
	p.Update(1, "")

	assert.Contains(t, buf.String(), "ETA: 20s")
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat(" ", barWidth)+"]", renderBar(0))
	half := renderBar(50)
	assert.Equal(t, barWidth/2, strings.Count(half, "="))
	assert.Contains(t, half, ">")
}

func TestNonTTYProgress_LogsEveryStep(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	p := NewNonTTYProgress(Options{}, log)

	p.SetTotal(2)
	p.Start("Переименование баз")
	p.Update(1, "HR")
	p.Update(2, "Sales")
	p.Finish()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "Прогресс операции"))
	assert.Contains(t, out, "message=HR")
	assert.Contains(t, out, "current=2 total=2")
	assert.Contains(t, out, "Операция завершена")
}

func TestNoopProgress(t *testing.T) {
	p := NewNoOp()
	assert.NotPanics(t, func() {
		p.Start("x")
		p.SetTotal(1)
		p.Update(1, "x")
		p.Finish()
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m"},
		{5*time.Minute + 30*time.Second, "5m 30s"},
		{time.Hour + 7*time.Minute, "1h 7m"},
		{time.Hour + 7*time.Minute + 3*time.Second, "1h 7m 3s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}
