// Package hostfstest предоставляет мок-реализации для пакета hostfs.
package hostfstest

import (
	"context"
	"sync"

	"github.com/Kargones/dbrename/internal/adapter/hostfs"
)

var _ hostfs.ScriptExecutor = (*MockExecutor)(nil)

// MockExecutor записывает выполненные скрипты.
type MockExecutor struct {
	mu      sync.Mutex
	Scripts []string
	// ExecuteFunc — пользовательская реализация. По умолчанию пустой вывод без ошибки.
	ExecuteFunc func(ctx context.Context, script string) (string, error)
}

// Execute записывает скрипт и вызывает ExecuteFunc.
func (m *MockExecutor) Execute(ctx context.Context, script string) (string, error) {
	m.mu.Lock()
	m.Scripts = append(m.Scripts, script)
	m.mu.Unlock()
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, script)
	}
	return "", nil
}

// NewMockExecutorWithError создаёт исполнитель, завершающий каждый скрипт ошибкой.
func NewMockExecutorWithError(err error) *MockExecutor {
	return &MockExecutor{
		ExecuteFunc: func(context.Context, string) (string, error) { return "", err },
	}
}
