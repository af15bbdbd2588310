package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

var fallbackCounter atomic.Uint64

// GenerateTraceID возвращает 32-символьный hex идентификатор (совместим с W3C trace-id).
func GenerateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		counter := fallbackCounter.Add(1)
		return fmt.Sprintf("%016x%016x", uint64(time.Now().UnixNano()), counter)
	}
	return hex.EncodeToString(b)
}

type traceIDKey struct{}

// WithTraceID сохраняет trace ID в контексте.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext возвращает trace ID из контекста или пустую строку.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
