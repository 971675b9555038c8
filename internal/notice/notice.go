// Package notice carries user-visible messages out of the core: validation
// warnings, connectivity failures, and backend-rejected requests. Nothing in
// the core is fatal; every failure degrades to a notice plus a consistent
// fallback state.
package notice

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Tone classifies a notice for presentation.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

// Notice is a single user-visible message.
type Notice struct {
	Tone    Tone   `json:"tone"`
	Message string `json:"message"`
}

// Notifier receives notices raised by the core.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, n Notice)

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Nop discards all notices.
var Nop Notifier = Func(func(context.Context, Notice) {})

type ctxKey struct{}

// NewContext attaches a notifier to the context. Core operations publish to
// the context notifier when present, so the HTTP layer can collect notices
// per request without the core holding ambient state.
func NewContext(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// FromContext returns the notifier attached to the context, or Nop.
func FromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok && n != nil {
		return n
	}
	return Nop
}

// Publish sends a notice to the context notifier.
func Publish(ctx context.Context, tone Tone, message string) {
	FromContext(ctx).Notify(ctx, Notice{Tone: tone, Message: message})
}

// Buffer accumulates notices for a single request.
type Buffer struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Notifier.
func (b *Buffer) Notify(_ context.Context, n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

// Drain returns the accumulated notices and resets the buffer.
func (b *Buffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// Logger mirrors every notice into a zap logger. Useful as a fallback when
// no request buffer is attached, and as a tee during request handling.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a Logger notifier.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

// Notify implements Notifier.
func (l *Logger) Notify(_ context.Context, n Notice) {
	switch n.Tone {
	case ToneError:
		l.log.Error(n.Message, zap.String("tone", string(n.Tone)))
	case ToneWarning:
		l.log.Warn(n.Message, zap.String("tone", string(n.Tone)))
	default:
		l.log.Info(n.Message, zap.String("tone", string(n.Tone)))
	}
}

// Tee fans a notice out to several notifiers.
func Tee(notifiers ...Notifier) Notifier {
	return Func(func(ctx context.Context, n Notice) {
		for _, notifier := range notifiers {
			if notifier != nil {
				notifier.Notify(ctx, n)
			}
		}
	})
}
