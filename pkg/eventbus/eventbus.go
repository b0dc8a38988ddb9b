package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultHandlerTimeout bounds a single listener call.
const DefaultHandlerTimeout = time.Minute

type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// Bus delivers events to listeners in background goroutines.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   DefaultHandlerTimeout,
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish never blocks on listeners. Listener errors and panics are logged.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	listeners := b.listeners[event.Name()]
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.wg.Add(1)
		go b.dispatch(context.WithoutCancel(ctx), listener, event)
	}
}

func (b *Bus) dispatch(parent context.Context, l Listener, event Event) {
	defer b.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("event listener panicked", zap.String("event", event.Name()), zap.Any("panic", p))
		}
	}()

	ctx, cancel := context.WithTimeout(parent, b.timeout)
	defer cancel()

	if err := l(ctx, event); err != nil {
		b.logger.Error("event listener failed",
			zap.String("event", event.Name()),
			zap.Error(err),
		)
	}
}

// Wait blocks until in-flight listeners finish or ctx is done.
func (b *Bus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
