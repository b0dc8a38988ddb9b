package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestPublishDeliversToAllListeners(t *testing.T) {
	bus := New(zap.NewNop())
	var calls atomic.Int32

	bus.Subscribe("ping", func(context.Context, Event) error { calls.Add(1); return nil })
	bus.Subscribe("ping", func(context.Context, Event) error { calls.Add(1); return errors.New("smtp down") })
	bus.Subscribe("ping", func(context.Context, Event) error { panic("boom") })
	bus.Subscribe("other", func(context.Context, Event) error { calls.Add(100); return nil })

	bus.Publish(context.Background(), pingEvent{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Wait(ctx))
	assert.EqualValues(t, 2, calls.Load())
}

func TestListenerOutlivesCancelledRequest(t *testing.T) {
	bus := New(zap.NewNop())
	got := make(chan error, 1)
	bus.Subscribe("ping", func(ctx context.Context, _ Event) error {
		got <- ctx.Err()
		return nil
	})

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(reqCtx, pingEvent{})

	select {
	case err := <-got:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener not called")
	}
}
