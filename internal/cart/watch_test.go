package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/agri-market-backend/internal/infrastructure/logger"
)

func recv(t *testing.T, ch <-chan Cart) Cart {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cart delivery")
		return Cart{}
	}
}

func assertQuiet(t *testing.T, ch <-chan Cart) {
	t.Helper()
	select {
	case c := <-ch:
		t.Fatalf("unexpected delivery of version %d", c.Version)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_WatchDeliversSnapshotThenUpdates(t *testing.T) {
	repo := NewInMemoryRepository()
	w := NewWatcher(repo, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan Cart, 8)
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, "u1", func(c Cart) { got <- c }) }()

	first := recv(t, got)
	assert.True(t, first.IsEmpty())

	c, err := repo.Update(context.Background(), "u1", Add(Item{ID: "p1", Price: d("10")}, 1))
	require.NoError(t, err)
	w.Publish(c)
	assert.Equal(t, int64(1), recv(t, got).Version)

	w.Publish(first)
	assertQuiet(t, got)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	c, _ = repo.Update(context.Background(), "u1", Clear())
	w.Publish(c)
	assertQuiet(t, got)
}

func TestWatcher_CoalescesToLatest(t *testing.T) {
	w := NewWatcher(NewInMemoryRepository(), logger.Discard())
	gate := make(chan struct{})
	got := make(chan Cart, 8)
	unsubscribe := w.Subscribe("u1", func(c Cart) {
		got <- c
		<-gate
	})
	defer unsubscribe()

	w.Publish(Cart{UserID: "u1", Version: 1})
	assert.Equal(t, int64(1), recv(t, got).Version)

	w.Publish(Cart{UserID: "u1", Version: 2})
	w.Publish(Cart{UserID: "u1", Version: 3})
	w.Publish(Cart{UserID: "u1", Version: 2})
	close(gate)

	assert.Equal(t, int64(3), recv(t, got).Version)
	assertQuiet(t, got)
}

func TestWatcher_UnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	w := NewWatcher(NewInMemoryRepository(), logger.Discard())
	got := make(chan Cart, 8)
	unsubscribe := w.Subscribe("u1", func(c Cart) { got <- c })
	otherUser := make(chan Cart, 8)
	defer w.Subscribe("u2", func(c Cart) { otherUser <- c })()

	w.Publish(Cart{UserID: "u1", Version: 1})
	recv(t, got)

	unsubscribe()
	unsubscribe()
	w.Publish(Cart{UserID: "u1", Version: 2})
	assertQuiet(t, got)
	assertQuiet(t, otherUser)
}

type failingReader struct{ err error }

func (r failingReader) Get(context.Context, string) (Cart, error) { return Cart{}, r.err }

func TestWatcher_WatchReleasesOnInitialLoadError(t *testing.T) {
	down := errors.New("down")
	w := NewWatcher(failingReader{err: down}, logger.Discard())

	got := make(chan Cart, 1)
	err := w.Watch(context.Background(), "u1", func(c Cart) { got <- c })
	assert.ErrorIs(t, err, down)
	assert.Empty(t, w.Subscribed())

	w.Publish(Cart{UserID: "u1", Version: 1})
	assertQuiet(t, got)
}
