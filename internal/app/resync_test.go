package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/blockext/internal/extension"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fails int
	snap  extension.Snapshot
}

func (f *fakeFetcher) FetchSnapshot(context.Context) (extension.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return extension.Snapshot{}, errors.New("connection refused")
	}
	return f.snap, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startResyncer(t *testing.T, f *fakeFetcher) (*resyncer, <-chan extension.Message) {
	t.Helper()
	applied := make(chan extension.Message, 8)
	r := newResyncer(f, func(m extension.Message) { applied <- m }, discardLogger(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return r, applied
}

func TestResyncer_AppliesSnapshotOnRequest(t *testing.T) {
	f := &fakeFetcher{snap: extension.Snapshot{Fixed: []string{"exe"}, Custom: []string{"sh"}, Count: 1}}
	r, applied := startResyncer(t, f)

	r.Request()

	select {
	case m := <-applied:
		require.Equal(t, extension.KindSnapshot, m.Kind)
		assert.Equal(t, f.snap, m.Snapshot)
	case <-time.After(time.Second):
		t.Fatal("snapshot not applied")
	}
}

func TestResyncer_RetriesUntilSuccess(t *testing.T) {
	f := &fakeFetcher{fails: 2, snap: extension.Snapshot{Count: 3}}
	r, applied := startResyncer(t, f)

	r.Request()

	select {
	case m := <-applied:
		assert.Equal(t, 3, m.Snapshot.Count)
	case <-time.After(time.Second):
		t.Fatal("snapshot not applied after retries")
	}
	assert.Equal(t, 3, f.callCount())
}

func TestResyncer_RequestDoesNotBlock(t *testing.T) {
	r := newResyncer(&fakeFetcher{}, func(extension.Message) {}, discardLogger(), time.Millisecond)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			r.Request()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Request blocked without a running loop")
	}
	assert.Len(t, r.trigger, 1)
}
