package recalc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecalculator struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeRecalculator) RecalculateForward(_ context.Context, plantID string, year, month int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, plantID)
	_ = year
	_ = month
	return f.err
}

func (f *fakeRecalculator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestEnqueueRunsRecalculation(t *testing.T) {
	fake := &fakeRecalculator{}
	q := NewQueue(fake, 2, 16, testLogger())

	q.Enqueue("plant-1", 2025, 3)
	q.Enqueue("plant-2", 2025, 4)
	q.Shutdown()

	assert.Equal(t, 2, fake.callCount())
}

func TestEnqueueSurvivesFailures(t *testing.T) {
	fake := &fakeRecalculator{err: errors.New("boom")}
	q := NewQueue(fake, 1, 16, testLogger())

	// A failing job must not take down the pool or block later jobs.
	q.Enqueue("plant-1", 2025, 1)
	q.Enqueue("plant-1", 2025, 2)
	q.Shutdown()

	assert.Equal(t, 2, fake.callCount())
}

func TestEnqueueFullQueueDropsWithWarning(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{buf: &buf, mu: &mu}, nil))

	running := make(chan struct{})
	done := make(chan struct{})
	fake := &gatedRecalculator{running: running, unblock: done}
	q := NewQueue(fake, 1, 1, logger)

	// Occupy the single worker, fill the single queue slot, then
	// overflow it.
	q.Enqueue("plant-1", 2025, 1)
	<-running
	q.Enqueue("plant-1", 2025, 2)
	q.Enqueue("plant-1", 2025, 3)

	close(done)
	q.Shutdown()

	assert.Equal(t, int32(2), fake.runs.Load())

	mu.Lock()
	logged := buf.String()
	mu.Unlock()
	assert.Contains(t, logged, "recalculation dropped")
	assert.Contains(t, logged, "plant-1")
	assert.Contains(t, logged, "month=3")
}

type lockedWriter struct {
	buf *bytes.Buffer
	mu  *sync.Mutex
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

type gatedRecalculator struct {
	running chan struct{}
	unblock chan struct{}
	once    sync.Once
	runs    atomic.Int32
}

func (g *gatedRecalculator) RecalculateForward(context.Context, string, int, int) error {
	g.once.Do(func() { close(g.running) })
	<-g.unblock
	g.runs.Add(1)
	return nil
}

func TestShutdownWaitsForInflight(t *testing.T) {
	done := make(chan struct{})
	fake := &slowRecalculator{unblock: done}
	q := NewQueue(fake, 1, 16, testLogger())

	q.Enqueue("plant-1", 2025, 1)

	go func() {
		time.Sleep(50 * time.Millisecond)
		close(done)
	}()

	q.Shutdown()
	require.True(t, fake.finished.Load())
}

type slowRecalculator struct {
	unblock  chan struct{}
	finished atomic.Bool
}

func (s *slowRecalculator) RecalculateForward(context.Context, string, int, int) error {
	<-s.unblock
	s.finished.Store(true)
	return nil
}
