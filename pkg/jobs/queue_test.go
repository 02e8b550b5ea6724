package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	payloads []string
	failures int
}

func (r *recorder) handle(_ context.Context, job Job[string]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("transient")
	}
	r.payloads = append(r.payloads, job.Payload)
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.payloads...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestQueueDispatchesPayloads(t *testing.T) {
	rec := &recorder{}
	q := NewQueue("test", rec.handle, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "1", Payload: "a"}))
	require.NoError(t, q.Enqueue(Job[string]{ID: "2", Payload: "b"}))

	waitFor(t, func() bool { return len(rec.seen()) == 2 })
	assert.ElementsMatch(t, []string{"a", "b"}, rec.seen())
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	rec := &recorder{failures: 1}
	q := NewQueue("test", rec.handle, QueueConfig{Workers: 1, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "1", Payload: "a"}))

	waitFor(t, func() bool { return len(rec.seen()) == 1 })
	assert.Equal(t, []string{"a"}, rec.seen())
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", (&recorder{}).handle, QueueConfig{})

	err := q.Enqueue(Job[string]{ID: "1", Payload: "a"})
	require.Error(t, err)
}
