package composer

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComposer_ArrivalOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string

	c := New("test", time.Millisecond, zap.NewNop(), func(msg string) {
		// stall the worker on the first item so the rest of the batch is
		// already queued when it resumes
		if msg == "A" {
			time.Sleep(20 * time.Millisecond)
		}
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
	})

	c.Enqueue("A")
	c.Enqueue("B")
	c.Enqueue("C")

	require.Eventually(t, func() bool {
		return c.Processed() == 3
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A", "B", "C"}, got)

	c.Stop()
}

func TestComposer_StopDrainsQueue(t *testing.T) {
	var processed atomic.Int64

	c := New("test", 50*time.Millisecond, zap.NewNop(), func(int) {
		processed.Add(1)
	})

	for i := 0; i < 100; i++ {
		c.Enqueue(i)
	}
	c.Stop()

	assert.Equal(t, int64(100), processed.Load())
}

func TestComposer_DropsAfterStop(t *testing.T) {
	c := New("test", time.Millisecond, zap.NewNop(), func(int) {})
	c.Stop()

	c.Enqueue(1)
	assert.Equal(t, int64(1), c.dropped.Load())
	assert.Zero(t, c.Processed())
}

func TestComposer_SingleActiveConsumer(t *testing.T) {
	var active atomic.Int32
	var overlapped atomic.Bool

	c := New("test", time.Millisecond, zap.NewNop(), func(int) {
		if active.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
	})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				c.Enqueue(i)
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return c.Processed() == 40
	}, 5*time.Second, 10*time.Millisecond)
	c.Stop()

	assert.False(t, overlapped.Load())
}
