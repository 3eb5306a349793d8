package order

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_Sequential(t *testing.T) {
	seq := NewSequencer(1000)

	assert.Equal(t, int64(1000), seq.Next())
	assert.Equal(t, int64(1001), seq.Next())
	assert.Equal(t, int64(1002), seq.Next())
}

func TestSequencer_ConcurrentUniqueMonotonic(t *testing.T) {
	const (
		goroutines = 8
		perWorker  = 500
		start      = 1000
	)

	seq := NewSequencer(start)
	results := make(chan int64, goroutines*perWorker)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				results <- seq.Next()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, goroutines*perWorker)
	for n := range results {
		require.False(t, seen[n], "sequence number %d repeated", n)
		seen[n] = true
	}

	// exactly the consecutive integers [start, start+N*M)
	require.Len(t, seen, goroutines*perWorker)
	for i := int64(start); i < start+goroutines*perWorker; i++ {
		assert.True(t, seen[i], "sequence number %d missing", i)
	}
}
