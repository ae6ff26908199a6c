package proxy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionCounterSequential(t *testing.T) {
	c := NewSessionCounter(0)
	for want := uint64(1); want <= 100; want++ {
		require.Equal(t, want, c.Next())
	}
}

func TestSessionCounterWraps(t *testing.T) {
	c := NewSessionCounter(5)

	var got []uint64
	for range 8 {
		got = append(got, c.Next())
	}
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 1, 2, 3}, got)
}

func TestSessionCounterConcurrentDistinct(t *testing.T) {
	const workers, perWorker = 16, 500

	c := NewSessionCounter(0)

	var (
		mu   sync.Mutex
		seen = make(map[uint64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Go(func() {
			ids := make([]uint64, 0, perWorker)
			for range perWorker {
				ids = append(ids, c.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		})
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	_, zero := seen[0]
	require.False(t, zero)
}
