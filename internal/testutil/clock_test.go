package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_StartsAtZero(t *testing.T) {
	clock := NewClock()
	assert.Equal(t, int64(0), clock.Current())
}

func TestClock_NextIncrementsMonotonically(t *testing.T) {
	clock := NewClock()

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(3), clock.Next())
	assert.Equal(t, int64(3), clock.Current())
}

func TestClock_Reset(t *testing.T) {
	clock := NewClock()
	clock.Next()
	clock.Next()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
}

func TestClock_ConcurrentNext(t *testing.T) {
	clock := NewClock()

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	seen := make([][]int64, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				seen[g] = append(seen[g], clock.Next())
			}
		}(g)
	}
	wg.Wait()

	// All values distinct, and the final count is exact.
	unique := make(map[int64]bool)
	for _, vals := range seen {
		for _, v := range vals {
			assert.False(t, unique[v], "duplicate seq %d", v)
			unique[v] = true
		}
	}
	assert.Len(t, unique, goroutines*perGoroutine)
	assert.Equal(t, int64(goroutines*perGoroutine), clock.Current())
}
