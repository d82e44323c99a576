package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_VisitsEveryItemOnce(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	var mu sync.Mutex
	seen := map[int]string{}
	err := Batch(context.Background(), items, 3, 0, func(_ context.Context, i int, item string) {
		mu.Lock()
		defer mu.Unlock()
		seen[i] = item
	})
	require.NoError(t, err)

	require.Len(t, seen, len(items))
	for i, item := range items {
		assert.Equal(t, item, seen[i])
	}
}

func TestBatch_WindowsRunSequentially(t *testing.T) {
	items := make([]int, 10)

	var running, maxRunning atomic.Int32
	var windowOf []int
	var mu sync.Mutex

	err := Batch(context.Background(), items, 4, 0, func(_ context.Context, i int, _ int) {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		windowOf = append(windowOf, i/4)
		mu.Unlock()
		running.Add(-1)
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, maxRunning.Load(), int32(4))
	// Completion order never goes back to an earlier window.
	for i := 1; i < len(windowOf); i++ {
		assert.GreaterOrEqual(t, windowOf[i], windowOf[i-1])
	}
}

func TestBatch_DelayBetweenWindowsOnly(t *testing.T) {
	items := make([]int, 3)
	delay := 30 * time.Millisecond

	start := time.Now()
	err := Batch(context.Background(), items, 1, delay, func(context.Context, int, int) {})
	require.NoError(t, err)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 2*delay)
	assert.Less(t, elapsed, 3*delay+time.Second)
}

func TestBatch_NonPositiveSize(t *testing.T) {
	var calls atomic.Int32
	err := Batch(context.Background(), []int{1, 2, 3}, 0, 0, func(context.Context, int, int) {
		calls.Add(1)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestBatch_CancelStopsNewWindows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	err := Batch(ctx, make([]int, 10), 2, time.Hour, func(context.Context, int, int) {
		if calls.Add(1) == 2 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 2, calls.Load())
}

func TestBatch_Empty(t *testing.T) {
	err := Batch(context.Background(), []int(nil), 5, time.Hour, func(context.Context, int, int) {
		t.Fatal("unexpected call")
	})
	assert.NoError(t, err)
}
