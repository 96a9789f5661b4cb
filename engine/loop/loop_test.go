package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainRunsInOrder(t *testing.T) {
	q := NewQueue(4)
	var got []int
	for i := range 3 {
		require.True(t, q.Post(func() { got = append(got, i) }))
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Zero(t, q.Drain())
}

func TestDrainRunsNestedPosts(t *testing.T) {
	q := NewQueue(0)
	var got []string
	q.Post(func() {
		got = append(got, "outer")
		q.Post(func() { got = append(got, "inner") })
	})
	assert.Equal(t, 2, q.Drain())
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestPostAfterClose(t *testing.T) {
	q := NewQueue(1)
	q.Post(func() {})
	q.Close()
	q.Close()
	assert.False(t, q.Post(func() {}))
	assert.Zero(t, q.Len())
	assert.False(t, q.Post(nil))

	select {
	case <-q.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestRunDrainsConcurrentPosts(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	count := 0
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Post(func() {
				count++
				if count == 10 {
					q.Close()
				}
			})
		}()
	}

	require.NoError(t, q.Run(ctx))
	wg.Wait()
	assert.Equal(t, 10, count)
}

func TestRunStopsOnCancel(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Run(ctx), context.Canceled)
}
