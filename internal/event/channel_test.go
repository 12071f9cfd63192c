package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestChannel_BuffersUntilObserved(t *testing.T) {
	c := New[string](4)
	require.NoError(t, c.Emit(context.Background(), "a"))
	require.NoError(t, c.Emit(context.Background(), "b"))
	assert.Equal(t, 2, c.Pending())

	ctx, cancel := context.WithCancel(context.Background())
	var got []string
	err := c.Observe(ctx, func(e string) {
		got = append(got, e)
		if len(got) == 2 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Zero(t, c.Pending())
}

func TestChannel_NoRedeliveryToLaterObserver(t *testing.T) {
	c := New[int](4)
	require.NoError(t, c.Emit(context.Background(), 1))

	v, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChannel_SingleObserver(t *testing.T) {
	c := New[int](1)
	ctx, cancel := context.WithCancel(context.Background())

	attached := make(chan struct{})
	require.NoError(t, c.Emit(context.Background(), 0))
	done := make(chan error, 1)
	go func() {
		done <- c.Observe(ctx, func(int) { close(attached) })
	}()
	<-attached

	_, err := c.Next(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyObserved)
	assert.ErrorIs(t, c.Observe(context.Background(), func(int) {}), ErrAlreadyObserved)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The slot is free again after the first observer detached.
	require.NoError(t, c.Emit(context.Background(), 5))
	v, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestChannel_EmitBlocksWhenFull(t *testing.T) {
	c := New[int](1)
	require.NoError(t, c.Emit(context.Background(), 1))
	assert.False(t, c.TryEmit(2))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Emit(ctx, 2), context.DeadlineExceeded)

	unblocked := make(chan error, 1)
	go func() { unblocked <- c.Emit(context.Background(), 3) }()

	v, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, <-unblocked)

	v, err = c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestChannel_ConcurrentEmittersDeliverEachOnce(t *testing.T) {
	const emitters, perEmitter = 8, 50
	c := New[int](4)

	var wg sync.WaitGroup
	for i := 0; i < emitters; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < perEmitter; j++ {
				_ = c.Emit(context.Background(), base*perEmitter+j)
			}
		}(i)
	}

	seen := make(map[int]int)
	ctx, cancel := context.WithCancel(context.Background())
	err := c.Observe(ctx, func(e int) {
		seen[e]++
		if len(seen) == emitters*perEmitter {
			cancel()
		}
	})
	wg.Wait()

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, seen, emitters*perEmitter)
	for e, n := range seen {
		assert.Equal(t, 1, n, "event %d", e)
	}
}

// Across any interleaving of emits and observer sessions, events come out in
// emission order with nothing lost or duplicated.
func TestChannel_FIFOProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New[int](64)
		var emitted, delivered []int
		next := 0

		ops := rapid.IntRange(1, 60).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			if rapid.Bool().Draw(t, "emit") {
				if err := c.Emit(context.Background(), next); err != nil {
					t.Fatalf("emit: %v", err)
				}
				emitted = append(emitted, next)
				next++
				continue
			}
			take := rapid.IntRange(0, c.Pending()).Draw(t, "take")
			for j := 0; j < take; j++ {
				v, err := c.Next(context.Background())
				if err != nil {
					t.Fatalf("next: %v", err)
				}
				delivered = append(delivered, v)
			}
		}
		for c.Pending() > 0 {
			v, _ := c.Next(context.Background())
			delivered = append(delivered, v)
		}

		if len(delivered) != len(emitted) {
			t.Fatalf("delivered %d of %d events", len(delivered), len(emitted))
		}
		for i := range emitted {
			if emitted[i] != delivered[i] {
				t.Fatalf("position %d: emitted %d, delivered %d", i, emitted[i], delivered[i])
			}
		}
	})
}
