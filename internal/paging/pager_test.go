package paging

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numberPages serves total items in pages of pageSize, cursors are item offsets.
func numberPages(total int, calls *atomic.Int32) FetchFunc[int] {
	return func(_ context.Context, cursor string, pageSize int) (Page[int], error) {
		if calls != nil {
			calls.Add(1)
		}
		start := 0
		if cursor != "" {
			start, _ = strconv.Atoi(cursor)
		}
		end := min(start+pageSize, total)
		items := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			items = append(items, i)
		}
		page := Page[int]{Items: items, HasMore: end < total}
		if page.HasMore {
			page.NextCursor = strconv.Itoa(end)
		}
		return page, nil
	}
}

func TestPager_LoadsPagesUntilEnd(t *testing.T) {
	var calls atomic.Int32
	p := New(context.Background(), 2, numberPages(5, &calls))
	defer p.Close()

	snap, err := p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, snap.Items)
	assert.False(t, snap.EndReached)

	_, err = p.LoadNext(context.Background())
	require.NoError(t, err)
	snap, err = p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, snap.Items)
	assert.Equal(t, 3, snap.Pages)
	assert.True(t, snap.EndReached)

	// No fetch once the end is reached.
	_, err = p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestPager_EmptyResult(t *testing.T) {
	p := New(context.Background(), 10, numberPages(0, nil))
	defer p.Close()

	snap, err := p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.True(t, snap.EndReached)
	assert.Equal(t, StateNotLoading, snap.Refresh.State)
}

func TestPager_AppendErrorKeepsEarlierPages(t *testing.T) {
	boom := errors.New("connection reset")
	fail := true
	base := numberPages(6, nil)
	p := New(context.Background(), 3, func(ctx context.Context, cursor string, size int) (Page[int], error) {
		if cursor != "" && fail {
			return Page[int]{}, boom
		}
		return base(ctx, cursor, size)
	})
	defer p.Close()

	_, err := p.LoadNext(context.Background())
	require.NoError(t, err)

	snap, err := p.LoadNext(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{0, 1, 2}, snap.Items)
	assert.Equal(t, StateError, snap.Append.State)
	assert.Equal(t, StateNotLoading, snap.Refresh.State)
	assert.ErrorIs(t, snap.Err(), boom)

	fail = false
	snap, err = p.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, snap.Items)
	assert.Equal(t, StateNotLoading, snap.Append.State)
	assert.NoError(t, snap.Err())
}

func TestPager_RetryWithoutFailureIsNoop(t *testing.T) {
	var calls atomic.Int32
	p := New(context.Background(), 2, numberPages(4, &calls))
	defer p.Close()

	_, err := p.Retry(context.Background())
	require.NoError(t, err)
	assert.Zero(t, calls.Load())
}

func TestPager_RejectsConcurrentLoad(t *testing.T) {
	release := make(chan struct{})
	p := New(context.Background(), 2, func(ctx context.Context, _ string, _ int) (Page[int], error) {
		<-release
		return Page[int]{Items: []int{1}}, nil
	})
	defer p.Close()

	done := make(chan error, 1)
	go func() {
		_, err := p.LoadNext(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return p.Snapshot().Loading() }, time.Second, time.Millisecond)

	_, err := p.LoadNext(context.Background())
	assert.ErrorIs(t, err, ErrLoadInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []int{1}, p.Snapshot().Items)
}

func TestPager_CloseDiscardsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	p := New(context.Background(), 2, func(ctx context.Context, _ string, _ int) (Page[int], error) {
		close(started)
		<-ctx.Done()
		// A stale fetch that ignores cancellation and still returns data.
		return Page[int]{Items: []int{42}}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := p.LoadNext(context.Background())
		done <- err
	}()
	<-started
	p.Close()

	err := <-done
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.Snapshot().Items)
	assert.True(t, p.Closed())

	_, err = p.LoadNext(context.Background())
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestPager_CallerCancelIsNotAFailure(t *testing.T) {
	p := New(context.Background(), 2, func(ctx context.Context, _ string, _ int) (Page[int], error) {
		<-ctx.Done()
		return Page[int]{}, ctx.Err()
	})
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for !p.Snapshot().Loading() {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	snap, err := p.LoadNext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateNotLoading, snap.Refresh.State)
	assert.NoError(t, snap.Err())
}

func TestPager_RefreshKeepsItemsUntilFirstPageArrives(t *testing.T) {
	version := 0
	release := make(chan struct{}, 1)
	p := New(context.Background(), 2, func(ctx context.Context, cursor string, _ int) (Page[int], error) {
		if version > 0 {
			<-release
		}
		if cursor == "" {
			return Page[int]{Items: []int{version*10 + 1, version*10 + 2}, NextCursor: "2", HasMore: true}, nil
		}
		return Page[int]{Items: []int{version*10 + 3}}, nil
	})
	defer p.Close()

	_, err := p.LoadNext(context.Background())
	require.NoError(t, err)
	_, err = p.LoadNext(context.Background())
	require.NoError(t, err)

	version = 1
	done := make(chan Snapshot[int], 1)
	go func() {
		snap, _ := p.Refresh(context.Background())
		done <- snap
	}()

	require.Eventually(t, func() bool { return p.Snapshot().Refresh.State == StateLoading }, time.Second, time.Millisecond)
	assert.Equal(t, []int{1, 2, 3}, p.Snapshot().Items)
	assert.False(t, p.Snapshot().EndReached)

	release <- struct{}{}
	snap := <-done
	assert.Equal(t, []int{11, 12}, snap.Items)
	assert.Equal(t, 1, snap.Pages)
}

func TestPager_RefreshErrorKeepsOldItems(t *testing.T) {
	boom := errors.New("offline")
	fail := false
	p := New(context.Background(), 2, func(_ context.Context, _ string, _ int) (Page[int], error) {
		if fail {
			return Page[int]{}, boom
		}
		return Page[int]{Items: []int{7}}, nil
	})
	defer p.Close()

	_, err := p.LoadNext(context.Background())
	require.NoError(t, err)

	fail = true
	snap, err := p.Refresh(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{7}, snap.Items)
	assert.Equal(t, StateError, snap.Refresh.State)

	fail = false
	snap, err = p.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{7}, snap.Items)
	assert.Equal(t, StateNotLoading, snap.Refresh.State)
	assert.True(t, snap.EndReached)
}

func TestPager_Subscribe(t *testing.T) {
	p := New(context.Background(), 2, numberPages(2, nil))

	ch, detach := p.Subscribe()
	defer detach()

	initial := <-ch
	assert.Empty(t, initial.Items)

	_, err := p.LoadNext(context.Background())
	require.NoError(t, err)

	latest := <-ch
	assert.Equal(t, []int{0, 1}, latest.Items)

	p.Close()
	_, ok := <-ch
	assert.False(t, ok)
}
