package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthLocks_SameMonthBlocks(t *testing.T) {
	locks := newMonthLocks()

	release, err := locks.acquire(context.Background(), "fac/2024-01")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, "fac/2024-01")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// a different month is independent
	other, err := locks.acquire(context.Background(), "fac/2024-02")
	require.NoError(t, err)
	other()

	release()
	again, err := locks.acquire(context.Background(), "fac/2024-01")
	require.NoError(t, err)
	again()
}

func TestMonthLocks_EntriesDroppedWhenIdle(t *testing.T) {
	locks := newMonthLocks()

	release, err := locks.acquire(context.Background(), "fac/2024-01")
	require.NoError(t, err)
	assert.Equal(t, 1, locks.size())

	// a waiter that gives up does not leave anything behind
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, "fac/2024-01")
	require.Error(t, err)
	assert.Equal(t, 1, locks.size())

	// a queued waiter keeps the entry alive after the holder leaves
	acquired := make(chan func())
	go func() {
		next, err := locks.acquire(context.Background(), "fac/2024-01")
		if err == nil {
			acquired <- next
		}
	}()
	release()
	next := <-acquired
	assert.Equal(t, 1, locks.size())

	next()
	assert.Equal(t, 0, locks.size())
}
