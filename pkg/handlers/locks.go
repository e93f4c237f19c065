package handlers

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// monthLocks serializes writers per facility month. A cell write with the
// night-rest cascade touches two cells, so concurrent writers on the same
// month must not interleave their load/save.
// An entry lives only while someone holds or waits for it.
type monthLocks struct {
	mu    sync.Mutex
	locks map[string]*monthLock
}

type monthLock struct {
	sem  *semaphore.Weighted
	refs int
}

func newMonthLocks() *monthLocks {
	return &monthLocks{locks: make(map[string]*monthLock)}
}

func (m *monthLocks) ref(key string) *monthLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[key]
	if !ok {
		l = &monthLock{sem: semaphore.NewWeighted(1)}
		m.locks[key] = l
	}
	l.refs++
	return l
}

func (m *monthLocks) unref(key string, l *monthLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}

// acquire blocks until the month is free or ctx is done
func (m *monthLocks) acquire(ctx context.Context, key string) (func(), error) {
	l := m.ref(key)
	if err := l.sem.Acquire(ctx, 1); err != nil {
		m.unref(key, l)
		return nil, err
	}
	return func() {
		l.sem.Release(1)
		m.unref(key, l)
	}, nil
}

func (m *monthLocks) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
