// Package lock provides per-account mutual exclusion for balance read-modify-write.
package lock

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a lock cannot be acquired before the deadline
var ErrLockTimeout = errors.New("lock acquisition timeout")

// accountMutex is a one-slot semaphore so acquisition can be cancelled
type accountMutex struct {
	sem      chan struct{}
	refCount int
}

// AccountLock hands out one mutex per account id. Entries are dropped once
// no goroutine holds or waits for them.
type AccountLock struct {
	mu    sync.Mutex
	locks map[int64]*accountMutex
}

// New creates an empty AccountLock
func New() *AccountLock {
	return &AccountLock{locks: make(map[int64]*accountMutex)}
}

func (l *AccountLock) acquireRef(accountID int64) *accountMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[accountID]
	if !ok {
		m = &accountMutex{sem: make(chan struct{}, 1)}
		l.locks[accountID] = m
	}
	m.refCount++
	return m
}

func (l *AccountLock) releaseRef(accountID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[accountID]
	if !ok {
		return
	}
	m.refCount--
	if m.refCount == 0 {
		delete(l.locks, accountID)
	}
}

// Lock blocks until the account's lock is held
func (l *AccountLock) Lock(accountID int64) {
	l.acquireRef(accountID).sem <- struct{}{}
}

// Unlock releases the account's lock. Unlocking an account that is not locked panics.
func (l *AccountLock) Unlock(accountID int64) {
	l.mu.Lock()
	m, ok := l.locks[accountID]
	l.mu.Unlock()
	if !ok {
		panic("lock: unlock of unlocked account")
	}
	<-m.sem
	l.releaseRef(accountID)
}

// TryLock acquires the lock only if it is free
func (l *AccountLock) TryLock(accountID int64) bool {
	m := l.acquireRef(accountID)
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		l.releaseRef(accountID)
		return false
	}
}

// LockContext waits for the lock until ctx is done
func (l *AccountLock) LockContext(ctx context.Context, accountID int64) error {
	m := l.acquireRef(accountID)
	select {
	case m.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		l.releaseRef(accountID)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return ctx.Err()
	}
}

// LockWithTimeout waits at most timeout for the lock
func (l *AccountLock) LockWithTimeout(ctx context.Context, accountID int64, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return l.LockContext(timeoutCtx, accountID)
}

// LockAll locks every distinct id in ascending order and returns the matching unlock.
// On cancellation the locks already taken are released.
func (l *AccountLock) LockAll(ctx context.Context, accountIDs ...int64) (func(), error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for i, id := range ids {
		if err := l.LockContext(ctx, id); err != nil {
			for j := i - 1; j >= 0; j-- {
				l.Unlock(ids[j])
			}
			return nil, err
		}
	}

	return func() {
		for j := len(ids) - 1; j >= 0; j-- {
			l.Unlock(ids[j])
		}
	}, nil
}

// WithLock runs fn while holding the account's lock
func (l *AccountLock) WithLock(accountID int64, fn func() error) error {
	l.Lock(accountID)
	defer l.Unlock(accountID)
	return fn()
}

// Tracked returns how many accounts currently have a holder or waiter
func (l *AccountLock) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
