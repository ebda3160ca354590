// Package lock provides per-key mutual exclusion for balance operations.
// Operations on the same key are serialized; different keys never block
// each other.
package lock

import (
	"context"
	"sync"
	"time"
)

// keyMutex is a one-slot semaphore with a count of goroutines holding or
// waiting for it. The entry is dropped from the map when the count hits zero.
type keyMutex struct {
	sem  chan struct{}
	refs int
}

// KeyLock hands out one mutex per key.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyMutex
}

// NewKeyLock creates a new KeyLock instance.
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyMutex)}
}

// acquire registers interest in key and returns its mutex.
func (kl *KeyLock) acquire(key string) *keyMutex {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	m, ok := kl.locks[key]
	if !ok {
		m = &keyMutex{sem: make(chan struct{}, 1)}
		kl.locks[key] = m
	}
	m.refs++
	return m
}

// release drops interest in key.
func (kl *KeyLock) release(key string, m *keyMutex) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	m.refs--
	if m.refs == 0 {
		delete(kl.locks, key)
	}
}

// Lock blocks until the lock for key is held.
func (kl *KeyLock) Lock(key string) {
	m := kl.acquire(key)
	m.sem <- struct{}{}
}

// Unlock releases the lock for key. Unlocking a key that is not held is a no-op.
func (kl *KeyLock) Unlock(key string) {
	kl.mu.Lock()
	m, ok := kl.locks[key]
	kl.mu.Unlock()
	if !ok {
		return
	}

	select {
	case <-m.sem:
		kl.release(key, m)
	default:
	}
}

// TryLock attempts to acquire the lock without blocking.
func (kl *KeyLock) TryLock(key string) bool {
	m := kl.acquire(key)
	select {
	case m.sem <- struct{}{}:
		return true
	default:
		kl.release(key, m)
		return false
	}
}

// LockContext waits for the lock until ctx is done or timeout elapses.
// A zero timeout waits on ctx alone. Returns ErrLockTimeout on timeout and
// ctx.Err() if the caller's context ends first.
func (kl *KeyLock) LockContext(ctx context.Context, key string, timeout time.Duration) error {
	m := kl.acquire(key)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case m.sem <- struct{}{}:
		return nil
	case <-waitCtx.Done():
		kl.release(key, m)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockTimeout
	}
}

// WithLock executes fn while holding the lock for key.
func (kl *KeyLock) WithLock(key string, fn func() error) error {
	kl.Lock(key)
	defer kl.Unlock(key)
	return fn()
}

// WithLockContext executes fn while holding the lock for key, giving up
// if the lock is not obtained within timeout.
func (kl *KeyLock) WithLockContext(ctx context.Context, key string, timeout time.Duration, fn func() error) error {
	if err := kl.LockContext(ctx, key, timeout); err != nil {
		return err
	}
	defer kl.Unlock(key)
	return fn()
}

// IsLocked reports whether key is currently held.
// The answer may be stale by the time the caller reads it.
func (kl *KeyLock) IsLocked(key string) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	m, ok := kl.locks[key]
	return ok && len(m.sem) == 1
}

// Len returns the number of keys with a holder or waiter.
func (kl *KeyLock) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.locks)
}
