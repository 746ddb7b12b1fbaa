package exports

import (
	"context"
	"sync"
)

// Lock coordinates exclusive worker runs.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// MutexLock is the single-process lock: the worker runs as one instance, so
// a try-lock mutex is enough to keep overlapping cycles from stacking up.
type MutexLock struct {
	mu sync.Mutex
}

// NewMutexLock constructs an in-process lock.
func NewMutexLock() *MutexLock {
	return &MutexLock{}
}

// Acquire tries to own the lock without blocking.
func (l *MutexLock) Acquire(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

// Release frees the lock.
func (l *MutexLock) Release(context.Context) error {
	l.mu.Unlock()
	return nil
}
