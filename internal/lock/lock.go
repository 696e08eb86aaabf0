// Package lock serialises auto-assign runs so two concurrent requests cannot
// both read the same load snapshot.
package lock

import (
	"context"
	"errors"
	"sync"
)

var ErrHeld = errors.New("lock held by another run")

// Release gives the lock back. It is safe to call once.
type Release func(ctx context.Context) error

type Locker interface {
	// Acquire returns ErrHeld without blocking when another run holds the lock.
	Acquire(ctx context.Context) (Release, error)
}

// Local is a process-wide lock for single-instance deployments.
type Local struct {
	mu sync.Mutex
}

func (l *Local) Acquire(ctx context.Context) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.mu.TryLock() {
		return nil, ErrHeld
	}
	var once sync.Once
	return func(context.Context) error {
		once.Do(l.mu.Unlock)
		return nil
	}, nil
}
