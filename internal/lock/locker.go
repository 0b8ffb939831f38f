// Package lock serializes work on a single key across requests.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when the key stays held for the whole wait window.
var ErrBusy = errors.New("lock is held by another request")

// Locker hands out exclusive, advisory locks keyed by string.
// The returned release func is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LocalLocker is an in-process Locker. It only serializes callers within
// one server instance.
type LocalLocker struct {
	wait time.Duration

	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewLocalLocker returns a LocalLocker that waits up to wait for a held key.
// A non-positive wait fails immediately when the key is held.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		wait: wait,
		held: make(map[string]chan struct{}),
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		l.mu.Lock()
		holder, busy := l.held[key]
		if !busy {
			done := make(chan struct{})
			l.held[key] = done
			l.mu.Unlock()

			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(done)
				})
			}, nil
		}
		l.mu.Unlock()

		if timeout == nil {
			return nil, ErrBusy
		}
		select {
		case <-holder:
			// Released; race the other waiters for it.
		case <-timeout:
			return nil, ErrBusy
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
