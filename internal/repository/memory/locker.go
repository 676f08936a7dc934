package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mamadbah2/salonpos/internal/repository"
)

// Locker is a process-local exclusion lock keyed by string.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

// NewLocker returns a Locker that waits up to wait for a busy key.
func NewLocker(wait time.Duration) *Locker {
	return &Locker{held: make(map[string]chan struct{}), wait: wait}
}

// Acquire blocks until key is free, wait elapses or ctx ends.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		ch, busy := l.held[key]
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

		select {
		case <-ch:
		case <-timer.C:
			return nil, repository.ErrLockNotAcquired
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
