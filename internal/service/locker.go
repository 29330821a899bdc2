package service

import (
	"context"
	"sync"
)

// LocalSourceLocker implements core.SourceLocker with an in-process lock table.
// It serializes scrapes within one process only; multi-instance deployments
// use the Redis locker.
type LocalSourceLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalSourceLocker constructs an empty LocalSourceLocker.
func NewLocalSourceLocker() *LocalSourceLocker {
	return &LocalSourceLocker{held: make(map[string]struct{})}
}

// TryLock marks sourceID as held if it is free. The returned release is idempotent.
func (l *LocalSourceLocker) TryLock(_ context.Context, sourceID string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[sourceID]; ok {
		return nil, false, nil
	}
	l.held[sourceID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, sourceID)
			l.mu.Unlock()
		})
	}
	return release, true, nil
}
