package practice

import "sync"

// attemptLocks hands out one mutex per attempt ID. Entries are dropped when
// the last holder releases them, so the map only holds in-flight attempts.
type attemptLocks struct {
	mu    sync.Mutex
	locks map[uint64]*attemptLock
}

type attemptLock struct {
	mu   sync.Mutex
	refs int
}

func newAttemptLocks() *attemptLocks {
	return &attemptLocks{locks: make(map[uint64]*attemptLock)}
}

// lock blocks until the caller holds the attempt's mutex and returns the
// matching release function.
func (l *attemptLocks) lock(id uint64) func() {
	l.mu.Lock()
	al, ok := l.locks[id]
	if !ok {
		al = &attemptLock{}
		l.locks[id] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()

	return func() {
		al.mu.Unlock()

		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *attemptLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
