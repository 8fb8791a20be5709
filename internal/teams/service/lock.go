package service

import "sync"

// keyedLocks serializes work per key. Entries are reference-counted and
// removed once the last holder releases, so the map never grows with the
// number of teams seen.
type keyedLocks struct {
	mu   sync.Mutex
	held map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{held: make(map[string]*lockEntry)}
}

// acquire blocks until the key's lock is held and returns its release
// function.
func (l *keyedLocks) acquire(key string) func() {
	l.mu.Lock()
	entry, seen := l.held[key]
	if !seen {
		entry = &lockEntry{}
		l.held[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}
}
