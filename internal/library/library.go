// Package library ties the scanner, grouper, policy engine, and store into
// the command and query surface the UI layers consume.
package library

import (
	"sync"

	"github.com/franz/takestash/internal/report"
	"github.com/franz/takestash/internal/store"
)

// Library is the application service. One instance owns one open store.
type Library struct {
	store  *store.Store
	logger *report.EventLogger

	mu        sync.Mutex
	songLocks map[int64]*sync.Mutex
}

// New creates a Library over an open store. logger may be nil.
func New(st *store.Store, logger *report.EventLogger) *Library {
	return &Library{
		store:     st,
		logger:    logger,
		songLocks: make(map[int64]*sync.Mutex),
	}
}

// Store exposes the underlying store for read-only diagnostics
func (l *Library) Store() *store.Store {
	return l.store
}

// lockSong serializes merge operations per song. Two concurrent rescans of
// the same song must not interleave their read-modify-write of a version's
// format list.
func (l *Library) lockSong(id int64) func() {
	l.mu.Lock()
	lock, ok := l.songLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.songLocks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
