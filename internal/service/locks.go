package service

import "sync"

// idLocks serializes work on the same id: score and achievement updates of a
// user, or status transitions of a task.
type idLocks struct {
	mu    sync.Mutex
	locks map[int64]*idLock
}

type idLock struct {
	sync.Mutex
	refs int
}

func newIDLocks() *idLocks {
	return &idLocks{locks: make(map[int64]*idLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *idLocks) lock(id int64) func() {
	l.mu.Lock()
	il, ok := l.locks[id]
	if !ok {
		il = &idLock{}
		l.locks[id] = il
	}
	il.refs++
	l.mu.Unlock()

	il.Lock()
	return func() {
		il.Unlock()
		l.mu.Lock()
		il.refs--
		if il.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
