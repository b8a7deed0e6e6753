// Package keymutex provides mutexes keyed by UUID, used to serialize
// check-then-commit sections per room and per user without a global lock.
package keymutex

import (
	"sync"

	"github.com/google/uuid"
)

type KeyMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyMutex {
	return &KeyMutex{
		locks: map[uuid.UUID]*entry{},
	}
}

// Lock acquires the mutex for key, blocking while another goroutine holds
// it. Locks for distinct keys are independent.
func (k *KeyMutex) Lock(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key and drops the bookkeeping entry once
// no goroutine is waiting on it.
func (k *KeyMutex) Unlock(key uuid.UUID) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unheld key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
