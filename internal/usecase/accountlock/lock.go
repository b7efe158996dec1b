package accountlock

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one mutex per account id so that balance and position
// read-modify-write sequences are serialized per account. Two browser tabs
// withdrawing at once contend on the same mutex instead of racing.
type Registry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewRegistry creates a new empty lock registry
func NewRegistry() *Registry {
	return &Registry{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (r *Registry) mutex(id uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.locks[id]
	if !ok {
		m = &sync.Mutex{}
		r.locks[id] = m
	}
	return m
}

// Lock acquires the mutex for an account and returns its unlock function.
func (r *Registry) Lock(id uuid.UUID) func() {
	m := r.mutex(id)
	m.Lock()
	return m.Unlock
}

// LockPair acquires the mutexes for two accounts. Acquisition is ordered
// lexicographically by id so that two crossing transfers cannot deadlock.
func (r *Registry) LockPair(a, b uuid.UUID) func() {
	if a == b {
		return r.Lock(a)
	}

	first, second := a, b
	if strings.Compare(a.String(), b.String()) > 0 {
		first, second = b, a
	}

	unlockFirst := r.Lock(first)
	unlockSecond := r.Lock(second)
	return func() {
		unlockSecond()
		unlockFirst()
	}
}
