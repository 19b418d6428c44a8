package quota

import "sync"

// keyedMutex serializes admissions per tenant within this process. The row
// lock inside the admission transaction covers concurrent service instances;
// this keeps sibling requests on one instance from piling up on the database.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*tenantLock
}

type tenantLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint]*tenantLock)}
}

// lock acquires the per-tenant lock and returns its release func.
func (k *keyedMutex) lock(tenantID uint) func() {
	k.mu.Lock()
	l, ok := k.locks[tenantID]
	if !ok {
		l = &tenantLock{}
		k.locks[tenantID] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, tenantID)
		}
		k.mu.Unlock()
	}
}
