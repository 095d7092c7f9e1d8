package walk

import "sync"

// bookingLocks serializes track appends per booking. Ingestion for one
// booking must retain every valid point in order; cross-booking traffic
// stays independent.
type bookingLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (b *bookingLocks) get(bookingID string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.locks == nil {
		b.locks = make(map[string]*sync.Mutex)
	}
	lock, exists := b.locks[bookingID]
	if !exists {
		lock = &sync.Mutex{}
		b.locks[bookingID] = lock
	}
	return lock
}
