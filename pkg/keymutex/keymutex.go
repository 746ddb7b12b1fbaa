// Package keymutex serializes work per string key. Every money- or
// file-mutating path locks the key it touches (payment id, steam id, coupon
// code) so concurrent polls and read-modify-write cycles on the same key
// cannot interleave. Different keys never contend.
package keymutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex hands out one mutex per live key. Entries are dropped once the
// last holder unlocks, so the map does not grow with key cardinality.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *KeyMutex {
	return &KeyMutex{locks: map[string]*entry{}}
}

// Lock blocks until the key is exclusively held and returns the unlock
// function for it.
func (k *KeyMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}
