package keymutex

import (
	"sync"
	"testing"
)

func TestLockSerializesSameKey(t *testing.T) {
	km := New()
	const workers = 32

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("pay-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
}

func TestLockReleasesEntryWhenIdle(t *testing.T) {
	km := New()
	unlock := km.Lock("steam-1")
	unlock()
	unlock() // double unlock must be a no-op

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("expected empty lock table, got %d entries", len(km.locks))
	}
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	km := New()
	unlockA := km.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
}
