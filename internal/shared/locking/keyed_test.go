package locking

import (
	"sync"
	"testing"
)

func TestDistinctKeysDoNotBlock(t *testing.T) {
	keyed := NewKeyedMutex()
	unlockA := keyed.Lock("content-a")
	unlockB := keyed.Lock("content-b")
	unlockB()
	unlockA()
}

func TestSameKeySerializes(t *testing.T) {
	keyed := NewKeyedMutex()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := keyed.Lock("content-a")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
}

func TestEntriesAreReleased(t *testing.T) {
	keyed := NewKeyedMutex()
	unlock := keyed.Lock("content-a")
	unlock()

	keyed.mu.Lock()
	defer keyed.mu.Unlock()
	if len(keyed.locks) != 0 {
		t.Fatalf("expected empty lock table, got %d entries", len(keyed.locks))
	}
}
