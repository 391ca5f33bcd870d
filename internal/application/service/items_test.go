package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func TestKeyedMutexForgetsReleasedKeys(t *testing.T) {
	k := newKeyedMutex()

	for i := 0; i < 100; i++ {
		unlock := k.Lock(fmt.Sprintf("till-%d", i))
		unlock()
	}

	assert.Equal(t, 0, k.size())
}

func TestKeyedMutexSerializesOneKey(t *testing.T) {
	k := newKeyedMutex()
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("till-1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, k.size())
}

func TestKeyedMutexKeepsEntryWhileHeld(t *testing.T) {
	k := newKeyedMutex()

	unlockA := k.Lock("till-a")
	unlockB := k.Lock("till-b")
	assert.Equal(t, 2, k.size())

	unlockA()
	assert.Equal(t, 1, k.size())
	unlockB()
	assert.Equal(t, 0, k.size())
}
