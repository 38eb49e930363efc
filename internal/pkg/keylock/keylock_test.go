package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap_SerialisesSameKey(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock(7)
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, m.locks)
}

func TestMap_IndependentKeys(t *testing.T) {
	m := New()
	unlockA := m.Lock(1)
	unlockB := m.Lock(2)
	assert.Len(t, m.locks, 2)
	unlockA()
	unlockB()
	assert.Empty(t, m.locks)
}
