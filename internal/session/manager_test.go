package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithLockSerializesSameChat(t *testing.T) {
	m := NewManager()

	var mu sync.Mutex
	active, maxActive := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock("chat1", func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
}

func TestCleanupDropsStaleLocks(t *testing.T) {
	m := NewManager()
	_ = m.WithLock("chat1", func() error { return nil })
	_ = m.WithLock("chat2", func() error { return nil })

	time.Sleep(2 * time.Millisecond)
	m.Cleanup(time.Millisecond)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.mutexes)
}
