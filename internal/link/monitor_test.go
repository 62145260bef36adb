package link

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingAdvertiser struct {
	mu       sync.Mutex
	restarts int
}

func (a *countingAdvertiser) RestartAdvertising() {
	a.mu.Lock()
	a.restarts++
	a.mu.Unlock()
}

func TestMonitorTransitions(t *testing.T) {
	adv := &countingAdvertiser{}
	m := NewMonitor(adv)

	assert.False(t, m.Connected())

	m.OnConnect()
	assert.True(t, m.Connected())
	assert.Equal(t, 0, adv.restarts)

	m.OnDisconnect("peer closed")
	assert.False(t, m.Connected())
	assert.Equal(t, 1, adv.restarts)

	// Every disconnect restarts advertising, even back to back.
	m.OnDisconnect("timeout")
	assert.Equal(t, 2, adv.restarts)
}

func TestMonitorConcurrentNotifications(t *testing.T) {
	m := NewMonitor(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.OnConnect()
		}()
		go func() {
			defer wg.Done()
			_ = m.Connected()
		}()
	}
	wg.Wait()
	assert.True(t, m.Connected())
}
