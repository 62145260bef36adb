// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package link

import (
	"log"
	"sync/atomic"
)

// Advertiser restarts discovery advertising after a peer drops. The call must
// be idempotent; the monitor may invoke it on every disconnect.
type Advertiser interface {
	RestartAdvertising()
}

// Monitor tracks whether a host peer is attached. The transport stack calls
// OnConnect/OnDisconnect from its own goroutines; the main cycle reads
// Connected once per iteration. A single atomic flag is enough: the write is
// one scalar and the reader tolerates a one-cycle-stale value.
type Monitor struct {
	connected atomic.Bool
	adv       Advertiser
}

// NewMonitor returns a Monitor in the Disconnected state. adv may be nil when
// no advertising restart is wanted (tests).
func NewMonitor(adv Advertiser) *Monitor {
	return &Monitor{adv: adv}
}

// Connected reports whether a peer is currently attached.
func (m *Monitor) Connected() bool {
	return m.connected.Load()
}

// OnConnect records a new peer. Called by the transport stack.
func (m *Monitor) OnConnect() {
	m.connected.Store(true)
	log.Println("link: host connected")
}

// OnDisconnect records the loss of the peer and restarts advertising so the
// device becomes discoverable again. Link loss is a normal state transition,
// not an error: output is suppressed until the next connect.
func (m *Monitor) OnDisconnect(reason string) {
	m.connected.Store(false)
	log.Printf("link: host disconnected (%s), restarting advertising", reason)
	if m.adv != nil {
		m.adv.RestartAdvertising()
	}
}
