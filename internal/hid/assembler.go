// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package hid

import (
	"log"

	"github.com/relabs-tech/gyro_mouse/internal/link"
	"github.com/relabs-tech/gyro_mouse/internal/pointer"
)

// Notifier is the transport primitive that pushes one input report to the
// attached host. It accepts exactly ReportSize bytes.
type Notifier interface {
	Notify(report []byte) error
}

// Assembler packs each cycle's delta and button state into a MouseReport and
// sends it while the link is up. While the link is down reports are dropped
// silently: state is live, so the next cycle after a reconnect carries a
// fresh report with no queue to drain.
type Assembler struct {
	tr  Notifier
	mon *link.Monitor
}

// NewAssembler wires the report path to a transport and a link monitor.
func NewAssembler(tr Notifier, mon *link.Monitor) *Assembler {
	return &Assembler{tr: tr, mon: mon}
}

// Emit builds and, when connected, transmits this cycle's report. Returns
// whether the report went out.
func (a *Assembler) Emit(d pointer.Delta, pressed bool) bool {
	if !a.mon.Connected() {
		return false
	}

	payload, _ := NewMouseReport(d.DX, d.DY, pressed).MarshalBinary()
	if err := a.tr.Notify(payload); err != nil {
		log.Printf("hid: notify error: %v", err)
		return false
	}
	return true
}
