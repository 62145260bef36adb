package hid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gyro_mouse/internal/link"
	"github.com/relabs-tech/gyro_mouse/internal/pointer"
)

type recordingNotifier struct {
	sent [][]byte
	err  error
}

func (n *recordingNotifier) Notify(report []byte) error {
	if n.err != nil {
		return n.err
	}
	cp := make([]byte, len(report))
	copy(cp, report)
	n.sent = append(n.sent, cp)
	return nil
}

func TestEmitGatedByLinkState(t *testing.T) {
	tr := &recordingNotifier{}
	mon := link.NewMonitor(nil)
	a := NewAssembler(tr, mon)

	// Disconnected: nothing goes out, whatever the inputs.
	assert.False(t, a.Emit(pointer.Delta{DX: 12, DY: -7}, true))
	assert.False(t, a.Emit(pointer.Delta{}, false))
	assert.Empty(t, tr.sent)

	// First emit after a connect transition must send.
	mon.OnConnect()
	assert.True(t, a.Emit(pointer.Delta{DX: 12, DY: -7}, true))
	require.Len(t, tr.sent, 1)
	assert.Equal(t, []byte{0x01, 0x0C, 0xF9}, tr.sent[0])

	// Back to disconnected: suppressed again, no queue drained later.
	mon.OnDisconnect("test")
	assert.False(t, a.Emit(pointer.Delta{DX: 1}, false))
	mon.OnConnect()
	assert.True(t, a.Emit(pointer.Delta{DX: 2}, false))
	require.Len(t, tr.sent, 2)
	assert.Equal(t, []byte{0x00, 0x02, 0x00}, tr.sent[1])
}

func TestEmitNotifyFailure(t *testing.T) {
	tr := &recordingNotifier{err: errors.New("peer gone")}
	mon := link.NewMonitor(nil)
	mon.OnConnect()

	a := NewAssembler(tr, mon)
	assert.False(t, a.Emit(pointer.Delta{DX: 3}, false))
}
