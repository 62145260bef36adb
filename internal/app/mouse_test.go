package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gyro_mouse/internal/hid"
	"github.com/relabs-tech/gyro_mouse/internal/imu"
	"github.com/relabs-tech/gyro_mouse/internal/link"
	"github.com/relabs-tech/gyro_mouse/internal/pointer"
	"github.com/relabs-tech/gyro_mouse/internal/sensors"
)

type scriptedGyro struct {
	sample imu.GyroSample
	err    error
}

func (s *scriptedGyro) Next() (imu.GyroSample, error) {
	return s.sample, s.err
}

type captureNotifier struct {
	reports [][]byte
}

func (n *captureNotifier) Notify(report []byte) error {
	cp := make([]byte, len(report))
	copy(cp, report)
	n.reports = append(n.reports, cp)
	return nil
}

type testRig struct {
	gyro     *scriptedGyro
	button   *sensors.StaticButton
	notifier *captureNotifier
	monitor  *link.Monitor
	pipe     *pipeline
	now      time.Time
}

func newRig() *testRig {
	gyro := &scriptedGyro{}
	button := new(sensors.StaticButton)
	notifier := &captureNotifier{}
	monitor := link.NewMonitor(nil)

	pipe := &pipeline{
		src:    gyro,
		btn:    button,
		filter: &pointer.Filter{Sensitivity: 0.08, SmoothFactor: 0.70, MaxDelta: 20},
		debouncer: &pointer.Debouncer{
			Window: 50 * time.Millisecond,
		},
		assembler: hid.NewAssembler(notifier, monitor),
	}

	return &testRig{
		gyro:     gyro,
		button:   button,
		notifier: notifier,
		monitor:  monitor,
		pipe:     pipe,
		now:      time.Unix(1000, 0),
	}
}

// cycle advances the rig by one 8 ms tick.
func (r *testRig) cycle() (pointer.Delta, bool, bool) {
	r.now = r.now.Add(8 * time.Millisecond)
	return r.pipe.step(r.now)
}

func TestPipelineSettlesAtRest(t *testing.T) {
	r := newRig()
	r.monitor.OnConnect()

	// No motion after calibration: the report settles to (0,0) within a
	// few cycles and stays there.
	var d pointer.Delta
	for i := 0; i < 10; i++ {
		d, _, _ = r.cycle()
	}
	assert.Equal(t, pointer.Delta{}, d)

	last := r.notifier.reports[len(r.notifier.reports)-1]
	assert.Equal(t, []byte{0x00, 0x00, 0x00}, last)
}

func TestPipelineSteadyMotion(t *testing.T) {
	r := newRig()
	r.monitor.OnConnect()
	r.gyro.sample = imu.GyroSample{Gz: 1.0}

	var d pointer.Delta
	for i := 0; i < 60; i++ {
		d, _, _ = r.cycle()
	}
	// (180/pi)*0.08 = 4.58 smoothed, reported as 5, inside the +-20 bound.
	assert.Equal(t, int8(5), d.DX)
	assert.Equal(t, int8(0), d.DY)
}

func TestPipelineGatedByLink(t *testing.T) {
	r := newRig()
	r.gyro.sample = imu.GyroSample{Gz: 2.0}

	// Disconnected: cycles run, nothing is transmitted.
	for i := 0; i < 20; i++ {
		_, _, sent := r.cycle()
		assert.False(t, sent)
	}
	assert.Empty(t, r.notifier.reports)

	// The first cycle after connect sends a live report.
	r.monitor.OnConnect()
	_, _, sent := r.cycle()
	assert.True(t, sent)
	require.Len(t, r.notifier.reports, 1)

	// Disconnect suppresses again; no queued reports flush afterwards.
	r.monitor.OnDisconnect("host away")
	for i := 0; i < 5; i++ {
		_, _, sent = r.cycle()
		assert.False(t, sent)
	}
	assert.Len(t, r.notifier.reports, 1)
}

func TestPipelineButtonPressEndToEnd(t *testing.T) {
	r := newRig()
	r.monitor.OnConnect()

	// Settle, then press and hold for 100 ms sampled at 8 ms with a 50 ms
	// window: stable flips on the 7th post-edge sample.
	for i := 0; i < 5; i++ {
		r.cycle()
	}
	*r.button = true

	flippedAt := -1
	for i := 0; i < 13; i++ {
		_, stable, _ := r.cycle()
		if stable {
			flippedAt = i
			break
		}
	}
	require.NotEqual(t, -1, flippedAt, "stable never flipped")
	assert.Equal(t, 7, flippedAt)

	last := r.notifier.reports[len(r.notifier.reports)-1]
	assert.Equal(t, byte(hid.ButtonLeft), last[0])
}

func TestPipelineReadErrorReusesDelta(t *testing.T) {
	r := newRig()
	r.monitor.OnConnect()
	r.gyro.sample = imu.GyroSample{Gz: 1.0}

	for i := 0; i < 60; i++ {
		r.cycle()
	}
	before, _, _ := r.cycle()

	// The source fails: the cycle still emits, reusing the last delta.
	r.gyro.err = errors.New("spi timeout")
	d, _, sent := r.cycle()
	assert.True(t, sent)
	assert.Equal(t, before, d)

	// Recovery picks the pipeline back up where it left off.
	r.gyro.err = nil
	d, _, _ = r.cycle()
	assert.Equal(t, before, d)
}
