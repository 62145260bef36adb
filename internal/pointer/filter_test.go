package pointer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/gyro_mouse/internal/imu"
)

func newTestFilter() *Filter {
	return &Filter{
		Sensitivity:  0.08,
		SmoothFactor: 0.70,
		MaxDelta:     20,
	}
}

func TestFilterBiasCorrection(t *testing.T) {
	f := newTestFilter()
	off := Offset{BiasX: 0.2, BiasY: -0.1}

	// Input equal to the bias is indistinguishable from rest.
	for i := 0; i < 50; i++ {
		d := f.Update(imu.GyroSample{Gx: 0.2, Gz: -0.1}, off)
		assert.Equal(t, Delta{}, d)
	}
}

func TestFilterConvergesWithoutOvershoot(t *testing.T) {
	f := newTestFilter()
	target := 1.0 * radToDeg * 0.08 // steady-state for Gz = 1 rad/s

	prevGap := target
	for i := 0; i < 60; i++ {
		f.Update(imu.GyroSample{Gz: 1.0}, Offset{})
		x, _ := f.Smoothed()
		gap := target - x
		assert.GreaterOrEqual(t, gap, 0.0, "cycle %d overshoots", i)
		assert.LessOrEqual(t, gap, prevGap, "cycle %d not monotone", i)
		// Gap shrinks by SmoothFactor each cycle.
		assert.InDelta(t, prevGap*0.70, gap, 1e-9)
		prevGap = gap
	}
}

func TestFilterSteadyStateRounding(t *testing.T) {
	// Constant +1 rad/s about Z: raw dx = (180/pi)*0.08 = 4.58..., which
	// must settle to a reported 5 well inside the +-20 bound.
	f := newTestFilter()
	var d Delta
	for i := 0; i < 100; i++ {
		d = f.Update(imu.GyroSample{Gz: 1.0}, Offset{})
	}
	assert.Equal(t, int8(5), d.DX)
	assert.Equal(t, int8(0), d.DY)
}

func TestFilterAxisMapping(t *testing.T) {
	f := newTestFilter()
	f.SmoothFactor = 0 // no lag, direct mapping

	// Positive pitch rate moves the cursor up the screen (negative dy).
	d := f.Update(imu.GyroSample{Gx: 1.0}, Offset{})
	assert.Equal(t, int8(0), d.DX)
	assert.Equal(t, int8(-5), d.DY)
}

func TestFilterSaturation(t *testing.T) {
	f := newTestFilter()
	f.SmoothFactor = 0

	// Rate chosen so the raw estimate is exactly MaxDelta.
	exact := 20.0 / (radToDeg * 0.08)
	d := f.Update(imu.GyroSample{Gz: exact}, Offset{})
	assert.Equal(t, int8(20), d.DX)

	// Anything beyond clamps to the bound, never wraps.
	d = f.Update(imu.GyroSample{Gz: exact * 50}, Offset{})
	assert.Equal(t, int8(20), d.DX)

	d = f.Update(imu.GyroSample{Gz: -exact * 50}, Offset{})
	assert.Equal(t, int8(-20), d.DX)
}

func TestFilterDecaysToZero(t *testing.T) {
	f := newTestFilter()
	for i := 0; i < 20; i++ {
		f.Update(imu.GyroSample{Gz: 3.0}, Offset{})
	}
	// Input stops; the estimate decays and the report settles at (0,0).
	var d Delta
	for i := 0; i < 60; i++ {
		d = f.Update(imu.GyroSample{}, Offset{})
	}
	assert.Equal(t, Delta{}, d)
	x, y := f.Smoothed()
	assert.Less(t, math.Abs(x), 1e-4)
	assert.Less(t, math.Abs(y), 1e-4)
}
