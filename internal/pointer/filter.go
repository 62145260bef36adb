package pointer

import (
	"math"

	"github.com/relabs-tech/gyro_mouse/internal/imu"
)

// Delta is one cycle's cursor movement, already saturated to the wire range.
type Delta struct {
	DX int8 `json:"dx"`
	DY int8 `json:"dy"`
}

// Filter turns bias-corrected angular rate into smoothed cursor deltas.
// It keeps the exponentially-smoothed velocity estimate across calls; the
// estimate decays toward zero on its own when the input goes quiet, so there
// is no reset.
type Filter struct {
	// Sensitivity scales deg/s into cursor counts per cycle.
	Sensitivity float64
	// SmoothFactor in [0,1): weight of the previous estimate. Higher is
	// smoother but more lagged.
	SmoothFactor float64
	// MaxDelta bounds each output component to [-MaxDelta, +MaxDelta].
	MaxDelta int8

	smoothX float64
	smoothY float64
}

const radToDeg = 180.0 / math.Pi

// Update consumes one raw sample and returns this cycle's delta. Cursor X
// follows the Z axis (yaw), cursor Y follows the X axis (pitch) with the sign
// inverted so tilting forward moves the cursor down.
func (f *Filter) Update(s imu.GyroSample, off Offset) Delta {
	correctedX := s.Gx - off.BiasX
	correctedZ := s.Gz - off.BiasY

	rawDX := correctedZ * radToDeg * f.Sensitivity
	rawDY := -correctedX * radToDeg * f.Sensitivity

	f.smoothX = f.SmoothFactor*f.smoothX + (1.0-f.SmoothFactor)*rawDX
	f.smoothY = f.SmoothFactor*f.smoothY + (1.0-f.SmoothFactor)*rawDY

	return Delta{
		DX: clampDelta(f.smoothX, f.MaxDelta),
		DY: clampDelta(f.smoothY, f.MaxDelta),
	}
}

// Smoothed returns the current velocity estimate before saturation. Used by
// telemetry and tests.
func (f *Filter) Smoothed() (x, y float64) {
	return f.smoothX, f.smoothY
}

func clampDelta(v float64, max int8) int8 {
	limit := float64(max)
	if v > limit {
		return max
	}
	if v < -limit {
		return -max
	}
	return int8(math.Round(v))
}
