// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package pointer

import (
	"fmt"
	"time"

	"github.com/relabs-tech/gyro_mouse/internal/imu"
)

// Offset holds the per-axis gyro bias measured while the device sits still.
// Only the two axes used for cursor motion are calibrated: BiasX is the bias
// of the X axis, BiasY stores the bias of the Z axis.
type Offset struct {
	BiasX float64 `json:"bias_x"`
	BiasY float64 `json:"bias_y"`
}

// Calibrate draws sampleCount readings from src at the given inter-sample
// delay and returns the mean angular rate per axis. The device must be
// physically stationary for the whole call; the caller guarantees that.
// Accumulation is done in float64 so repeated summation does not drift.
// Blocks for roughly sampleCount*delay.
func Calibrate(src imu.SampleSource, sampleCount int, delay time.Duration) (Offset, error) {
	if sampleCount < 1 {
		return Offset{}, fmt.Errorf("calibrate: sample count must be >= 1, got %d", sampleCount)
	}

	var sumX, sumZ float64
	for i := 0; i < sampleCount; i++ {
		s, err := src.Next()
		if err != nil {
			return Offset{}, fmt.Errorf("calibrate: sample %d/%d: %w", i+1, sampleCount, err)
		}
		sumX += s.Gx
		sumZ += s.Gz
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	n := float64(sampleCount)
	return Offset{
		BiasX: sumX / n,
		BiasY: sumZ / n,
	}, nil
}
