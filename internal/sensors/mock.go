// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/gyro_mouse/internal/imu"
)

type mockGyroSource struct {
	start time.Time
}

// NewMockGyroSource creates a gyro source that generates smooth circular
// motion, for bench runs without hardware. Selected with GYRO_SOURCE=mock.
func NewMockGyroSource() imu.SampleSource {
	return &mockGyroSource{start: time.Now()}
}

func (m *mockGyroSource) Next() (imu.GyroSample, error) {
	elapsed := time.Since(m.start).Seconds()

	return imu.GyroSample{
		Gx: 0.6 * math.Sin(elapsed),
		Gy: 0,
		Gz: 0.6 * math.Cos(elapsed*0.7),
	}, nil
}
