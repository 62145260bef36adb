// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"
	"math"

	"github.com/relabs-tech/gyro_mouse/internal/config"
	"github.com/relabs-tech/gyro_mouse/internal/imu"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

// LSB per °/s for gyro range settings 0-3 (±250/500/1000/2000 °/s).
var gyroLSBPerDps = [4]float64{131.0, 65.5, 32.8, 16.4}

type gyroSource struct {
	imu   *mpu9250.MPU9250
	scale float64 // raw LSB -> rad/s
}

// NewGyroSource initializes the MPU9250 over SPI and returns a SampleSource
// that reads the gyroscope in rad/s. Initialization failure is the one fatal
// error of the system: the caller must not enter the main cycle without a
// working sensor.
func NewGyroSource() (imu.SampleSource, error) {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gyro: periph host init: %w", err)
	}

	cs := gpioreg.ByName(cfg.GyroCSPin)
	if cs == nil {
		return nil, fmt.Errorf("gyro: CS pin %q not found", cfg.GyroCSPin)
	}

	tr, err := mpu9250.NewSpiTransport(cfg.GyroSPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("gyro: SPI transport (%s): %w", cfg.GyroSPIDevice, err)
	}

	dev, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("gyro: device creation: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("gyro: initialization: %w", err)
	}

	if err := dev.SetGyroRange(cfg.GyroRange); err != nil {
		return nil, fmt.Errorf("gyro: set gyro range: %w", err)
	}
	log.Printf("gyro: range set to %d (±%d°/s)", cfg.GyroRange, []int{250, 500, 1000, 2000}[cfg.GyroRange])

	// Self-test is advisory, not fatal
	if result, err := dev.SelfTest(); err != nil {
		log.Printf("Warning: gyro self-test failed: %v", err)
	} else {
		log.Printf("gyro self-test passed: deviation X: %.2f%%, Y: %.2f%%, Z: %.2f%%",
			result.GyroDeviation.X, result.GyroDeviation.Y, result.GyroDeviation.Z)
	}

	scale := (math.Pi / 180.0) / gyroLSBPerDps[cfg.GyroRange]
	return &gyroSource{imu: dev, scale: scale}, nil
}

// Next reads one gyroscope sample and converts it to rad/s.
func (s *gyroSource) Next() (imu.GyroSample, error) {
	gx, err := s.imu.GetRotationX()
	if err != nil {
		return imu.GyroSample{}, fmt.Errorf("gyro X: %w", err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return imu.GyroSample{}, fmt.Errorf("gyro Y: %w", err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return imu.GyroSample{}, fmt.Errorf("gyro Z: %w", err)
	}

	return imu.GyroSample{
		Gx: float64(gx) * s.scale,
		Gy: float64(gy) * s.scale,
		Gz: float64(gz) * s.scale,
	}, nil
}
