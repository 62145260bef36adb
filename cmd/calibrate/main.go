// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Bench tool: measures the gyro bias the same way the mouse does at startup
// and reports per-axis noise, so a unit can be checked before deployment.
// Calibration is never persisted; the mouse re-measures on every boot.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/relabs-tech/gyro_mouse/internal/config"
	"github.com/relabs-tech/gyro_mouse/internal/imu"
	"github.com/relabs-tech/gyro_mouse/internal/pointer"
	"github.com/relabs-tech/gyro_mouse/internal/sensors"
)

// gyroStillStdDev is the rad/s noise floor below which the unit counts as
// stationary. Above it, the operator probably bumped the bench.
const gyroStillStdDev = 0.02

func main() {
	configPath := flag.String("config", "./gyro_mouse_config.txt", "path to configuration file")
	flag.Parse()

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	var src imu.SampleSource
	if cfg.GyroSource == "mock" {
		src = sensors.NewMockGyroSource()
	} else {
		var err error
		src, err = sensors.NewGyroSource()
		if err != nil {
			log.Fatalf("failed to initialize gyro: %v", err)
		}
	}

	fmt.Printf("Keep the device completely still. Sampling %d readings...\n", cfg.CalibrationSamples)

	delay := time.Duration(cfg.CalibrationDelayMS) * time.Millisecond
	samples := make([]imu.GyroSample, 0, cfg.CalibrationSamples)
	for i := 0; i < cfg.CalibrationSamples; i++ {
		s, err := src.Next()
		if err != nil {
			log.Fatalf("gyro read failed at sample %d: %v", i+1, err)
		}
		samples = append(samples, s)
		time.Sleep(delay)
	}

	offset, err := pointer.Calibrate(&replaySource{samples: samples}, len(samples), 0)
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
	}

	stdX := stdDev(samples, func(s imu.GyroSample) float64 { return s.Gx })
	stdZ := stdDev(samples, func(s imu.GyroSample) float64 { return s.Gz })

	fmt.Printf("\nBias (rad/s):  X=%+.5f  Z=%+.5f\n", offset.BiasX, offset.BiasY)
	fmt.Printf("Noise (rad/s): X=%.5f  Z=%.5f\n", stdX, stdZ)

	if stdX > gyroStillStdDev || stdZ > gyroStillStdDev {
		fmt.Println("\nWARNING: noise above the stillness threshold, the device moved during sampling.")
		fmt.Println("Re-run on a solid surface.")
	} else {
		fmt.Println("\nOK: unit is quiet, bias values look usable.")
	}
}

// replaySource feeds captured samples back through the production
// calibration path, so the bias printed here matches what the mouse would
// compute from the same data.
type replaySource struct {
	samples []imu.GyroSample
	i       int
}

func (r *replaySource) Next() (imu.GyroSample, error) {
	s := r.samples[r.i]
	r.i++
	return s, nil
}

func stdDev(samples []imu.GyroSample, axis func(imu.GyroSample) float64) float64 {
	n := float64(len(samples))
	var sum float64
	for _, s := range samples {
		sum += axis(s)
	}
	mean := sum / n

	var varSum float64
	for _, s := range samples {
		d := axis(s) - mean
		varSum += d * d
	}
	return math.Sqrt(varSum / n)
}
