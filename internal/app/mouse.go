// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/gyro_mouse/internal/config"
	"github.com/relabs-tech/gyro_mouse/internal/hid"
	"github.com/relabs-tech/gyro_mouse/internal/imu"
	"github.com/relabs-tech/gyro_mouse/internal/link"
	"github.com/relabs-tech/gyro_mouse/internal/pointer"
	"github.com/relabs-tech/gyro_mouse/internal/sensors"
	"github.com/relabs-tech/gyro_mouse/internal/transport"
)

// RunMouse is the device main loop: calibrate once, then convert gyro motion
// and the button into HID mouse reports at a fixed cadence, forever.
func RunMouse() error {
	log.Println("starting gyro-mouse HID producer")

	cfg := config.Get()

	// --- Initialize sensors (the one fatal failure mode) ---
	var src imu.SampleSource
	var btn sensors.ButtonSource
	if cfg.GyroSource == "mock" {
		log.Println("using mock gyro source")
		src = sensors.NewMockGyroSource()
		btn = sensors.StaticButton(false)
	} else {
		var err error
		src, err = sensors.NewGyroSource()
		if err != nil {
			log.Fatalf("failed to initialize gyro: %v", err)
			return err
		}
		btn, err = sensors.NewGPIOButton(cfg.ButtonGPIOPin)
		if err != nil {
			log.Fatalf("failed to initialize button: %v", err)
			return err
		}
	}

	// --- HID transport: descriptor first, then advertise ---
	srv := transport.NewServer(cfg.HIDListenAddr, cfg.HIDDeviceName)
	srv.RegisterDescriptor(hid.ReportDescriptor, hid.ReportSize)

	mon := link.NewMonitor(srv)
	srv.SetCallbacks(mon.OnConnect, mon.OnDisconnect)

	if err := srv.Start(); err != nil {
		log.Fatalf("failed to start HID transport: %v", err)
		return err
	}

	// --- connect to MQTT (telemetry only, the mouse runs without it) ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDMouse)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("WARNING: MQTT connect error: %v (telemetry disabled)", token.Error())
		client = nil
	} else {
		defer client.Disconnect(250)
		log.Println("connected to MQTT, telemetry enabled")
	}

	// --- one-time bias calibration; the device must be stationary ---
	log.Printf("calibrating gyro bias: hold still (%d samples, ~%d ms)...",
		cfg.CalibrationSamples, cfg.CalibrationSamples*cfg.CalibrationDelayMS)
	offset, err := pointer.Calibrate(src, cfg.CalibrationSamples,
		time.Duration(cfg.CalibrationDelayMS)*time.Millisecond)
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
		return err
	}
	log.Printf("calibration complete: biasX=%.5f biasY=%.5f rad/s", offset.BiasX, offset.BiasY)

	filter := &pointer.Filter{
		Sensitivity:  cfg.Sensitivity,
		SmoothFactor: cfg.SmoothFactor,
		MaxDelta:     int8(cfg.MaxDelta),
	}
	debouncer := &pointer.Debouncer{
		Window: time.Duration(cfg.DebounceWindowMS) * time.Millisecond,
	}
	assembler := hid.NewAssembler(srv, mon)

	telemetryEvery := time.Duration(cfg.TelemetryIntervalMS) * time.Millisecond

	p := &pipeline{
		src:       src,
		btn:       btn,
		filter:    filter,
		debouncer: debouncer,
		assembler: assembler,
		offset:    offset,
	}

	log.Printf("entering main cycle (period %d ms)", cfg.CyclePeriodMS)

	var lastTelemetry time.Time

	// main tick
	ticker := time.NewTicker(time.Duration(cfg.CyclePeriodMS) * time.Millisecond)
	defer ticker.Stop()

	for t := range ticker.C {
		delta, stable, sent := p.step(t)

		// Telemetry, throttled well below the cycle rate
		if client != nil && t.Sub(lastTelemetry) >= telemetryEvery {
			lastTelemetry = t

			sx, sy := filter.Smoothed()
			status := Status{
				DX:        delta.DX,
				DY:        delta.DY,
				Button:    stable,
				Connected: mon.Connected(),
				Sent:      sent,
				SmoothX:   sx,
				SmoothY:   sy,
				Time:      t.Format(time.RFC3339),
			}

			if payload, err := json.Marshal(status); err != nil {
				log.Printf("json marshal error (status): %v", err)
			} else {
				// fire and forget, the cycle must not stall on the broker
				client.Publish(cfg.TopicStatus, 0, true, payload)
			}
		}
	}
	return nil
}

// pipeline groups the per-cycle state of the mouse loop.
type pipeline struct {
	src       imu.SampleSource
	btn       sensors.ButtonSource
	filter    *pointer.Filter
	debouncer *pointer.Debouncer
	assembler *hid.Assembler
	offset    pointer.Offset

	lastDelta pointer.Delta
}

// step runs one cycle: sample, filter, debounce, assemble, maybe send.
// On a gyro read error the filter is skipped and the previous delta is
// reused, so the cursor neither jumps nor freezes the button path.
func (p *pipeline) step(now time.Time) (pointer.Delta, bool, bool) {
	var delta pointer.Delta
	sample, err := p.src.Next()
	if err != nil {
		log.Printf("gyro read error: %v (reusing last delta)", err)
		delta = p.lastDelta
	} else {
		delta = p.filter.Update(sample, p.offset)
	}
	p.lastDelta = delta

	stable := p.debouncer.Update(p.btn.Pressed(), now)
	sent := p.assembler.Emit(delta, stable)
	return delta, stable, sent
}
