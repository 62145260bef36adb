package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Compile-time defaults for the motion pipeline. The config file can
// override any of them, but a device flashed with no file at all must still
// behave like the reference tuning.
const (
	DefaultSensitivity        = 0.08
	DefaultSmoothFactor       = 0.70
	DefaultMaxDelta           = 20
	DefaultCalibrationSamples = 200
	DefaultCalibrationDelayMS = 3
	DefaultDebounceWindowMS   = 50
	DefaultCyclePeriodMS      = 8
)

// Config holds all application configuration values.
type Config struct {
	// HID transport
	HIDListenAddr string
	HIDDeviceName string

	// Gyro hardware
	GyroSource    string // "mpu9250" or "mock"
	GyroSPIDevice string
	GyroCSPin     string
	// Gyroscope range: 0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s
	GyroRange byte

	// Button hardware
	ButtonGPIOPin string

	// Motion pipeline tuning
	Sensitivity        float64
	SmoothFactor       float64
	MaxDelta           int
	CalibrationSamples int
	CalibrationDelayMS int
	DebounceWindowMS   int
	CyclePeriodMS      int

	// MQTT
	MQTTBroker          string
	MQTTClientIDMouse   string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	MQTTClientIDDisplay string
	TopicStatus         string
	TelemetryIntervalMS int

	// Web Server
	WebServerPort int

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex, write lock for initialization, read lock for Get().
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// newConfig returns a Config populated with the built-in defaults.
func newConfig() *Config {
	return &Config{
		HIDListenAddr: ":8484",
		HIDDeviceName: "Gyro Mouse",

		GyroSource:    "mpu9250",
		GyroSPIDevice: "/dev/spidev6.0",
		GyroCSPin:     "18",
		GyroRange:     0,

		ButtonGPIOPin: "4",

		Sensitivity:        DefaultSensitivity,
		SmoothFactor:       DefaultSmoothFactor,
		MaxDelta:           DefaultMaxDelta,
		CalibrationSamples: DefaultCalibrationSamples,
		CalibrationDelayMS: DefaultCalibrationDelayMS,
		DebounceWindowMS:   DefaultDebounceWindowMS,
		CyclePeriodMS:      DefaultCyclePeriodMS,

		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientIDMouse:   "gyro-mouse-producer",
		MQTTClientIDConsole: "gyro-mouse-console",
		MQTTClientIDWeb:     "gyro-mouse-web",
		MQTTClientIDDisplay: "gyro-mouse-display",
		TopicStatus:         "gyromouse/status",
		TelemetryIntervalMS: 250,

		WebServerPort: 8080,

		DisplayI2CAddr:        0x3C,
		DisplayUpdateInterval: 200,
	}
}

// Load reads the configuration file and returns a Config struct. Keys not
// present in the file keep their defaults.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := newConfig()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// HID transport
	case "HID_LISTEN_ADDR":
		c.HIDListenAddr = value
	case "HID_DEVICE_NAME":
		c.HIDDeviceName = value

	// Gyro hardware
	case "GYRO_SOURCE":
		if value != "mpu9250" && value != "mock" {
			return fmt.Errorf("GYRO_SOURCE must be \"mpu9250\" or \"mock\", got %q", value)
		}
		c.GyroSource = value
	case "GYRO_SPI_DEVICE":
		c.GyroSPIDevice = value
	case "GYRO_CS_PIN":
		c.GyroCSPin = value
	case "GYRO_RANGE":
		rangeVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GYRO_RANGE %q: %w", value, err)
		}
		if rangeVal < 0 || rangeVal > 3 {
			return fmt.Errorf("GYRO_RANGE must be 0-3 (0=±250°/s, 1=±500°/s, 2=±1000°/s, 3=±2000°/s), got %d", rangeVal)
		}
		c.GyroRange = byte(rangeVal)

	// Button hardware
	case "BUTTON_GPIO_PIN":
		c.ButtonGPIOPin = value

	// Motion pipeline tuning
	case "SENSITIVITY":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SENSITIVITY %q: %w", value, err)
		}
		if v <= 0 {
			return fmt.Errorf("SENSITIVITY must be > 0, got %g", v)
		}
		c.Sensitivity = v
	case "SMOOTH_FACTOR":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SMOOTH_FACTOR %q: %w", value, err)
		}
		if v < 0 || v >= 1 {
			return fmt.Errorf("SMOOTH_FACTOR must be in [0,1), got %g", v)
		}
		c.SmoothFactor = v
	case "MAX_DELTA":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MAX_DELTA %q: %w", value, err)
		}
		if v < 1 || v > 127 {
			return fmt.Errorf("MAX_DELTA must be 1-127, got %d", v)
		}
		c.MaxDelta = v
	case "CALIBRATION_SAMPLES":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CALIBRATION_SAMPLES %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("CALIBRATION_SAMPLES must be >= 1, got %d", v)
		}
		c.CalibrationSamples = v
	case "CALIBRATION_DELAY_MS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CALIBRATION_DELAY_MS %q: %w", value, err)
		}
		if v < 0 {
			return fmt.Errorf("CALIBRATION_DELAY_MS must be >= 0, got %d", v)
		}
		c.CalibrationDelayMS = v
	case "DEBOUNCE_WINDOW_MS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DEBOUNCE_WINDOW_MS %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("DEBOUNCE_WINDOW_MS must be >= 1, got %d", v)
		}
		c.DebounceWindowMS = v
	case "CYCLE_PERIOD_MS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CYCLE_PERIOD_MS %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("CYCLE_PERIOD_MS must be >= 1, got %d", v)
		}
		c.CyclePeriodMS = v

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_MOUSE":
		c.MQTTClientIDMouse = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "TOPIC_STATUS":
		c.TopicStatus = value
	case "TELEMETRY_INTERVAL_MS":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TELEMETRY_INTERVAL_MS %q: %w", value, err)
		}
		if v < 1 {
			return fmt.Errorf("TELEMETRY_INTERVAL_MS must be >= 1, got %d", v)
		}
		c.TelemetryIntervalMS = v

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.HIDListenAddr == "" {
		return fmt.Errorf("HID_LISTEN_ADDR is required")
	}
	if c.GyroSource == "mpu9250" {
		if c.GyroSPIDevice == "" {
			return fmt.Errorf("GYRO_SPI_DEVICE is required")
		}
		if c.GyroCSPin == "" {
			return fmt.Errorf("GYRO_CS_PIN is required")
		}
		if c.ButtonGPIOPin == "" {
			return fmt.Errorf("BUTTON_GPIO_PIN is required")
		}
	}
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicStatus == "" {
		return fmt.Errorf("TOPIC_STATUS is required")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
