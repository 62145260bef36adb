package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// ButtonSource reports the raw, undebounced pressed state of the button.
type ButtonSource interface {
	Pressed() bool
}

type gpioButton struct {
	pin gpio.PinIn
}

// NewGPIOButton configures the button pin as an input with the internal
// pull-up. The switch shorts the pin to ground, so pressed is electrically
// low.
func NewGPIOButton(pinName string) (ButtonSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("button: periph host init: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("button: GPIO pin %q not found", pinName)
	}

	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("button: configure pin %q: %w", pinName, err)
	}

	return &gpioButton{pin: pin}, nil
}

// Pressed samples the pin. Active-low: a low level means pressed.
func (b *gpioButton) Pressed() bool {
	return b.pin.Read() == gpio.Low
}

// StaticButton is a ButtonSource pinned to one state, used with the mock
// gyro source and in tests.
type StaticButton bool

func (b StaticButton) Pressed() bool { return bool(b) }
