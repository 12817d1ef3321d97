//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealIO reads sensors and drives actuators through the Linux GPIO
// character device. It implements both Reader and Actuator.
type RealIO struct {
	chip    *gpiocdev.Chip
	sensors []*gpiocdev.Line
	invert  []bool

	button       *gpiocdev.Line
	buttonInvert bool

	green   *gpiocdev.Line
	red     *gpiocdev.Line
	barrier *gpiocdev.Line
}

// NewRealIO requests all configured lines on gpiochip0. Sensor and button
// lines are requested as inputs with pull-up, matching the active-low
// sensor boards and the momentary switch wiring; outputs start low
// (green off, red off, barrier closed) until the first tick projects
// real state.
func NewRealIO(p Params) (*RealIO, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	io := &RealIO{chip: chip, buttonInvert: p.Button.ActiveLow}

	for i, s := range p.Sensors {
		line, err := chip.RequestLine(s.Pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			io.Close()
			return nil, fmt.Errorf("request sensor %d pin %d: %w", i, s.Pin, err)
		}
		io.sensors = append(io.sensors, line)
		io.invert = append(io.invert, s.ActiveLow)
	}

	io.button, err = chip.RequestLine(p.Button.Pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		io.Close()
		return nil, fmt.Errorf("request button pin %d: %w", p.Button.Pin, err)
	}

	io.green, err = chip.RequestLine(p.GreenPin, gpiocdev.AsOutput(0))
	if err != nil {
		io.Close()
		return nil, fmt.Errorf("request green LED pin %d: %w", p.GreenPin, err)
	}
	io.red, err = chip.RequestLine(p.RedPin, gpiocdev.AsOutput(0))
	if err != nil {
		io.Close()
		return nil, fmt.Errorf("request red LED pin %d: %w", p.RedPin, err)
	}

	if p.BarrierEnabled {
		io.barrier, err = chip.RequestLine(p.BarrierPin, gpiocdev.AsOutput(0))
		if err != nil {
			io.Close()
			return nil, fmt.Errorf("request barrier pin %d: %w", p.BarrierPin, err)
		}
	}

	return io, nil
}

// Read samples every sensor line and the button, applying per-line
// polarity so the returned levels are logical (true = occupied/pressed).
func (io *RealIO) Read() ([]bool, bool, error) {
	slots := make([]bool, len(io.sensors))
	for i, line := range io.sensors {
		raw, err := line.Value()
		if err != nil {
			return nil, false, fmt.Errorf("read sensor %d: %w", i, err)
		}
		level := raw != 0
		if io.invert[i] {
			level = !level
		}
		slots[i] = level
	}

	raw, err := io.button.Value()
	if err != nil {
		return nil, false, fmt.Errorf("read button: %w", err)
	}
	pressed := raw != 0
	if io.buttonInvert {
		pressed = !pressed
	}

	return slots, pressed, nil
}

// SetBarrier drives the barrier control line. The servo driver board
// translates the logic level into the open/closed horn position. A
// deployment without a barrier makes this a no-op.
func (io *RealIO) SetBarrier(open bool) error {
	if io.barrier == nil {
		return nil
	}
	v := 0
	if open {
		v = 1
	}
	if err := io.barrier.SetValue(v); err != nil {
		return fmt.Errorf("set barrier: %w", err)
	}
	return nil
}

// SetLEDs drives the two indicator LEDs: red for a full lot, green for
// space available. Exactly one of the two is lit.
func (io *RealIO) SetLEDs(full bool) error {
	g, r := 1, 0
	if full {
		g, r = 0, 1
	}
	if err := io.green.SetValue(g); err != nil {
		return fmt.Errorf("set green LED: %w", err)
	}
	if err := io.red.SetValue(r); err != nil {
		return fmt.Errorf("set red LED: %w", err)
	}
	return nil
}

// Close releases all requested lines and the chip. Outputs are driven low
// first so a restart finds the hardware in a known state.
func (io *RealIO) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{io.green, io.red, io.barrier} {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear output: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close output: %w", err))
		}
	}
	for i, line := range io.sensors {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sensor %d: %w", i, err))
		}
	}
	if io.button != nil {
		if err := io.button.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button: %w", err))
		}
	}
	if io.chip != nil {
		if err := io.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
