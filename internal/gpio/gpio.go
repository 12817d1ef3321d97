// Package gpio provides GPIO access with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Reader samples all input lines once per tick.
type Reader interface {
	// Read returns the logical levels: one occupancy boolean per slot
	// (true = occupied) and the button state (true = pressed).
	// Polarity inversion for active-low wiring happens here, so the
	// logic layer never sees raw levels.
	Read() (slots []bool, button bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Actuator drives the output lines. Callers are expected to write only on
// logical state changes; writes are fire-and-forget with no feedback
// channel from the hardware.
type Actuator interface {
	// SetBarrier drives the barrier actuator to open (true) or closed.
	SetBarrier(open bool) error

	// SetLEDs selects the occupancy indication: full (red) or
	// space available (green).
	SetLEDs(full bool) error

	// Close releases GPIO resources.
	Close() error
}

// InputPin describes one input line and its wiring polarity.
type InputPin struct {
	Pin       int
	ActiveLow bool
}

// Params describes the full pin assignment for a deployment.
type Params struct {
	Sensors        []InputPin
	Button         InputPin
	GreenPin       int
	RedPin         int
	BarrierPin     int
	BarrierEnabled bool
}
