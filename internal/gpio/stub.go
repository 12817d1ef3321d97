//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealIO is not available on non-Linux platforms.
type RealIO struct{}

// NewRealIO returns an error on non-Linux platforms.
func NewRealIO(Params) (*RealIO, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (io *RealIO) Read() ([]bool, bool, error) {
	return nil, false, errUnsupported
}

// SetBarrier is not implemented on non-Linux platforms.
func (io *RealIO) SetBarrier(bool) error {
	return errUnsupported
}

// SetLEDs is not implemented on non-Linux platforms.
func (io *RealIO) SetLEDs(bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (io *RealIO) Close() error {
	return nil
}
