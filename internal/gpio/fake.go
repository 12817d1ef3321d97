package gpio

import "errors"

// Sample is a single scripted reading with all logical levels.
type Sample struct {
	Slots  []bool // true = occupied
	Button bool   // true = pressed
	Err    error  // if set, Read returns this instead of levels
}

// FakeReader is a test double that returns scripted input samples.
type FakeReader struct {
	// Samples contains scripted readings. Each Read consumes the next
	// sample; once exhausted, the last sample repeats.
	Samples []Sample

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Sample) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() ([]bool, bool, error) {
	if f.ReadError != nil {
		return nil, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return nil, false, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	if s.Err != nil {
		return nil, false, s.Err
	}

	slots := make([]bool, len(s.Slots))
	copy(slots, s.Slots)
	return slots, s.Button, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the reader to the first sample.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeActuator records actuator writes for test assertions.
type FakeActuator struct {
	// BarrierWrites contains every SetBarrier value, in order.
	BarrierWrites []bool

	// LEDWrites contains every SetLEDs value, in order.
	LEDWrites []bool

	// BarrierError / LEDError, if set, are returned by the writes.
	BarrierError error
	LEDError     error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeActuator creates a FakeActuator.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// SetBarrier records the barrier command.
func (f *FakeActuator) SetBarrier(open bool) error {
	if f.BarrierError != nil {
		return f.BarrierError
	}
	f.BarrierWrites = append(f.BarrierWrites, open)
	return nil
}

// SetLEDs records the LED projection.
func (f *FakeActuator) SetLEDs(full bool) error {
	if f.LEDError != nil {
		return f.LEDError
	}
	f.LEDWrites = append(f.LEDWrites, full)
	return nil
}

// Close marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.Closed = true
	return nil
}
