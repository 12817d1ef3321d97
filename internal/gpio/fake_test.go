package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderSequence(t *testing.T) {
	f := NewFakeReader([]Sample{
		{Slots: []bool{false, false}, Button: false},
		{Slots: []bool{true, false}, Button: true},
	})

	slots, button, err := f.Read()
	if err != nil {
		t.Fatalf("read 1: %v", err)
	}
	if slots[0] || slots[1] || button {
		t.Errorf("read 1: expected all false, got %v %v", slots, button)
	}

	slots, button, err = f.Read()
	if err != nil {
		t.Fatalf("read 2: %v", err)
	}
	if !slots[0] || slots[1] || !button {
		t.Errorf("read 2: expected slot0+button, got %v %v", slots, button)
	}
}

func TestFakeReaderRepeatsLastSample(t *testing.T) {
	f := NewFakeReader([]Sample{{Slots: []bool{true}}})

	for i := 0; i < 3; i++ {
		slots, _, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if !slots[0] {
			t.Errorf("read %d: expected repeated last sample", i)
		}
	}
}

func TestFakeReaderCopiesSlots(t *testing.T) {
	f := NewFakeReader([]Sample{{Slots: []bool{false}}})
	slots, _, _ := f.Read()
	slots[0] = true

	again, _, _ := f.Read()
	if again[0] {
		t.Error("mutating a returned slice must not affect later reads")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{Slots: []bool{true}}})
	f.ReadError = errors.New("bus fault")
	if _, _, err := f.Read(); err == nil {
		t.Error("expected configured error")
	}
}

func TestFakeReaderScriptedError(t *testing.T) {
	f := NewFakeReader([]Sample{
		{Slots: []bool{true}},
		{Err: errors.New("bus fault")},
		{Slots: []bool{false}},
	})

	if _, _, err := f.Read(); err != nil {
		t.Fatalf("read 1: %v", err)
	}
	if _, _, err := f.Read(); err == nil {
		t.Fatal("read 2: expected scripted error")
	}
	slots, _, err := f.Read()
	if err != nil {
		t.Fatalf("read 3: %v", err)
	}
	if slots[0] {
		t.Error("read 3: expected recovery sample")
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)
	if _, _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]Sample{
		{Slots: []bool{false}},
		{Slots: []bool{true}},
	})
	f.Read()
	f.Read()
	f.Reset()

	slots, _, _ := f.Read()
	if slots[0] {
		t.Error("expected first sample again after reset")
	}
}

func TestFakeActuatorRecordsWrites(t *testing.T) {
	f := NewFakeActuator()

	f.SetBarrier(true)
	f.SetBarrier(false)
	f.SetLEDs(true)

	if len(f.BarrierWrites) != 2 || !f.BarrierWrites[0] || f.BarrierWrites[1] {
		t.Errorf("unexpected barrier writes: %v", f.BarrierWrites)
	}
	if len(f.LEDWrites) != 1 || !f.LEDWrites[0] {
		t.Errorf("unexpected LED writes: %v", f.LEDWrites)
	}
}

func TestFakeActuatorErrors(t *testing.T) {
	f := NewFakeActuator()
	f.BarrierError = errors.New("stalled")
	if err := f.SetBarrier(true); err == nil {
		t.Error("expected barrier error")
	}
	if len(f.BarrierWrites) != 0 {
		t.Error("failed write must not be recorded")
	}
}

func TestFakeClose(t *testing.T) {
	r := NewFakeReader([]Sample{{Slots: []bool{false}}})
	a := NewFakeActuator()
	r.Close()
	a.Close()
	if !r.Closed || !a.Closed {
		t.Error("expected Closed to be set")
	}
}
