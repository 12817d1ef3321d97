package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/carpark-controller/internal/gpio"
	"github.com/sweeney/carpark-controller/internal/logic"
	"github.com/sweeney/carpark-controller/internal/mqtt"
)

const poll = 100 * time.Millisecond

func newController(start time.Time) *logic.Controller {
	return logic.NewController(logic.ControllerConfig{
		Slots: []logic.Slot{
			{Name: "A1", Channel: logic.NewChannel(0, start)},
			{Name: "A2", Channel: logic.NewChannel(0, start)},
			{Name: "A3", Channel: logic.NewChannel(0, start)},
		},
		ButtonWindow:   50 * time.Millisecond,
		AutoCloseAfter: 5 * time.Second,
	}, start)
}

// runTicks drives the controller through the reader samples the way the
// daemon loop does: read, tick, actuate, publish.
func runTicks(t *testing.T, ctrl *logic.Controller, reader *gpio.FakeReader, actuator *gpio.FakeActuator, publisher *mqtt.FakePublisher, start time.Time, n int) {
	t.Helper()
	var lastLED logic.LEDState
	for i := 0; i < n; i++ {
		slots, button, err := reader.Read()
		if err != nil {
			t.Fatalf("tick %d: read: %v", i, err)
		}
		now := start.Add(time.Duration(i) * poll)
		res := ctrl.Tick(logic.Input{Levels: slots, Button: button, Time: now})

		for _, cmd := range res.Commands {
			if err := actuator.SetBarrier(cmd == logic.CommandOpen); err != nil {
				t.Fatalf("tick %d: barrier: %v", i, err)
			}
		}
		if res.LED != lastLED {
			if err := actuator.SetLEDs(res.LED == logic.LEDFull); err != nil {
				t.Fatalf("tick %d: led: %v", i, err)
			}
			lastLED = res.LED
		}
		for _, e := range res.Events {
			if err := publisher.Publish(e); err != nil {
				t.Fatalf("tick %d: publish: %v", i, err)
			}
		}
	}
}

// TestIntegrationArrivalAndDeparture drives a car arriving in A2 and
// leaving again, and checks events, barrier actuation, and payloads.
func TestIntegrationArrivalAndDeparture(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	vacant := []bool{false, false, false}
	inA2 := []bool{false, true, false}
	samples := []gpio.Sample{
		{Slots: vacant}, // t=0
		{Slots: inA2},   // t=100ms  arrival seen
		{Slots: inA2},   // t=200ms  SLOT_OCCUPIED commits
		{Slots: inA2},   // t=300ms
		{Slots: vacant}, // t=400ms  departure seen
		{Slots: vacant}, // t=500ms  SLOT_VACATED commits, barrier opens
		{Slots: vacant}, // t=600ms
	}

	reader := gpio.NewFakeReader(samples)
	actuator := gpio.NewFakeActuator()
	publisher := mqtt.NewFakePublisher()
	ctrl := newController(start)

	runTicks(t, ctrl, reader, actuator, publisher, start, len(samples))

	wantTypes := []logic.EventType{
		logic.EventSlotOccupied,
		logic.EventSlotVacated,
		logic.EventBarrierOpened,
	}
	if len(publisher.Events) != len(wantTypes) {
		t.Fatalf("expected %d events, got %d: %+v", len(wantTypes), len(publisher.Events), publisher.Events)
	}
	for i, want := range wantTypes {
		if publisher.Events[i].Type != want {
			t.Errorf("event %d: expected %s, got %s", i, want, publisher.Events[i].Type)
		}
	}
	if publisher.Events[0].Slot != "A2" || publisher.Events[1].Slot != "A2" {
		t.Errorf("expected A2 on slot events, got %q / %q",
			publisher.Events[0].Slot, publisher.Events[1].Slot)
	}

	// Occupied counts embedded in the payloads track the model.
	var p mqtt.Payload
	if err := json.Unmarshal(publisher.Payloads[0], &p); err != nil {
		t.Fatalf("payload 0: %v", err)
	}
	if p.Parking.Occupied != 1 || p.Parking.Available != 2 {
		t.Errorf("payload 0 counts: got %d/%d", p.Parking.Occupied, p.Parking.Available)
	}

	if len(actuator.BarrierWrites) != 1 || !actuator.BarrierWrites[0] {
		t.Errorf("expected single open write, got %v", actuator.BarrierWrites)
	}
	if ctrl.BarrierPosition() != logic.BarrierOpen {
		t.Errorf("barrier: got %s", ctrl.BarrierPosition())
	}
}

// TestIntegrationAutoClose drives the barrier through a vacancy open and
// the full 5s auto-close, checking exactly one close write.
func TestIntegrationAutoClose(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	inA1 := []bool{true, false, false}
	vacant := []bool{false, false, false}
	samples := []gpio.Sample{
		{Slots: inA1},
		{Slots: inA1},   // occupied commits
		{Slots: vacant}, // departure seen
		{Slots: vacant}, // vacated commits at t=300ms, barrier opens
	}
	// Hold vacant until past the auto-close deadline (t=5300ms).
	for len(samples) < 55 {
		samples = append(samples, gpio.Sample{Slots: vacant})
	}

	reader := gpio.NewFakeReader(samples)
	actuator := gpio.NewFakeActuator()
	publisher := mqtt.NewFakePublisher()
	ctrl := newController(start)

	runTicks(t, ctrl, reader, actuator, publisher, start, len(samples))

	if len(actuator.BarrierWrites) != 2 {
		t.Fatalf("expected open+close writes, got %v", actuator.BarrierWrites)
	}
	if !actuator.BarrierWrites[0] || actuator.BarrierWrites[1] {
		t.Errorf("expected [open close], got %v", actuator.BarrierWrites)
	}
	if ctrl.BarrierPosition() != logic.BarrierClosed {
		t.Errorf("barrier: got %s", ctrl.BarrierPosition())
	}

	last := publisher.Events[len(publisher.Events)-1]
	if last.Type != logic.EventBarrierClosed {
		t.Errorf("expected final BARRIER_CLOSED, got %s", last.Type)
	}
	// Closed exactly 5s after the open at t=300ms.
	if got := last.Timestamp.Sub(start); got != 5300*time.Millisecond {
		t.Errorf("close timestamp: expected +5.3s, got %v", got)
	}
}

// TestIntegrationFullLotLEDs fills the lot and empties one slot, checking
// the binary LED projection at the actuator.
func TestIntegrationFullLotLEDs(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	full := []bool{true, true, true}
	oneFree := []bool{true, false, true}
	samples := []gpio.Sample{
		{Slots: full},
		{Slots: full},    // all three commit, LED goes FULL
		{Slots: oneFree}, // departure seen
		{Slots: oneFree}, // vacated commits, LED back to AVAILABLE
	}

	reader := gpio.NewFakeReader(samples)
	actuator := gpio.NewFakeActuator()
	publisher := mqtt.NewFakePublisher()
	ctrl := newController(start)

	runTicks(t, ctrl, reader, actuator, publisher, start, len(samples))

	// AVAILABLE at boot, FULL when filled, AVAILABLE on the vacancy.
	want := []bool{false, true, false}
	if len(actuator.LEDWrites) != len(want) {
		t.Fatalf("expected %d LED writes, got %v", len(want), actuator.LEDWrites)
	}
	for i, w := range want {
		if actuator.LEDWrites[i] != w {
			t.Errorf("LED write %d: expected full=%v got %v", i, w, actuator.LEDWrites[i])
		}
	}
}

// TestIntegrationManualButton opens with the button, then closes with a
// second press well before the timer.
func TestIntegrationManualButton(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	vacant := []bool{false, false, false}
	samples := []gpio.Sample{
		{Slots: vacant},               // t=0
		{Slots: vacant, Button: true}, // t=100ms  press seen
		{Slots: vacant, Button: true}, // t=200ms  press commits, opens
		{Slots: vacant},               // t=300ms  release seen
		{Slots: vacant},               // t=400ms  release commits, no action
		{Slots: vacant, Button: true}, // t=500ms  second press seen
		{Slots: vacant, Button: true}, // t=600ms  commits, closes
	}

	reader := gpio.NewFakeReader(samples)
	actuator := gpio.NewFakeActuator()
	publisher := mqtt.NewFakePublisher()
	ctrl := newController(start)

	runTicks(t, ctrl, reader, actuator, publisher, start, len(samples))

	if len(actuator.BarrierWrites) != 2 || !actuator.BarrierWrites[0] || actuator.BarrierWrites[1] {
		t.Fatalf("expected [open close], got %v", actuator.BarrierWrites)
	}

	wantTypes := []logic.EventType{
		logic.EventButtonPressed,
		logic.EventBarrierOpened,
		logic.EventButtonReleased,
		logic.EventButtonPressed,
		logic.EventBarrierClosed,
	}
	if len(publisher.Events) != len(wantTypes) {
		t.Fatalf("expected %d events, got %d: %+v", len(wantTypes), len(publisher.Events), publisher.Events)
	}
	for i, want := range wantTypes {
		if publisher.Events[i].Type != want {
			t.Errorf("event %d: expected %s, got %s", i, want, publisher.Events[i].Type)
		}
	}
}
