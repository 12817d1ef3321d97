package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/carpark-controller/internal/logic"
)

func TestTopics(t *testing.T) {
	if got := EventTopic("garage-b"); got != "carpark/garage-b/events" {
		t.Errorf("event topic: got %q", got)
	}
	if got := SystemTopic("garage-b"); got != "carpark/garage-b/system" {
		t.Errorf("system topic: got %q", got)
	}
}

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Type:      logic.EventSlotVacated,
		Slot:      "A2",
		Occupied:  1,
		Available: 2,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Parking.Event != "SLOT_VACATED" {
		t.Errorf("event: got %q", p.Parking.Event)
	}
	if p.Parking.Slot != "A2" {
		t.Errorf("slot: got %q", p.Parking.Slot)
	}
	if p.Parking.Occupied != 1 || p.Parking.Available != 2 {
		t.Errorf("counts: got %d/%d", p.Parking.Occupied, p.Parking.Available)
	}
	if p.Parking.Timestamp != "2026-03-15T14:30:00Z" {
		t.Errorf("timestamp: got %q", p.Parking.Timestamp)
	}
}

func TestFormatPayloadOmitsEmptySlot(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Type:      logic.EventBarrierOpened,
		Occupied:  2,
		Available: 1,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := raw["parking"]["slot"]; present {
		t.Error("barrier event should not carry a slot field")
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := logic.Event{
		Timestamp: time.Date(2026, 3, 15, 15, 30, 0, 0, loc),
		Type:      logic.EventSlotOccupied,
		Slot:      "A1",
	}

	data, _ := FormatPayload(event)
	var p Payload
	json.Unmarshal(data, &p)
	if p.Parking.Timestamp != "2026-03-15T14:30:00Z" {
		t.Errorf("expected UTC timestamp, got %q", p.Parking.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	want := `{"system":{"timestamp":"2026-03-15T14:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(data) != want {
		t.Errorf("payload mismatch:\n got  %s\n want %s", data, want)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
	}

	data, _ := FormatSystemPayload(event)
	var raw map[string]map[string]interface{}
	json.Unmarshal(data, &raw)
	if _, present := raw["system"]["reason"]; present {
		t.Error("heartbeat should not carry a reason field")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"custom":true}}`)
	event := SystemEvent{Event: "STARTUP", RawPayload: raw}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", data)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{
		Timestamp: time.Now(),
		Type:      logic.EventSlotOccupied,
		Slot:      "A1",
		Occupied:  1,
		Available: 2,
	}
	if err := f.Publish(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(f.Events) != 1 || f.Events[0].Type != logic.EventSlotOccupied {
		t.Errorf("unexpected recorded events: %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker gone")

	if err := f.Publish(logic.Event{Type: logic.EventSlotOccupied}); err == nil {
		t.Error("expected configured error")
	}
	if len(f.Events) != 0 {
		t.Error("failed publish must not be recorded")
	}
}

func TestFakePublisherSystemEvents(t *testing.T) {
	f := NewFakePublisher()
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("publish system: %v", err)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("unexpected system events: %+v", f.SystemEvents)
	}
	if !f.SystemEvents[0].Retained {
		t.Error("retained flag lost")
	}
}

func TestFakePublisherPreservesEventOrder(t *testing.T) {
	f := NewFakePublisher()
	types := []logic.EventType{
		logic.EventSlotVacated,
		logic.EventBarrierOpened,
		logic.EventBarrierClosed,
	}
	for _, typ := range types {
		f.Publish(logic.Event{Type: typ})
	}
	for i, typ := range types {
		if f.Events[i].Type != typ {
			t.Errorf("event %d: expected %s, got %s", i, typ, f.Events[i].Type)
		}
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventSlotOccupied})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Connected = true
	f.Close()

	f.Reset()
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 || f.Closed || f.Connected {
		t.Error("reset did not clear all state")
	}
}
