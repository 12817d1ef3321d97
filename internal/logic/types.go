// Package logic contains pure control logic for the parking lot controller.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Edge is a committed, one-time transition on a debounced channel.
type Edge int

const (
	// EdgeRose is vacant->occupied for a slot, released->pressed for the button.
	EdgeRose Edge = iota + 1
	// EdgeFell is occupied->vacant for a slot, pressed->released for the button.
	EdgeFell
)

// EventType identifies a state transition event.
type EventType string

const (
	EventSlotOccupied   EventType = "SLOT_OCCUPIED"
	EventSlotVacated    EventType = "SLOT_VACATED"
	EventButtonPressed  EventType = "BUTTON_PRESSED"
	EventButtonReleased EventType = "BUTTON_RELEASED"
	EventBarrierOpened  EventType = "BARRIER_OPENED"
	EventBarrierClosed  EventType = "BARRIER_CLOSED"
)

// Event represents a committed transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Slot      string // slot name; empty for button and barrier events
	Occupied  int    // occupied count at the time of the event
	Available int
}

// LEDState is the binary occupancy projection driven onto the lot LEDs.
// Partial occupancy is indistinguishable from empty: only two LEDs exist.
type LEDState string

const (
	LEDAvailable LEDState = "AVAILABLE" // green only
	LEDFull      LEDState = "FULL"      // red only
)

// Command is a discrete actuator command, issued only on state transitions.
type Command string

const (
	CommandOpen  Command = "OPEN"
	CommandClose Command = "CLOSE"
)

// Input is one sample of all logical levels for a tick.
// Levels are already polarity-corrected by the GPIO layer:
// true = occupied for slots, true = pressed for the button.
type Input struct {
	Levels []bool
	Button bool
	Time   time.Time
}

// Result is everything a single tick produced.
type Result struct {
	Events   []Event
	Commands []Command
	LED      LEDState
}

// EventCounts tracks the number of each event type since startup (or the
// last admin reset).
type EventCounts struct {
	Occupied      int
	Vacated       int
	Presses       int
	Releases      int
	BarrierOpens  int
	BarrierCloses int
}

// HeartbeatData contains information for a periodic heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}

// SlotState is the read-only per-slot view exposed in snapshots.
type SlotState struct {
	Name     string
	Occupied bool
}

// LotSnapshot is a read-only view of the occupancy model.
type LotSnapshot struct {
	SlotCount int
	Occupied  int
	Available int
	Slots     []SlotState
}
