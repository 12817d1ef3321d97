// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/carpark-controller/internal/logic"
)

// EventTopic returns the topic for lot events.
func EventTopic(lot string) string {
	return "carpark/" + lot + "/events"
}

// SystemTopic returns the topic for system lifecycle events.
func SystemTopic(lot string) string {
	return "carpark/" + lot + "/system"
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a lot event to the broker.
	// Returns error if publishing fails (must not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event
// (e.g. startup, shutdown, heartbeat, admin reset).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "RESET"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for lot events.
type Payload struct {
	Parking ParkingPayload `json:"parking"`
}

// ParkingPayload contains the lot event details.
type ParkingPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Slot      string `json:"slot,omitempty"`
	Occupied  int    `json:"occupied"`
	Available int    `json:"available"`
}

// FormatPayload creates the JSON payload for a lot event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Parking: ParkingPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Slot:      event.Slot,
			Occupied:  event.Occupied,
			Available: event.Available,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
