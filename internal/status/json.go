package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Lot           string       `json:"lot"`
	SlotCount     int          `json:"slot_count"`
	Occupied      int          `json:"occupied"`
	Available     int          `json:"available"`
	Slots         []SlotJSON   `json:"slots"`
	LED           string       `json:"led"`
	Barrier       BarrierJSON  `json:"barrier"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// SlotJSON is the JSON representation of one slot.
type SlotJSON struct {
	Name     string `json:"name"`
	Occupied bool   `json:"occupied"`
}

// BarrierJSON is the JSON representation of the barrier state.
type BarrierJSON struct {
	Position         string  `json:"position"`
	SecondsRemaining float64 `json:"seconds_remaining"`
	Enabled          bool    `json:"enabled"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Occupied      int `json:"slot_occupied"`
	Vacated       int `json:"slot_vacated"`
	Presses       int `json:"button_pressed"`
	Releases      int `json:"button_released"`
	BarrierOpens  int `json:"barrier_opened"`
	BarrierCloses int `json:"barrier_closed"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs           int64  `json:"poll_ms"`
	ButtonDebounceMs int64  `json:"button_debounce_ms"`
	AutoCloseMs      int64  `json:"auto_close_ms"`
	HeartbeatMs      int64  `json:"heartbeat_ms"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	slots := make([]SlotJSON, len(snap.Lot.Slots))
	for i, s := range snap.Lot.Slots {
		slots[i] = SlotJSON{Name: s.Name, Occupied: s.Occupied}
	}

	return StatusInner{
		Lot:       snap.Config.LotName,
		SlotCount: snap.Lot.SlotCount,
		Occupied:  snap.Lot.Occupied,
		Available: snap.Lot.Available,
		Slots:     slots,
		LED:       string(snap.LED),
		Barrier: BarrierJSON{
			Position:         string(snap.Barrier),
			SecondsRemaining: snap.BarrierRemaining.Seconds(),
			Enabled:          snap.Config.BarrierEnabled,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Network:       buildNetwork(snap),
		Counts: CountsJSON{
			Occupied:      snap.Counts.Occupied,
			Vacated:       snap.Counts.Vacated,
			Presses:       snap.Counts.Presses,
			Releases:      snap.Counts.Releases,
			BarrierOpens:  snap.Counts.BarrierOpens,
			BarrierCloses: snap.Counts.BarrierCloses,
		},
		Config: ConfigJSON{
			PollMs:           snap.Config.PollMs,
			ButtonDebounceMs: snap.Config.ButtonDebounceMs,
			AutoCloseMs:      snap.Config.AutoCloseMs,
			HeartbeatMs:      snap.Config.HeartbeatMs,
			Broker:           snap.Config.Broker,
			HTTPAddr:         snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

func buildNetwork(snap Snapshot) *NetworkJSON {
	if snap.Network == nil {
		return nil
	}
	return &NetworkJSON{
		Type:       snap.Network.Type,
		IP:         snap.Network.IP,
		Status:     snap.Network.Status,
		Gateway:    snap.Network.Gateway,
		WifiStatus: snap.Network.WifiStatus,
		SSID:       snap.Network.SSID,
	}
}
