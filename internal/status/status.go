// Package status provides a thread-safe status tracker for the carpark
// daemon. The control loop writes it once per tick; HTTP handlers and MQTT
// system events read point-in-time snapshots at whatever cadence they like.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/carpark-controller/internal/logic"
)

// NetworkInfo contains network state reported by the pi-helper service.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	LotName          string
	PollMs           int64
	ButtonDebounceMs int64
	AutoCloseMs      int64
	HeartbeatMs      int64
	Broker           string
	HTTPAddr         string
	BarrierEnabled   bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Lot              logic.LotSnapshot
	LED              logic.LEDState
	Barrier          logic.Position
	BarrierRemaining time.Duration
	Counts           logic.EventCounts
	StartTime        time.Time
	Now              time.Time
	MQTTConnected    bool
	Network          *NetworkInfo
	Config           Config
}

// Uptime returns the duration since the daemon started (or was reset).
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			LED:       logic.LEDAvailable,
			Barrier:   logic.BarrierClosed,
			Config:    cfg,
		},
	}
}

// Update publishes the controller state after a tick.
func (t *Tracker) Update(lot logic.LotSnapshot, led logic.LEDState, barrier logic.Position, remaining time.Duration, counts logic.EventCounts, startTime time.Time) {
	t.mu.Lock()
	t.snap.Lot = lot
	t.snap.LED = led
	t.snap.Barrier = barrier
	t.snap.BarrierRemaining = remaining
	t.snap.Counts = counts
	t.snap.StartTime = startTime
	t.mu.Unlock()
}

// SetNetwork sets the network info (from the pi-helper env readout).
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	slots := make([]logic.SlotState, len(s.Lot.Slots))
	copy(slots, s.Lot.Slots)
	s.Lot.Slots = slots
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
