package logic

import "time"

// Position is the logical barrier position.
type Position string

const (
	BarrierClosed Position = "CLOSED"
	BarrierOpen   Position = "OPEN"
)

// DefaultAutoClose is how long the barrier stays open without an
// intervening re-open.
const DefaultAutoClose = 5 * time.Second

// Barrier is the gate state machine. The barrier in this lot announces a
// newly free slot by opening; it is a notification actuator, not an
// access-control gate. Commands are returned only on actual transitions,
// so actuator writes stay idempotent.
//
// The auto-close timer is polled, not event-driven: every tick re-checks
// elapsed time, which tolerates tick jitter and avoids callback reentrancy.
type Barrier struct {
	position       Position
	openedAt       time.Time
	autoCloseAfter time.Duration
}

// NewBarrier creates a barrier in the CLOSED position.
func NewBarrier(autoCloseAfter time.Duration) *Barrier {
	if autoCloseAfter <= 0 {
		autoCloseAfter = DefaultAutoClose
	}
	return &Barrier{position: BarrierClosed, autoCloseAfter: autoCloseAfter}
}

// RequestOpen handles a vacancy-triggered auto-open. While already OPEN it
// is a no-op and does not reset the close timer.
func (b *Barrier) RequestOpen(now time.Time) (Command, bool) {
	if b.position == BarrierOpen {
		return "", false
	}
	b.position = BarrierOpen
	b.openedAt = now
	return CommandOpen, true
}

// Press handles a debounced manual button press: closed opens, open closes
// immediately regardless of elapsed time.
func (b *Barrier) Press(now time.Time) (Command, bool) {
	if b.position == BarrierOpen {
		b.position = BarrierClosed
		return CommandClose, true
	}
	b.position = BarrierOpen
	b.openedAt = now
	return CommandOpen, true
}

// Tick services the auto-close timer. It returns CommandClose once the
// barrier has been open for the full auto-close duration.
func (b *Barrier) Tick(now time.Time) (Command, bool) {
	if b.position != BarrierOpen {
		return "", false
	}
	if now.Sub(b.openedAt) < b.autoCloseAfter {
		return "", false
	}
	b.position = BarrierClosed
	return CommandClose, true
}

// Position returns the current logical position.
func (b *Barrier) Position() Position {
	return b.position
}

// Remaining returns the time left before auto-close, or zero when closed.
func (b *Barrier) Remaining(now time.Time) time.Duration {
	if b.position != BarrierOpen {
		return 0
	}
	left := b.autoCloseAfter - now.Sub(b.openedAt)
	if left < 0 {
		return 0
	}
	return left
}
