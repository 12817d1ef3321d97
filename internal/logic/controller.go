package logic

import "time"

// Controller owns all mutable lot state: the slot channels, the manual
// button channel, the barrier state machine, and the event counters.
// One instance exists per lot and exactly one goroutine may call into it.
type Controller struct {
	lot           *Lot
	button        Channel
	barrier       *Barrier
	counts        EventCounts
	startTime     time.Time
	lastHeartbeat time.Time
}

// ControllerConfig carries the tunable parts of the core.
type ControllerConfig struct {
	// Slots, in display order, with their per-channel debounce windows
	// already applied.
	Slots []Slot
	// ButtonWindow is the manual button debounce window.
	ButtonWindow time.Duration
	// AutoCloseAfter is how long the barrier stays open unattended.
	AutoCloseAfter time.Duration
}

// NewController creates a controller with all slots vacant, the button
// released, and the barrier closed.
func NewController(cfg ControllerConfig, start time.Time) *Controller {
	return &Controller{
		lot:           NewLot(cfg.Slots),
		button:        NewChannel(cfg.ButtonWindow, start),
		barrier:       NewBarrier(cfg.AutoCloseAfter),
		startTime:     start,
		lastHeartbeat: start,
	}
}

// Tick advances the whole controller by one pass: sensors first, then the
// manual button, then the barrier auto-close timer, then the LED
// projection. len(in.Levels) must equal the slot count.
func (c *Controller) Tick(in Input) Result {
	var res Result

	for i := range in.Levels {
		edge, ok := c.lot.Sample(i, in.Levels[i], in.Time)
		if !ok {
			continue
		}
		switch edge {
		case EdgeRose:
			c.counts.Occupied++
			res.Events = append(res.Events, c.slotEvent(EventSlotOccupied, i, in.Time))
		case EdgeFell:
			c.counts.Vacated++
			res.Events = append(res.Events, c.slotEvent(EventSlotVacated, i, in.Time))
			// A newly free slot opens a closed barrier. Occupancy
			// increases never do.
			if cmd, opened := c.barrier.RequestOpen(in.Time); opened {
				c.counts.BarrierOpens++
				res.Commands = append(res.Commands, cmd)
				res.Events = append(res.Events, c.barrierEvent(EventBarrierOpened, in.Time))
			}
		}
	}

	if edge, ok := c.button.Sample(in.Button, in.Time); ok {
		switch edge {
		case EdgeRose:
			c.counts.Presses++
			res.Events = append(res.Events, c.barrierEvent(EventButtonPressed, in.Time))
			cmd, _ := c.barrier.Press(in.Time)
			if cmd == CommandOpen {
				c.counts.BarrierOpens++
				res.Events = append(res.Events, c.barrierEvent(EventBarrierOpened, in.Time))
			} else {
				c.counts.BarrierCloses++
				res.Events = append(res.Events, c.barrierEvent(EventBarrierClosed, in.Time))
			}
			res.Commands = append(res.Commands, cmd)
		case EdgeFell:
			// Recorded, but release has no effect on the barrier.
			c.counts.Releases++
			res.Events = append(res.Events, c.barrierEvent(EventButtonReleased, in.Time))
		}
	}

	if cmd, closed := c.barrier.Tick(in.Time); closed {
		c.counts.BarrierCloses++
		res.Commands = append(res.Commands, cmd)
		res.Events = append(res.Events, c.barrierEvent(EventBarrierClosed, in.Time))
	}

	res.LED = c.LED()
	return res
}

func (c *Controller) slotEvent(t EventType, i int, now time.Time) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		Slot:      c.lot.SlotName(i),
		Occupied:  c.lot.Occupied(),
		Available: c.lot.Available(),
	}
}

func (c *Controller) barrierEvent(t EventType, now time.Time) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		Occupied:  c.lot.Occupied(),
		Available: c.lot.Available(),
	}
}

// LED returns the binary occupancy projection: FULL only when every slot
// is occupied, AVAILABLE otherwise.
func (c *Controller) LED() LEDState {
	if c.lot.SlotCount() > 0 && c.lot.Occupied() == c.lot.SlotCount() {
		return LEDFull
	}
	return LEDAvailable
}

// Lot returns a read-only snapshot of the occupancy model.
func (c *Controller) Lot() LotSnapshot {
	return c.lot.Snapshot()
}

// BarrierPosition returns the logical barrier position.
func (c *Controller) BarrierPosition() Position {
	return c.barrier.Position()
}

// BarrierRemaining returns the time left before the barrier auto-closes.
func (c *Controller) BarrierRemaining(now time.Time) time.Duration {
	return c.barrier.Remaining(now)
}

// Counts returns the event counters accumulated since startup or the last
// reset.
func (c *Controller) Counts() EventCounts {
	return c.counts
}

// StartTime returns the uptime epoch (startup or last reset).
func (c *Controller) StartTime() time.Time {
	return c.startTime
}

// Reset zeroes all slot channels and counters and restarts the uptime
// clock. The barrier position is deliberately left untouched; an open
// barrier stays open until its timer or the button closes it.
func (c *Controller) Reset(now time.Time) {
	c.lot.Reset(now)
	c.button.Reset(now)
	c.counts = EventCounts{}
	c.startTime = now
	c.lastHeartbeat = now
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}
	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
