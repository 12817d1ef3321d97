package logic

import "time"

// Channel debounces a single raw input line into a stable boolean and
// emits at most one edge per sample. The same mechanism serves parking
// sensors (occupied/vacant) and the manual button (pressed/released).
//
// A Window of zero means a new level is committed as soon as two
// consecutive samples agree, which is effectively unfiltered input.
type Channel struct {
	// Window is the minimum duration a raw level must remain constant
	// before it is accepted as the new stable state.
	Window time.Duration

	stable       bool
	pending      bool
	pendingSince time.Time
}

// NewChannel creates a channel in the vacant/not-pressed state.
func NewChannel(window time.Duration, start time.Time) Channel {
	return Channel{Window: window, pendingSince: start}
}

// Sample feeds one raw level into the channel. It returns the edge and
// true if the stable state changed on this sample, or false otherwise.
func (c *Channel) Sample(level bool, now time.Time) (Edge, bool) {
	if level != c.pending {
		// Candidate changed, restart the observation window.
		c.pending = level
		c.pendingSince = now
		return 0, false
	}

	if c.pending == c.stable {
		return 0, false
	}

	if now.Sub(c.pendingSince) < c.Window {
		return 0, false
	}

	c.stable = c.pending
	if c.stable {
		return EdgeRose, true
	}
	return EdgeFell, true
}

// Stable returns the current debounced state.
func (c *Channel) Stable() bool {
	return c.stable
}

// Reset returns the channel to the vacant/not-pressed state, discarding
// any pending observation.
func (c *Channel) Reset(now time.Time) {
	c.stable = false
	c.pending = false
	c.pendingSince = now
}
