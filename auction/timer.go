// Package auction implements the auction session state machine and the
// per-player countdown timer that paces it.
package auction

import "time"

// Timer duration bounds. Enabling a timer with a duration outside
// [MinTimerDuration, MaxTimerDuration] falls back to DefaultTimerDuration.
const (
	MinTimerDuration     = 30 * time.Second
	MaxTimerDuration     = 120 * time.Second
	DefaultTimerDuration = 60 * time.Second
)

// TimerStatus is the explicit state of a Timer: stopped, running, or paused.
// Making the state a tag removes the need to reason about a zero timestamp
// meaning "not running".
type TimerStatus int

const (
	TimerStopped TimerStatus = iota
	TimerRunning
	TimerPaused
)

func (s TimerStatus) String() string {
	switch s {
	case TimerStopped:
		return "stopped"
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Timer is a wall-clock countdown for the currently auctioned player.
// Remaining time is always derived from a stored anchor and the current
// clock, never from a decrementing counter, so arbitrarily frequent or
// infrequent polling yields the same answer. Expiry is a signal the driver
// must poll and act on; the Timer itself never forces a sale.
type Timer struct {
	duration  time.Duration
	status    TimerStatus
	anchor    time.Time     // clock reading when the run segment began
	remaining time.Duration // remaining time as of anchor (or as of pause)
	now       func() time.Time
}

// NewTimer creates a stopped timer. Durations outside the allowed bounds
// fall back to the default.
func NewTimer(duration time.Duration) *Timer {
	if duration < MinTimerDuration || duration > MaxTimerDuration {
		duration = DefaultTimerDuration
	}
	return &Timer{
		duration: duration,
		now:      time.Now,
	}
}

// Duration returns the configured full countdown duration.
func (t *Timer) Duration() time.Duration { return t.duration }

// Status returns the timer's current state tag.
func (t *Timer) Status() TimerStatus { return t.status }

// Start resets remaining time to the full duration and starts the countdown
// anchored to the current wall-clock time.
func (t *Timer) Start() {
	t.remaining = t.duration
	t.anchor = t.now()
	t.status = TimerRunning
}

// Stop halts the countdown and clears remaining time.
func (t *Timer) Stop() {
	t.status = TimerStopped
	t.remaining = 0
}

// Remaining returns the time left on the countdown without mutating state;
// repeated calls are idempotent. While running it subtracts the wall-clock
// elapsed since the anchor, never below zero.
func (t *Timer) Remaining() time.Duration {
	switch t.status {
	case TimerRunning:
		left := t.remaining - t.now().Sub(t.anchor)
		if left < 0 {
			return 0
		}
		return left
	case TimerPaused:
		return t.remaining
	default:
		return 0
	}
}

// Pause captures the computed remaining time and stops the running clock.
// No elapsed time is subtracted until Resume. A no-op unless running.
func (t *Timer) Pause() {
	if t.status != TimerRunning {
		return
	}
	t.remaining = t.Remaining()
	t.status = TimerPaused
}

// Resume re-anchors the countdown to now without resetting the stored
// remaining value. A no-op unless paused.
func (t *Timer) Resume() {
	if t.status != TimerPaused {
		return
	}
	t.anchor = t.now()
	t.status = TimerRunning
}

// Expired reports whether the countdown has run out while running.
// A paused or stopped timer never reports expiry.
func (t *Timer) Expired() bool {
	return t.status == TimerRunning && t.Remaining() <= 0
}
