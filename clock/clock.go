// Package clock provides millisecond time sources that drive animation
// playback. Tests use ManualClock to control playback deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time in milliseconds.
type Clock interface {
	CurrentTime() float64
}

// ManualClock only moves when told to.
type ManualClock struct {
	mu      sync.Mutex
	current float64
}

// NewManualClock creates a ManualClock starting at startMs.
func NewManualClock(startMs float64) *ManualClock {
	return &ManualClock{current: startMs}
}

func (c *ManualClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set jumps the clock to an absolute time, forwards or backwards.
func (c *ManualClock) Set(ms float64) {
	c.mu.Lock()
	c.current = ms
	c.mu.Unlock()
}

// Add moves the clock by deltaMs, which may be negative.
func (c *ManualClock) Add(deltaMs float64) {
	c.mu.Lock()
	c.current += deltaMs
	c.mu.Unlock()
}

// StopwatchClock reports real time elapsed since it was started or reset.
type StopwatchClock struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time
}

// NewStopwatchClock creates a StopwatchClock started at the current time.
func NewStopwatchClock() *StopwatchClock {
	c := &StopwatchClock{now: time.Now}
	c.start = c.now()
	return c
}

func (c *StopwatchClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return durationMs(c.now().Sub(c.start))
}

// Reset restarts the stopwatch from zero.
func (c *StopwatchClock) Reset() {
	c.mu.Lock()
	c.start = c.now()
	c.mu.Unlock()
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
