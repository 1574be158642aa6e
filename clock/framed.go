package clock

// FramedClock samples a source clock once per frame so that everything
// evaluated during a frame observes the same time.
type FramedClock struct {
	source  Clock
	current float64
	elapsed float64
	primed  bool
}

// NewFramedClock wraps source. The first ProcessFrame reports zero elapsed time.
func NewFramedClock(source Clock) *FramedClock {
	return &FramedClock{source: source}
}

// ProcessFrame samples the source and records the time since the last frame.
// Elapsed time is negative when the source was moved backwards.
func (c *FramedClock) ProcessFrame() {
	now := c.source.CurrentTime()
	if c.primed {
		c.elapsed = now - c.current
	} else {
		c.elapsed = 0
		c.primed = true
	}
	c.current = now
}

// CurrentTime returns the time sampled by the last ProcessFrame.
func (c *FramedClock) CurrentTime() float64 {
	return c.current
}

// ElapsedFrameTime returns the difference between the last two samples.
func (c *FramedClock) ElapsedFrameTime() float64 {
	return c.elapsed
}
