package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fogleman/ease"
)

// StatusReporter is implemented by animations that can describe their playback.
type StatusReporter interface {
	Status() Status
}

// Controller that manages animations. It plays one animation at a time from
// a playlist and crossfades to the next one when asked to, or on a timer
// when running.
type Controller struct {
	mu                sync.Mutex
	playlist          []Animation
	current           int
	animation         Animation
	nextAnimation     Animation
	runtimeMs         int64
	transitionMs      float64
	transitionStartMs int64
	cycleTime         time.Duration
}

// NewController creates a Controller that starts with the first playlist
// entry. A zero cycleTime disables automatic rotation; a zero transition
// switches animations without a crossfade.
func NewController(playlist []Animation, cycleTime time.Duration, transition time.Duration) *Controller {
	c := new(Controller)
	c.playlist = playlist
	c.cycleTime = cycleTime
	c.transitionMs = float64(transition) / float64(time.Millisecond)
	if len(playlist) > 0 {
		c.animation = playlist[0]
		attach(c.animation, 0)
	}

	return c
}

func attach(a Animation, runtimeMs int64) {
	if at, ok := a.(Attacher); ok {
		at.Attach(runtimeMs)
	}
}

// CalculateFrame creates the frame for runtimeMs, blending the outgoing and
// incoming animations while a transition is in progress. The animations are
// evaluated without holding the controller lock, so display hooks may call
// back into the Controller.
func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	c.mu.Lock()
	c.runtimeMs = runtimeMs
	progress := 1.0
	if c.nextAnimation != nil {
		progress = float64(runtimeMs-c.transitionStartMs) / c.transitionMs
		if progress >= 1.0 || progress < 0 {
			c.commitTransition()
			progress = 1.0
		}
	}
	current, next := c.animation, c.nextAnimation
	c.mu.Unlock()

	if current == nil {
		return NewFrame(0)
	}
	if next == nil {
		return current.CalculateFrame(runtimeMs)
	}

	f1 := current.CalculateFrame(runtimeMs)
	f2 := next.CalculateFrame(runtimeMs)
	return f1.InterpolateFrame(f2, ease.InOutQuad(progress))
}

func (c *Controller) commitTransition() {
	c.animation = c.nextAnimation
	c.nextAnimation = nil
}

// Replace makes next the active animation, restarting its playback at the
// current runtime. The previous animation is crossfaded out.
func (c *Controller) Replace(next Animation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replace(next)
}

func (c *Controller) replace(next Animation) {
	if c.nextAnimation != nil {
		c.commitTransition()
	}

	attach(next, c.runtimeMs)
	if c.animation == nil || c.transitionMs <= 0 {
		c.animation = next
		return
	}
	c.nextAnimation = next
	c.transitionStartMs = c.runtimeMs
}

// Rotate moves on to the next playlist entry.
func (c *Controller) Rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.playlist) < 2 {
		return
	}

	c.current = (c.current + 1) % len(c.playlist)
	log.Printf("Switching to animation %d of %d", c.current+1, len(c.playlist))
	c.replace(c.playlist[c.current])
}

// Active returns the animation that control messages apply to: the incoming
// one during a transition.
func (c *Controller) Active() Animation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nextAnimation != nil {
		return c.nextAnimation
	}
	return c.animation
}

// Status reports the playback of the active animation.
func (c *Controller) Status() Status {
	c.mu.Lock()
	active := c.animation
	transitioning := c.nextAnimation != nil
	if transitioning {
		active = c.nextAnimation
	}
	runtimeMs := c.runtimeMs
	c.mu.Unlock()

	s := Status{RuntimeMs: runtimeMs}
	if r, ok := active.(StatusReporter); ok {
		s = r.Status()
	}
	s.Transitioning = transitioning
	return s
}

// Run causes the Controller to cycle through animations until ctx is done.
func (c *Controller) Run(ctx context.Context) {
	if c.cycleTime <= 0 {
		<-ctx.Done()
		return
	}

	cycleTimer := time.NewTicker(c.cycleTime)
	defer cycleTimer.Stop()
	for {
		select {
		case <-cycleTimer.C:
			c.Rotate()
		case <-ctx.Done():
			return
		}
	}
}
