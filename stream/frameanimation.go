package stream

import (
	"sync"

	"github.com/matt-g-everett/ledreel/playback"
)

// A FrameAnimation is an Animation that plays back a sequence of pre-built
// frames, each shown for the same duration. Playback follows the runtime
// passed to CalculateFrame and can be sought, paused and looped.
//
// FrameAnimation is safe for concurrent use: frames are calculated on the
// streaming goroutine while control messages arrive on the MQTT one.
type FrameAnimation struct {
	mu              sync.Mutex
	name            string
	frames          []*Frame
	player          *playback.Player
	blank           *Frame
	framesProcessed int
	runtimeMs       int64
	onDisplay       func(index int, f *Frame)
}

// NewFrameAnimation creates an empty FrameAnimation. Frames are added with
// AddFrame. A non-positive frameDurationMs is rejected with
// playback.ErrInvalidConfiguration.
func NewFrameAnimation(name string, numPixels int, frameDurationMs float64, repeat bool) (*FrameAnimation, error) {
	player, err := playback.NewPlayer(0, frameDurationMs, repeat)
	if err != nil {
		return nil, err
	}

	a := new(FrameAnimation)
	a.name = name
	a.player = player
	a.blank = NewFrame(numPixels)
	return a, nil
}

// Name returns the name the animation was created with.
func (a *FrameAnimation) Name() string {
	return a.name
}

// AddFrame appends a frame to the end of the sequence.
func (a *FrameAnimation) AddFrame(f *Frame) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frames = append(a.frames, f)
	a.player.Resize(len(a.frames))
}

// OnDisplay registers a hook called every time a different frame becomes
// visible. It runs on the goroutine calling CalculateFrame, after the
// animation lock is released, so it may query the animation or its Controller.
func (a *FrameAnimation) OnDisplay(fn func(index int, f *Frame)) {
	a.mu.Lock()
	a.onDisplay = fn
	a.mu.Unlock()
}

// CalculateFrame advances playback to runtimeMs and returns the frame to show.
func (a *FrameAnimation) CalculateFrame(runtimeMs int64) *Frame {
	a.mu.Lock()
	a.runtimeMs = runtimeMs
	index, changed := a.player.Update(float64(runtimeMs))
	if index < 0 {
		a.mu.Unlock()
		return a.blank
	}

	f := a.frames[index]
	hook := a.onDisplay
	if changed {
		a.framesProcessed++
	}
	a.mu.Unlock()

	if changed && hook != nil {
		hook(index, f)
	}
	return f
}

// Attach restarts playback so that it begins at runtimeMs.
func (a *FrameAnimation) Attach(runtimeMs int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeMs = runtimeMs
	a.player.Attach(float64(runtimeMs))
}

// FramesProcessed counts how many times a new frame has been displayed.
func (a *FrameAnimation) FramesProcessed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.framesProcessed
}

// Status returns a snapshot of the playback state.
func (a *FrameAnimation) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		Animation:       a.name,
		RuntimeMs:       a.runtimeMs,
		FrameIndex:      a.player.CurrentFrameIndex(),
		FrameCount:      a.player.FrameCount(),
		FramesProcessed: a.framesProcessed,
		PositionMs:      a.player.PlaybackPosition(),
		ClockPositionMs: a.player.ClockPosition(),
		DurationMs:      a.player.Duration(),
		Repeat:          a.player.Repeat(),
		Mode:            a.player.Mode().String(),
		Playing:         a.player.IsPlaying(),
		Finished:        a.player.Finished(),
	}
}

// Seek moves playback to positionMs.
func (a *FrameAnimation) Seek(positionMs float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Seek(positionMs)
}

// GotoFrame moves playback to the start of frame index.
func (a *FrameAnimation) GotoFrame(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.GotoFrame(index)
}

func (a *FrameAnimation) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Play()
}

func (a *FrameAnimation) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Stop()
}

func (a *FrameAnimation) Restart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.Restart()
}

// SetRepeat toggles looping without moving the playback position.
func (a *FrameAnimation) SetRepeat(repeat bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player.SetRepeat(repeat)
}
