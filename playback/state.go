// Package playback maps a playback position in milliseconds to a frame index
// of a fixed-rate frame sequence.
package playback

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when a sequence cannot be scheduled.
var ErrInvalidConfiguration = errors.New("invalid playback configuration")

// Mode describes how positions past the end of the sequence are handled.
type Mode int

const (
	// Clamped holds the last frame once the position reaches the end.
	Clamped Mode = iota
	// Looping wraps the position modulo the total duration.
	Looping
)

func (m Mode) String() string {
	switch m {
	case Clamped:
		return "clamped"
	case Looping:
		return "looping"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is the complete input to the frame scheduler. It is a value type;
// Advance and WithRepeat return modified copies.
type State struct {
	TotalDurationMs float64
	FrameDurationMs float64
	FrameCount      int
	Repeat          bool
	PositionMs      float64
}

// NewState validates the durations and derives the frame count.
func NewState(totalDurationMs, frameDurationMs float64, repeat bool) (State, error) {
	if !(frameDurationMs > 0) || math.IsInf(frameDurationMs, 0) {
		return State{}, fmt.Errorf("%w: frame duration %vms", ErrInvalidConfiguration, frameDurationMs)
	}
	if !(totalDurationMs >= 0) || math.IsInf(totalDurationMs, 0) {
		return State{}, fmt.Errorf("%w: total duration %vms", ErrInvalidConfiguration, totalDurationMs)
	}

	return State{
		TotalDurationMs: totalDurationMs,
		FrameDurationMs: frameDurationMs,
		FrameCount:      int(math.Ceil(totalDurationMs / frameDurationMs)),
		Repeat:          repeat,
	}, nil
}

// Advance returns the state with its position set to an absolute time.
func (s State) Advance(positionMs float64) State {
	s.PositionMs = positionMs
	return s
}

// WithRepeat switches between Clamped and Looping without touching the position.
func (s State) WithRepeat(repeat bool) State {
	s.Repeat = repeat
	return s
}

// Mode reports the mode selected by Repeat.
func (s State) Mode() Mode {
	if s.Repeat {
		return Looping
	}
	return Clamped
}

// EffectivePosition is the position the frame index is derived from: never
// below zero, wrapped when looping and saturated at the end otherwise.
func (s State) EffectivePosition() float64 {
	pos := s.PositionMs
	if pos < 0 || math.IsNaN(pos) {
		pos = 0
	}

	if s.Repeat {
		if s.TotalDurationMs <= 0 {
			return 0
		}
		return math.Mod(pos, s.TotalDurationMs)
	}
	return math.Min(pos, s.TotalDurationMs)
}

// CurrentFrameIndex returns the frame shown at the current position, in
// [0, FrameCount-1]. It returns -1 for an empty sequence.
func (s State) CurrentFrameIndex() int {
	if s.FrameCount <= 0 {
		return -1
	}

	index := int(math.Floor(s.EffectivePosition() / s.FrameDurationMs))
	if index < 0 {
		return 0
	}
	if index > s.FrameCount-1 {
		return s.FrameCount - 1
	}
	return index
}

// Finished reports whether a clamped sequence has reached its end.
func (s State) Finished() bool {
	return !s.Repeat && s.EffectivePosition() >= s.TotalDurationMs
}
