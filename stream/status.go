package stream

// Status is a point-in-time view of a FrameAnimation's playback.
type Status struct {
	Animation       string  `json:"animation"`
	RuntimeMs       int64   `json:"runtimeMs"`
	FrameIndex      int     `json:"frameIndex"`
	FrameCount      int     `json:"frameCount"`
	FramesProcessed int     `json:"framesProcessed"`
	PositionMs      float64 `json:"positionMs"`
	ClockPositionMs float64 `json:"clockPositionMs"`
	DurationMs      float64 `json:"durationMs"`
	Repeat          bool    `json:"repeat"`
	Mode            string  `json:"mode"`
	Playing         bool    `json:"playing"`
	Finished        bool    `json:"finished"`
	Transitioning   bool    `json:"transitioning"`
}

// sameDisplay reports whether two snapshots show the same frame in the same
// mode, ignoring the clock.
func (s Status) sameDisplay(o Status) bool {
	return s.Animation == o.Animation &&
		s.FrameIndex == o.FrameIndex &&
		s.FramesProcessed == o.FramesProcessed &&
		s.Repeat == o.Repeat &&
		s.Playing == o.Playing &&
		s.Transitioning == o.Transitioning
}
