package playback

// Player keeps a State in step with an external clock. While playing the
// position follows the clock; while stopped it holds. Seeking moves the
// position relative to the clock time of the last Update, so later updates
// continue from the sought position.
//
// A Player is not safe for concurrent use.
type Player struct {
	state   State
	playing bool
	offset  float64
	now     float64
	index   int
}

// NewPlayer creates a playing Player for frameCount frames of
// frameDurationMs each, positioned at the start.
func NewPlayer(frameCount int, frameDurationMs float64, repeat bool) (*Player, error) {
	if frameCount < 0 {
		frameCount = 0
	}
	state, err := NewState(float64(frameCount)*frameDurationMs, frameDurationMs, repeat)
	if err != nil {
		return nil, err
	}

	return &Player{
		state:   state,
		playing: true,
		index:   -1,
	}, nil
}

// Update feeds the clock time to the player. It returns the frame index to
// display and whether it differs from the one returned by the previous Update.
func (p *Player) Update(nowMs float64) (int, bool) {
	p.now = nowMs
	if p.playing {
		p.state = p.state.Advance(nowMs - p.offset)
	}

	index := p.state.CurrentFrameIndex()
	changed := index != p.index
	p.index = index
	return index, changed
}

// Attach rebases playback so that position zero corresponds to nowMs. Without
// it the position equals the clock time.
func (p *Player) Attach(nowMs float64) {
	p.now = nowMs
	p.Seek(0)
	p.index = -1
}

// Resize changes the number of frames, keeping position and repeat mode.
func (p *Player) Resize(frameCount int) {
	if frameCount < 0 {
		frameCount = 0
	}
	p.state.FrameCount = frameCount
	p.state.TotalDurationMs = float64(frameCount) * p.state.FrameDurationMs
}

// Seek moves the playback position. Playback continues from there if the
// player is playing.
func (p *Player) Seek(positionMs float64) {
	p.state = p.state.Advance(positionMs)
	p.offset = p.now - positionMs
}

// GotoFrame seeks to the start of the given frame, clamped to the sequence.
func (p *Player) GotoFrame(index int) {
	if index >= p.state.FrameCount {
		index = p.state.FrameCount - 1
	}
	if index < 0 {
		index = 0
	}
	p.Seek(float64(index) * p.state.FrameDurationMs)
}

// Play resumes following the clock from the current position.
func (p *Player) Play() {
	if p.playing {
		return
	}
	p.offset = p.now - p.state.PositionMs
	p.playing = true
}

// Stop freezes the playback position.
func (p *Player) Stop() {
	p.playing = false
}

// Restart seeks to the start and plays.
func (p *Player) Restart() {
	p.Seek(0)
	p.Play()
}

// SetRepeat toggles looping. The position is kept.
func (p *Player) SetRepeat(repeat bool) {
	p.state = p.state.WithRepeat(repeat)
}

// State returns a copy of the scheduler state.
func (p *Player) State() State { return p.state }

// PlaybackPosition returns the position within the sequence: wrapped into
// [0, Duration) when looping and saturated at Duration otherwise.
func (p *Player) PlaybackPosition() float64 { return p.state.EffectivePosition() }

// ClockPosition returns the position as driven by the clock, before wrapping
// or clamping.
func (p *Player) ClockPosition() float64 { return p.state.PositionMs }

// Duration returns the total duration of the sequence in milliseconds.
func (p *Player) Duration() float64 { return p.state.TotalDurationMs }

// CurrentFrameIndex returns the frame index for the current position.
func (p *Player) CurrentFrameIndex() int { return p.state.CurrentFrameIndex() }

func (p *Player) FrameCount() int { return p.state.FrameCount }
func (p *Player) IsPlaying() bool { return p.playing }
func (p *Player) Repeat() bool { return p.state.Repeat }
func (p *Player) Mode() Mode { return p.state.Mode() }
func (p *Player) Finished() bool { return p.state.Finished() }
