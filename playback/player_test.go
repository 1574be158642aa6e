package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T, repeat bool) *Player {
	t.Helper()
	p, err := NewPlayer(testFrames, testFrameDuration, repeat)
	require.NoError(t, err)
	return p
}

func TestPlayerInvalidFrameDuration(t *testing.T) {
	_, err := NewPlayer(73, 0, false)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestPlayerJumpForward(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(0)

	index, changed := p.Update(10000)
	assert.True(t, changed)
	assert.Equal(t, 40, index)
	assert.GreaterOrEqual(t, p.PlaybackPosition(), 10000.0)
}

func TestPlayerJumpBack(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(0)
	p.Update(10000)
	require.GreaterOrEqual(t, p.PlaybackPosition(), 10000.0)

	index, changed := p.Update(0)
	assert.True(t, changed)
	assert.Equal(t, 0, index)
	assert.Less(t, p.PlaybackPosition(), 10000.0)
}

func TestPlayerDoesNotLoopIfDisabled(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(p.Duration())
	for now := p.Duration(); now < p.Duration()+10*16; now += 16 {
		p.Update(now)
	}

	assert.GreaterOrEqual(t, p.PlaybackPosition(), p.Duration()-1000)
	assert.Equal(t, 72, p.CurrentFrameIndex())
	assert.True(t, p.Finished())
}

func TestPlayerLoopsIfEnabled(t *testing.T) {
	p := newTestPlayer(t, false)
	p.SetRepeat(true)
	assert.Equal(t, Looping, p.Mode())

	start := p.Duration() - 2000
	p.Update(start)
	assert.Equal(t, p.Duration()-2000, p.PlaybackPosition())

	seenEnd, looped := false, false
	for now := start; now < start+4000; now += 16 {
		p.Update(now)
		pos := p.PlaybackPosition()
		if pos >= p.Duration()-1000 {
			seenEnd = true
		} else if seenEnd {
			looped = true
			break
		}
	}
	assert.True(t, seenEnd)
	assert.True(t, looped)
}

func TestPlayerPositionWrapsAndClamps(t *testing.T) {
	looping := newTestPlayer(t, true)
	looping.Update(0)
	index, _ := looping.Update(20250)
	assert.Equal(t, 8, index)
	assert.Equal(t, 2000.0, looping.PlaybackPosition())
	assert.Equal(t, 20250.0, looping.ClockPosition())
	assert.Less(t, looping.PlaybackPosition(), looping.Duration())

	clamped := newTestPlayer(t, false)
	index, _ = clamped.Update(100000)
	assert.Equal(t, 72, index)
	assert.Equal(t, clamped.Duration(), clamped.PlaybackPosition())
	assert.Equal(t, 100000.0, clamped.ClockPosition())
	assert.True(t, clamped.Finished())

	clamped.Update(-500)
	assert.Equal(t, 0.0, clamped.PlaybackPosition())
}

func TestPlayerReportsChangesOnce(t *testing.T) {
	p := newTestPlayer(t, false)

	index, changed := p.Update(0)
	assert.Equal(t, 0, index)
	assert.True(t, changed)

	_, changed = p.Update(100)
	assert.False(t, changed)

	index, changed = p.Update(260)
	assert.Equal(t, 1, index)
	assert.True(t, changed)
}

func TestPlayerStopAndPlay(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(1000)
	p.Stop()
	assert.False(t, p.IsPlaying())

	p.Update(5000)
	assert.Equal(t, 1000.0, p.PlaybackPosition(), "stopped playback holds")

	p.Play()
	p.Update(5500)
	assert.Equal(t, 1500.0, p.PlaybackPosition(), "resumes from where it stopped")
	assert.True(t, p.IsPlaying())
}

func TestPlayerSeek(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(1000)

	p.Seek(5000)
	assert.Equal(t, 20, p.CurrentFrameIndex())

	p.Update(1250)
	assert.Equal(t, 5250.0, p.PlaybackPosition())
}

func TestPlayerGotoFrame(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(0)

	p.GotoFrame(10)
	assert.Equal(t, 2500.0, p.PlaybackPosition())
	assert.Equal(t, 10, p.CurrentFrameIndex())

	p.GotoFrame(500)
	assert.Equal(t, 72, p.CurrentFrameIndex())

	p.GotoFrame(-3)
	assert.Equal(t, 0, p.CurrentFrameIndex())
}

func TestPlayerRestart(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(9000)
	p.Stop()

	p.Restart()
	assert.True(t, p.IsPlaying())
	assert.Equal(t, 0.0, p.PlaybackPosition())

	p.Update(9500)
	assert.Equal(t, 500.0, p.PlaybackPosition())
}

func TestPlayerAttach(t *testing.T) {
	p := newTestPlayer(t, false)
	p.Update(60000)
	p.Attach(60000)

	index, changed := p.Update(60000)
	assert.Equal(t, 0, index)
	assert.True(t, changed, "first update after attach always displays")

	p.Update(62000)
	assert.Equal(t, 2000.0, p.PlaybackPosition())
}

func TestPlayerResize(t *testing.T) {
	p, err := NewPlayer(0, 250, false)
	require.NoError(t, err)
	index, _ := p.Update(1000)
	assert.Equal(t, -1, index)

	p.Resize(10)
	index, changed := p.Update(1000)
	assert.Equal(t, 4, index)
	assert.True(t, changed)
	assert.Equal(t, 2500.0, p.Duration())
}
