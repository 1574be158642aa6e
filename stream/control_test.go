package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestControl(t *testing.T) (*Control, *Controller, *FrameAnimation) {
	t.Helper()
	anim, err := BuildAnimation(AnimationConfig{Name: "bar", Pattern: PatternBar, Frames: 73, FrameDurationMs: 250, Fore: "white"}, 8)
	require.NoError(t, err)
	other := &solidAnimation{colour: red}

	var config Config
	config.Mqtt.Topics.Control = "tree/control"
	controller := NewController([]Animation{anim, other}, 0, 0)
	return NewControl(config, nil, controller), controller, anim
}

func TestControlApply(t *testing.T) {
	c, controller, anim := newTestControl(t)
	controller.CalculateFrame(0)

	require.NoError(t, c.Apply([]byte(`{"type": "seek", "positionMs": 10000}`)))
	controller.CalculateFrame(0)
	assert.Equal(t, 40, anim.Status().FrameIndex)

	require.NoError(t, c.Apply([]byte(`{"type": "goto", "frame": 12}`)))
	controller.CalculateFrame(0)
	assert.Equal(t, 12, anim.Status().FrameIndex)

	require.NoError(t, c.Apply([]byte(`{"type": "stop"}`)))
	assert.False(t, anim.Status().Playing)
	require.NoError(t, c.Apply([]byte(`{"type": "play"}`)))
	assert.True(t, anim.Status().Playing)

	require.NoError(t, c.Apply([]byte(`{"type": "repeat", "repeat": true}`)))
	assert.True(t, anim.Status().Repeat)
	assert.Equal(t, 3000.0, anim.Status().PositionMs, "toggling repeat keeps the position")

	require.NoError(t, c.Apply([]byte(`{"type": "restart"}`)))
	assert.Equal(t, 0.0, anim.Status().PositionMs)
}

func TestControlApplyErrors(t *testing.T) {
	c, _, _ := newTestControl(t)

	assert.ErrorIs(t, c.Apply([]byte(`{"type": "rewind"}`)), ErrUnknownCommand)
	assert.Error(t, c.Apply([]byte(`not json`)))
}

func TestControlNext(t *testing.T) {
	c, controller, _ := newTestControl(t)

	require.NoError(t, c.Apply([]byte(`{"type": "next"}`)))
	_, ok := controller.Active().(*solidAnimation)
	assert.True(t, ok)

	assert.ErrorIs(t, c.Apply([]byte(`{"type": "stop"}`)), ErrNotPlayable)
}
