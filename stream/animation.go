package stream

// An Animation implements a way to render a specific animation.
type Animation interface {
	CalculateFrame(runtimeMs int64) *Frame
}

// An Attacher is an Animation that wants to know when it becomes active, so
// that its playback can start from the beginning at that runtime.
type Attacher interface {
	Attach(runtimeMs int64)
}
