package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/matt-g-everett/ledreel/clock"
)

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	publisher   Publisher
	topic       string
	statusTopic string
	animation   Animation
	clock       *clock.FramedClock
	interval    time.Duration

	mu         sync.Mutex
	observers  []func(Status)
	lastStatus Status
	hasStatus  bool
	lateFrames int
}

// NewStreamer creates an instance of a Streamer that samples clk once per
// frame and publishes the frames of animation.
func NewStreamer(config Config, publisher Publisher, animation Animation, clk *clock.FramedClock) *Streamer {
	s := new(Streamer)
	s.publisher = publisher
	s.topic = config.Mqtt.Topics.Stream
	s.statusTopic = config.Mqtt.Topics.Status
	s.animation = animation
	s.clock = clk
	s.interval = time.Duration(float64(time.Second) / config.Stream.FrameRate)

	return s
}

// OnStatus registers fn to be called whenever the displayed frame or the
// playback mode changes.
func (s *Streamer) OnStatus(fn func(Status)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// SendFrame samples the clock, calculates a frame and sends it as binary
// over MQTT to an ledrx device.
func (s *Streamer) SendFrame() error {
	s.clock.ProcessFrame()
	runtimeMs := int64(s.clock.CurrentTime())
	s.checkLate(s.clock.ElapsedFrameTime())

	f := s.animation.CalculateFrame(runtimeMs)
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(s.topic, b); err != nil {
		return err
	}

	if r, ok := s.animation.(StatusReporter); ok {
		s.reportStatus(r.Status())
	}
	return nil
}

// checkLate records ticks that arrived more than two frame intervals after
// the previous one.
func (s *Streamer) checkLate(elapsedMs float64) {
	intervalMs := float64(s.interval) / float64(time.Millisecond)
	if elapsedMs <= 2*intervalMs {
		return
	}

	s.mu.Lock()
	s.lateFrames++
	s.mu.Unlock()
	log.Printf("Frame late: %.0fms since the previous one, expected %.0fms", elapsedMs, intervalMs)
}

// LateFrames returns how many ticks ran late.
func (s *Streamer) LateFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lateFrames
}

func (s *Streamer) reportStatus(status Status) {
	s.mu.Lock()
	if s.hasStatus && status.sameDisplay(s.lastStatus) {
		s.mu.Unlock()
		return
	}
	s.lastStatus = status
	s.hasStatus = true
	observers := append([]func(Status){}, s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(status)
	}

	if s.statusTopic == "" {
		return
	}
	b, err := json.Marshal(status)
	if err != nil {
		log.Printf("Encoding status: %v", err)
		return
	}
	if err := s.publisher.Publish(s.statusTopic, b); err != nil {
		log.Printf("Publishing status: %v", err)
	}
}

// Run causes the Streamer to send Frames continuously until ctx is done.
func (s *Streamer) Run(ctx context.Context) {
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-publishTimer.C:
			if err := s.SendFrame(); err != nil {
				log.Printf("Sending frame: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
