package stream

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/ledreel/util"
)

// ErrUnknownPattern is returned by BuildAnimation for an unrecognised pattern.
var ErrUnknownPattern = errors.New("unknown animation pattern")

// Pattern names accepted in AnimationConfig.
const (
	PatternSweep   = "sweep"
	PatternPulse   = "pulse"
	PatternBar     = "bar"
	PatternTwinkle = "twinkle"
	PatternStreak  = "streak"
)

// SweepFrames cycles a gradient along the strip, moving it step pixels per
// frame. The sequence repeats seamlessly every trailLength/step frames.
func SweepFrames(gradient GradientTable, count, numPixels, trailLength int, step float64) []*Frame {
	frames := make([]*Frame, count)
	saturation := 1.0
	luminance := 0.05
	for k := range frames {
		f := NewFrame(numPixels)
		current := math.Mod(float64(k)*step, float64(trailLength))
		for i := 0; i < numPixels; i++ {
			t := math.Mod(float64(i+numPixels)-current, float64(trailLength)) / float64(trailLength)
			f.pixels[i] = gradient.GetColor(t, saturation, luminance)
		}
		frames[k] = f
	}
	return frames
}

// PulseFrames fades the whole strip from back up to fore and down again
// following an ease-in-out envelope.
func PulseFrames(count, numPixels int, fore, back colorful.Color) []*Frame {
	lut := util.GenerateLut(count)
	frames := make([]*Frame, count)
	for k := range frames {
		f := NewFrame(numPixels)
		f.Fill(back.BlendHcl(fore, lut[k]).Clamped())
		frames[k] = f
	}
	return frames
}

// BarFrames lights a growing prefix of the strip: frame k of count lights
// (k+1)/count of the pixels, so the last frame lights all of them.
func BarFrames(count, numPixels int, fore, back colorful.Color) []*Frame {
	frames := make([]*Frame, count)
	for k := range frames {
		f := NewFrame(numPixels)
		lit := int(math.Round(float64(k+1) / float64(count) * float64(numPixels)))
		for i := 0; i < numPixels; i++ {
			if i < lit {
				f.pixels[i] = fore
			} else {
				f.pixels[i] = back
			}
		}
		frames[k] = f
	}
	return frames
}

// TwinkleFrames scatters numParticles sparkles of varying saturation over a
// background on every frame. The same seed yields the same sequence.
func TwinkleFrames(count, numPixels, numParticles int, fore, back colorful.Color, seed int64) []*Frame {
	r := rand.New(rand.NewSource(seed))
	h, c, l := fore.Hcl()
	frames := make([]*Frame, count)
	for k := range frames {
		f := NewFrame(numPixels)
		f.Fill(back)
		if numPixels > 0 {
			for p := 0; p < numParticles; p++ {
				chroma := util.RandomiseSaturation(r, c*0.5, c)
				f.pixels[r.Intn(numPixels)] = colorful.Hcl(h, chroma, l).Clamped()
			}
		}
		frames[k] = f
	}
	return frames
}

// StreakFrames sends a streak of length pixels from one end of the strip to
// the other, fading it in over the first half of its travel and out over the
// second.
func StreakFrames(count, numPixels, length int, fore, back colorful.Color) []*Frame {
	frames := make([]*Frame, count)
	travel := float64(numPixels + length)
	for k := range frames {
		f := NewFrame(numPixels)
		f.Fill(back)

		progress := float64(k) / float64(count)
		gain := progress * 2
		if gain > 1 {
			gain = 2 - gain
		}
		colour := back.BlendHcl(fore, ease.InOutQuad(gain)).Clamped()

		start := int(math.Floor(progress*travel)) - length
		for i := start; i < start+length; i++ {
			if i >= 0 && i < numPixels {
				f.pixels[i] = colour
			}
		}
		frames[k] = f
	}
	return frames
}

// BuildAnimation generates the frames described by cfg and loads them into a
// new FrameAnimation.
func BuildAnimation(cfg AnimationConfig, numPixels int) (*FrameAnimation, error) {
	if cfg.Frames < 0 {
		return nil, fmt.Errorf("animation %q: negative frame count %d", cfg.Name, cfg.Frames)
	}
	if numPixels < 0 {
		return nil, fmt.Errorf("animation %q: negative pixel count %d", cfg.Name, numPixels)
	}
	fore, err := ParseColour(cfg.Fore)
	if err != nil {
		return nil, fmt.Errorf("animation %q: fore: %w", cfg.Name, err)
	}
	back, err := ParseColour(cfg.Back)
	if err != nil {
		return nil, fmt.Errorf("animation %q: back: %w", cfg.Name, err)
	}

	var frames []*Frame
	switch cfg.Pattern {
	case PatternSweep:
		gradient := cfg.Gradient
		if len(gradient) == 0 {
			gradient = RainbowGradient
		}
		trail := cfg.TrailLength
		if trail <= 0 {
			trail = numPixels
		}
		frames = SweepFrames(gradient, cfg.Frames, numPixels, trail, float64(trail)/float64(cfg.Frames))
	case PatternPulse:
		frames = PulseFrames(cfg.Frames, numPixels, fore, back)
	case PatternBar:
		frames = BarFrames(cfg.Frames, numPixels, fore, back)
	case PatternTwinkle:
		frames = TwinkleFrames(cfg.Frames, numPixels, cfg.Particles, fore, back, cfg.Seed)
	case PatternStreak:
		length := cfg.TrailLength
		if length <= 0 {
			length = 10
		}
		frames = StreakFrames(cfg.Frames, numPixels, length, fore, back)
	default:
		return nil, fmt.Errorf("animation %q: %w: %q", cfg.Name, ErrUnknownPattern, cfg.Pattern)
	}

	a, err := NewFrameAnimation(cfg.Name, numPixels, cfg.FrameDurationMs, cfg.Repeat)
	if err != nil {
		return nil, fmt.Errorf("animation %q: %w", cfg.Name, err)
	}
	for _, f := range frames {
		a.AddFrame(f)
	}
	return a, nil
}
