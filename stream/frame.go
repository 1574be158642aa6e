package stream

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPixels is the strip length used when the config does not set one.
const DefaultPixels = 500

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a black Frame with numPixels pixels.
func NewFrame(numPixels int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, numPixels)
	return f
}

// Len returns the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// Pixel returns the colour at index i.
func (f *Frame) Pixel(i int) colorful.Color {
	return f.pixels[i]
}

// SetPixel sets the colour at index i.
func (f *Frame) SetPixel(i int, c colorful.Color) {
	f.pixels[i] = c
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c colorful.Color) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := NewFrame(len(f.pixels))
	copy(out.pixels, f.pixels)
	return out
}

// InterpolateFrame merges two frames. Pixels beyond the shorter frame are
// taken from f.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := f.Clone()
	n := int(math.Min(float64(len(f.pixels)), float64(len(f2.pixels))))
	for i := 0; i < n; i++ {
		out.pixels[i] = f.pixels[i].BlendHcl(f2.pixels[i], transitionPoint).Clamped()
	}

	return out
}

// MarshalBinary converts a Frame into binary data: a little endian uint16
// pixel count followed by one RGB triple per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
