package util

import (
	"math/rand"

	"github.com/fogleman/ease"
)

// RandomiseSaturation picks a value in [min, max) from r.
func RandomiseSaturation(r *rand.Rand, min float64, max float64) float64 {
	return r.Float64()*(max-min) + min
}

// GenerateLut builds a symmetric brightness envelope that eases from 0 up
// to its peak at the middle and back down again.
func GenerateLut(length int) []float64 {
	lut := make([]float64, length)
	if length < 2 {
		for i := range lut {
			lut[i] = 1
		}
		return lut
	}

	half := float64(length / 2)
	for i, j := 0, length-1; i <= j; i, j = i+1, j-1 {
		value := float64(i) / half
		lut[i] = ease.InOutQuad(value)
		lut[j] = ease.InOutQuad(value)
	}
	return lut
}
