package stego

import (
	"fmt"
	"math"
)

// Analysis holds metrics about the comparison between two images.
type Analysis struct {
	MSE  float64 // Mean Squared Error over data lanes
	PSNR float64 // Peak Signal-to-Noise Ratio (dB)

	ChangedBytes int
	// AlphaPreserved is true when no alpha byte differs.
	AlphaPreserved bool
}

// Compare measures how much stego differs from orig. Both buffers must share
// the same geometry.
func Compare(orig, stego *PixelBuffer) (*Analysis, error) {
	if err := orig.Validate(); err != nil {
		return nil, err
	}
	if err := stego.Validate(); err != nil {
		return nil, err
	}
	if orig.Width != stego.Width || orig.Height != stego.Height || orig.Channels != stego.Channels {
		return nil, fmt.Errorf("image dimensions do not match: %dx%dx%d vs %dx%dx%d",
			orig.Width, orig.Height, orig.Channels, stego.Width, stego.Height, stego.Channels)
	}

	result := &Analysis{AlphaPreserved: true}
	alpha := orig.HasAlpha()
	var sumSquaredError float64
	var samples int

	for i := range orig.Pix {
		isAlpha := alpha && i%orig.Channels == orig.Channels-1
		if orig.Pix[i] != stego.Pix[i] {
			result.ChangedBytes++
			if isAlpha {
				result.AlphaPreserved = false
			}
		}
		if isAlpha {
			continue
		}
		diff := float64(orig.Pix[i]) - float64(stego.Pix[i])
		sumSquaredError += diff * diff
		samples++
	}

	result.MSE = sumSquaredError / float64(samples)
	result.PSNR = 10 * math.Log10((255*255)/result.MSE)
	return result, nil
}
