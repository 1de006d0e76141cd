package imageio

import (
	"image"
	"image/color"
	"math"

	"github.com/andresmejia3/pixelvault/pkg/stego"
)

// Heatmap marks every pixel whose data lanes differ between orig and modified.
// Black = No change, green to red = growing difference.
func Heatmap(orig, modified *stego.PixelBuffer) (*image.NRGBA, error) {
	// Compare validates geometry.
	if _, err := stego.Compare(orig, modified); err != nil {
		return nil, err
	}

	heatmap := image.NewNRGBA(image.Rect(0, 0, orig.Width, orig.Height))
	lanes := orig.Channels
	if orig.HasAlpha() {
		lanes--
	}

	for p := 0; p < orig.Width*orig.Height; p++ {
		base := p * orig.Channels
		var diffSum float64
		for i := base; i < base+lanes; i++ {
			diffSum += math.Abs(float64(orig.Pix[i]) - float64(modified.Pix[i]))
		}

		c := color.NRGBA{A: 255}
		if diffSum > 0 {
			// A difference of 1 becomes 50 brightness.
			intensity := uint8(math.Min(255, diffSum*50))
			c.R, c.G = intensity, 255-intensity
		}
		heatmap.SetNRGBA(p%orig.Width, p/orig.Width, c)
	}
	return heatmap, nil
}
