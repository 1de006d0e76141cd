// Package imageio converts between image files and stego pixel buffers.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresmejia3/pixelvault/pkg/stego"
	"golang.org/x/image/bmp"
)

type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

var (
	ErrEmptyFile           = errors.New("image file is empty")
	ErrLossyFormat         = errors.New("format cannot store pixels losslessly")
	ErrUnsupportedChannels = errors.New("channel count cannot be stored in an image file")
	ErrUnknownFormat       = errors.New("unknown image format")
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Lossless reports whether pixels survive an encode and decode unchanged.
func (f Format) Lossless() bool {
	return f == PNG || f == BMP
}

// Check reports whether a buffer with the given channel count can be written
// in f and read back unchanged. BMP has no grey+alpha form and Go's decoder
// drops the alpha of 32-bit files.
func (f Format) Check(channels int) error {
	if !f.Lossless() {
		return fmt.Errorf("%w: %s", ErrLossyFormat, f)
	}
	switch {
	case channels == 2:
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	case channels == 4 && f == BMP:
		return fmt.Errorf("%w: %d channels in %s", ErrUnsupportedChannels, channels, f)
	}
	return nil
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Load decodes the image at path.
func Load(path string) (*stego.PixelBuffer, Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads an image and converts it to a pixel buffer. Grey images give
// one channel, images with transparency four, everything else three.
func Decode(r io.Reader) (*stego.PixelBuffer, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	format, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	return ToBuffer(img), format, nil
}

// ToBuffer copies img into a tightly packed pixel buffer.
func ToBuffer(img image.Image) *stego.PixelBuffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if isGrey(img) {
		buf := stego.NewPixelBuffer(width, height, 1)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
				buf.Pix[y*width+x] = g.Y
			}
		}
		return buf
	}

	channels := 4
	if isOpaque(img) {
		channels = 3
	}
	buf := stego.NewPixelBuffer(width, height, channels)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = c.R, c.G, c.B
			if channels == 4 {
				buf.Pix[i+3] = c.A
			}
			i += channels
		}
	}
	return buf
}

func isGrey(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray:
		return true
	case *image.Paletted:
		for _, c := range m.Palette {
			r, g, b, a := c.RGBA()
			if r != g || g != b || a != 0xffff {
				return false
			}
		}
		return len(m.Palette) > 0
	}
	return false
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

// ToImage wraps buf in an image that encodes back to the same channels.
func ToImage(buf *stego.PixelBuffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)

	switch buf.Channels {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, buf.Pix)
		return img, nil
	case 3:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(buf.Pix); i, j = i+3, j+4 {
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], 0xff
		}
		return img, nil
	case 4:
		img := image.NewNRGBA(rect)
		copy(img.Pix, buf.Pix)
		return img, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, buf.Channels)
}

// Encode writes buf in format, which must pass Check for its channels.
func Encode(w io.Writer, buf *stego.PixelBuffer, format Format) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := format.Check(buf.Channels); err != nil {
		return err
	}
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	return EncodeImage(w, img, format)
}

func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %s", ErrLossyFormat, format)
}

// Save writes buf to path in the format named by its extension.
func Save(path string, buf *stego.PixelBuffer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := format.Check(buf.Channels); err != nil {
		return err
	}
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	return SaveImage(path, img)
}

func SaveImage(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeImage(file, img, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
