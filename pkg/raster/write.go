package raster

import(
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"golang.org/x/image/tiff"
)

// Write encodes the buffer to a file, picking the format from the
// extension: .png (default), .tif/.tiff, or .hdr.
func Write(b *Buffer, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		return writeWith(filename, func(f *os.File) error {
			return tiff.Encode(f, b.Image(), &tiff.Options{Compression: tiff.Deflate})
		})
	case ".hdr":
		return writeWith(filename, func(f *os.File) error { return rgbe.Encode(f, hdrView{b}) })
	default:
		return WritePNG(b.Image(), filename)
	}
}

func WritePNG(img image.Image, filename string) error {
	return writeWith(filename, func(f *os.File) error { return png.Encode(f, img) })
}

func writeWith(filename string, encode func(*os.File) error) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		if err := encode(writer); err != nil {
			return fmt.Errorf("encoding '%s': %v", filename, err)
		}
		return nil
	}
}

// hdrView presents a Buffer as a linear-light hdr.Image, for the RGBE encoder.
type hdrView struct {
	*Buffer
}

// Implement image.Image
func (v hdrView)ColorModel() color.Model   { return hdrcolor.RGBModel }
func (v hdrView)Bounds() image.Rectangle   { return image.Rect(0, 0, v.Width, v.Height) }
func (v hdrView)At(x, y int) color.Color   { return v.HDRAt(x, y) }

// Implement hdr.Image
func (v hdrView)Size() int                 { return v.NumPixels() }
func (v hdrView)HDRAt(x, y int) hdrcolor.Color {
	c := v.NRGBAAt(x, y)
	return hdrcolor.RGB{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B)}
}

func srgbToLinear(v uint8) float64 {
	f := float64(v) / 255.0
	if f <= 0.04045 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}
