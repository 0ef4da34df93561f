package raster

import(
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// A Buffer is a decoded raster: Width x Height pixels, 4 bytes each
// (R,G,B,A, not premultiplied), row-major from the top-left corner.
// This byte order is the only contract between the loaders, the tone
// engine and the writers.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBuffer allocates a zeroed (transparent black) buffer.
func NewBuffer(w, h int) (*Buffer, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("raster: bad dimensions %dx%d", w, h)
	}
	return &Buffer{Width: w, Height: h, Pix: make([]uint8, 4*w*h)}, nil
}

// WrapPixels makes a Buffer around an existing RGBA byte slice, without copying it.
func WrapPixels(w, h int, pix []uint8) (*Buffer, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("raster: bad dimensions %dx%d", w, h)
	}
	if len(pix) != 4*w*h {
		return nil, fmt.Errorf("raster: %dx%d needs %d bytes, got %d", w, h, 4*w*h, len(pix))
	}
	return &Buffer{Width: w, Height: h, Pix: pix}, nil
}

// FromImage copies any image.Image into a fresh Buffer, converting to
// non-premultiplied 8-bit RGBA.
func FromImage(img image.Image) *Buffer {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Buffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

func (b *Buffer)String() string {
	return fmt.Sprintf("raster[%dx%d]", b.Width, b.Height)
}

func (b *Buffer)Empty() bool       { return b == nil || b.Width == 0 || b.Height == 0 }
func (b *Buffer)NumPixels() int    { return b.Width * b.Height }
func (b *Buffer)Stride() int       { return 4 * b.Width }
func (b *Buffer)Offset(x, y int) int { return y*b.Stride() + 4*x }

// Clone returns a deep copy; the export path works on one of these, never on the source.
func (b *Buffer)Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Image returns an *image.NRGBA that shares the buffer's pixels.
func (b *Buffer)Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

func (b *Buffer)NRGBAAt(x, y int) color.NRGBA {
	i := b.Offset(x, y)
	return color.NRGBA{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

func (b *Buffer)SetNRGBA(x, y int, c color.NRGBA) {
	i := b.Offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
}
