package raster

import(
	"github.com/nfnt/resize"
)

// Probe returns a copy of the buffer scaled to the given width, keeping
// the aspect ratio, for cheap statistics. A width <= 0, or equal to the
// buffer's own width, returns the buffer itself.
func (b *Buffer)Probe(width int) *Buffer {
	if b.Empty() || width <= 0 || width == b.Width {
		return b
	}

	height := width * b.Height / b.Width
	if height < 1 { height = 1 }

	img := resize.Resize(uint(width), uint(height), b.Image(), resize.Bilinear)
	return FromImage(img)
}
