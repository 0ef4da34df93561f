package raster

// Orientation values from the EXIF Orientation tag (0x0112).
const(
	OrientNormal     = 1
	OrientMirrorH    = 2
	OrientRotate180  = 3
	OrientMirrorV    = 4
	OrientTranspose  = 5
	OrientRotate90   = 6 // 90deg clockwise needed to display upright
	OrientTransverse = 7
	OrientRotate270  = 8
)

// Reorient returns a buffer with the EXIF orientation applied, so that
// row 0 is the visual top. Browsers do this for <img> before any canvas
// sees the pixels, so we do it at load time too.
func (b *Buffer)Reorient(o int) *Buffer {
	if o <= OrientNormal || o > OrientRotate270 || b.Empty() {
		return b
	}

	w, h := b.Width, b.Height
	dw, dh := w, h
	if o >= OrientTranspose {
		dw, dh = h, w
	}
	out := &Buffer{Width: dw, Height: dh, Pix: make([]uint8, len(b.Pix))}

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			var dx, dy int
			switch o {
			case OrientMirrorH:    dx, dy = w-1-x, y
			case OrientRotate180:  dx, dy = w-1-x, h-1-y
			case OrientMirrorV:    dx, dy = x, h-1-y
			case OrientTranspose:  dx, dy = y, x
			case OrientRotate90:   dx, dy = h-1-y, x
			case OrientTransverse: dx, dy = h-1-y, w-1-x
			case OrientRotate270:  dx, dy = y, w-1-x
			}
			copy(out.Pix[out.Offset(dx, dy):out.Offset(dx, dy)+4], b.Pix[b.Offset(x, y):b.Offset(x, y)+4])
		}
	}

	return out
}
