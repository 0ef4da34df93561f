package viewport

import(
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"      // replace by "image/draw" at some point
	"golang.org/x/image/math/f64"  // replace by "image/math/f64" at some point

	"github.com/abworrall/symalign/pkg/emath"
	"github.com/abworrall/symalign/pkg/raster"
)

// CanvasMargin scales the image diagonal to give the side of the
// square export canvas, so any rotation plus a little offset still fits.
const CanvasMargin = 1.2

// A Layout is where the user has dragged and rotated the main layer,
// relative to the centre of the canvas, plus how the ghost layer is
// mirrored on top of it.
type Layout struct {
	Rotation     float64 `yaml:"rotation"`      // degrees, clockwise
	X            float64 `yaml:"x"`             // pixels, in the layer's rotated frame
	Y            float64 `yaml:"y"`
	MirrorH      bool    `yaml:"mirror_h"`      // ghost is flipped left-right about the canvas centre
	MirrorV      bool    `yaml:"mirror_v"`
	GhostOpacity float64 `yaml:"ghost_opacity"`
}

func DefaultLayout() Layout {
	return Layout{MirrorH: true, GhostOpacity: 0.5}
}

func (l Layout)String() string {
	str := fmt.Sprintf("Layout[(%.0f,%.0f)", l.X, l.Y)
	if l.Rotation != 0.0 {
		str += fmt.Sprintf(", %.2fdeg", l.Rotation)
	}
	if l.MirrorH { str += ", mirrorH" }
	if l.MirrorV { str += ", mirrorV" }
	return str + "]"
}

// CanvasSize is the side of the square canvas for a w x h image.
func CanvasSize(w, h int) int {
	return int(math.Ceil(math.Hypot(float64(w), float64(h)) * CanvasMargin))
}

// Matrix maps source pixel coords of a w x h layer onto a canvas of
// side canvas: the layer's centre goes to the canvas centre, then it is
// offset by (X,Y) in the rotated frame, then rotated about the centre.
func (l Layout)Matrix(w, h, canvas int) emath.Aff3 {
	c := float64(canvas) / 2.0

	// Remember they compose back to front - rightmost operations performed first
	return emath.Identity().
		Translate(c, c).
		Rotate(l.Rotation).
		Translate(l.X, l.Y).
		Translate(-float64(w)/2.0, -float64(h)/2.0)
}

// GhostMatrix places the ghost: the main layer's placement, then
// mirrored about the canvas centre.
func (l Layout)GhostMatrix(w, h, canvas int) emath.Aff3 {
	c := float64(canvas) / 2.0
	sx, sy := 1.0, 1.0
	if l.MirrorH { sx = -1.0 }
	if l.MirrorV { sy = -1.0 }

	mirror := emath.Identity().Translate(c, c).Scale(sx, sy).Translate(-c, -c)
	return mirror.Mult(l.Matrix(w, h, canvas))
}

// Place draws src through m onto a fresh transparent canvas, with
// Catmull-Rom smoothing.
func Place(src *raster.Buffer, m emath.Aff3, canvas int) *raster.Buffer {
	dst := image.NewNRGBA(image.Rect(0, 0, canvas, canvas))
	img := src.Image()
	draw.CatmullRom.Transform(dst, f64.Aff3(m), img, img.Bounds(), draw.Over, nil)
	return &raster.Buffer{Width: canvas, Height: canvas, Pix: dst.Pix}
}

// Export places the (already tone corrected) layer on its export canvas.
func (l Layout)Export(src *raster.Buffer) (*raster.Buffer, error) {
	if src.Empty() {
		return nil, fmt.Errorf("export: nothing to place (%v)", src)
	}
	canvas := CanvasSize(src.Width, src.Height)
	return Place(src, l.Matrix(src.Width, src.Height, canvas), canvas), nil
}

// Ghost renders the ghost layer on the same canvas as Export: mirrored,
// greyscale, inverted and faded to GhostOpacity. Compositing it over
// the main layer is left to the viewer.
func (l Layout)Ghost(src *raster.Buffer) (*raster.Buffer, error) {
	if src.Empty() {
		return nil, fmt.Errorf("ghost: nothing to place (%v)", src)
	}
	canvas := CanvasSize(src.Width, src.Height)

	tinted := src.Clone()
	opacity := emath.Clamp(l.GhostOpacity, 0.0, 1.0)
	for i:=0; i<len(tinted.Pix); i+=4 {
		p := tinted.Pix[i:i+4]
		grey := emath.Rec601Luma.Dot(emath.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		inv := 255 - uint8(emath.Clamp(math.Round(grey), 0, 255))
		p[0], p[1], p[2] = inv, inv, inv
		p[3] = uint8(math.Round(float64(p[3]) * opacity))
	}

	return Place(tinted, l.GhostMatrix(src.Width, src.Height, canvas), canvas), nil
}
