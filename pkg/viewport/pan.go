package viewport

import(
	"github.com/abworrall/symalign/pkg/emath"
)

// Pan tracks a pointer drag that moves the layer around the canvas.
// The layer follows the pointer; the grab point stays under it.
type Pan struct {
	Active bool
	grabX  float64 // pointer position relative to the layer's screen offset
	grabY  float64
}

// ScreenOffset is where (X,Y) actually moves the layer centre on the
// canvas, since the offset is applied inside the rotation.
func (l Layout)ScreenOffset() (float64, float64) {
	return emath.Identity().Rotate(l.Rotation).Apply(l.X, l.Y)
}

// SetScreenOffset moves the layer centre to (dx,dy) from the canvas
// centre, whatever the rotation.
func (l *Layout)SetScreenOffset(dx, dy float64) {
	l.X, l.Y = emath.Identity().Rotate(-l.Rotation).Apply(dx, dy)
}

func (p *Pan)Down(x, y float64, l Layout) {
	p.Active = true
	sx, sy := l.ScreenOffset()
	p.grabX, p.grabY = x-sx, y-sy
}

// Move updates the layout's offset, if a pan is in progress.
func (p *Pan)Move(x, y float64, l *Layout) bool {
	if !p.Active {
		return false
	}
	l.SetScreenOffset(x-p.grabX, y-p.grabY)
	return true
}

func (p *Pan)Up() { p.Active = false }

// Recentre drops the offset and rotation, keeping the ghost settings.
func (l *Layout)Recentre() {
	l.X, l.Y, l.Rotation = 0, 0, 0
}
