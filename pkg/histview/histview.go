package histview

// Draws the levels panel: the histogram, the clipped regions dimmed,
// and the three handles along the bottom.

import(
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/symalign/pkg/levels"
)

const(
	DefaultWidth  = 280
	DefaultHeight = 120
	handleGutter  = 25 // pixels below the bars, for the handles
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var(
	barColors = map[levels.ChannelMode]colorful.Color{
		levels.Luminance: mustHex("#6366f1"), // indigo
		levels.Red:       mustHex("#ef4444"),
		levels.Green:     mustHex("#22c55e"),
		levels.Blue:      mustHex("#3b82f6"),
	}
	baselineColor = mustHex("#525252")
	black         = mustHex("#000000")
	white         = mustHex("#ffffff")
	grey          = mustHex("#808080")
)

// Render draws the histogram for the given mode, with the handles at
// pts, on a width x height canvas. Bars are scaled so the tallest
// bucket fills the graph area.
func Render(h levels.Histogram, pts levels.ControlPoints, mode levels.ChannelMode, width, height int) image.Image {
	if width <= 0  { width = DefaultWidth }
	if height <= handleGutter { height = DefaultHeight }

	w := float64(width)
	graphH := float64(height - handleGutter)
	track := levels.Track{Width: w}

	dc := gg.NewContext(width, height)

	bar := barColors[mode]
	dc.SetRGBA(bar.R, bar.G, bar.B, 0.6)
	barW := w / 256.0
	for i, v := range h.Normalized() {
		if v > 0 {
			dc.DrawRectangle(float64(i)*barW, graphH-v*graphH, barW, v*graphH)
		}
	}
	dc.Fill()

	// Dim what the black and white points clip away
	bx, mx, wx := track.ValToX(pts.Black), track.ValToX(pts.Mid), track.ValToX(pts.White)
	dc.SetRGBA(black.R, black.G, black.B, 0.7)
	dc.DrawRectangle(0, 0, bx, graphH)
	dc.DrawRectangle(wx, 0, w-wx, graphH)
	dc.Fill()

	dc.SetColor(baselineColor)
	dc.SetLineWidth(1)
	dc.DrawLine(0, graphH, w, graphH)
	dc.Stroke()

	handle(dc, bx, graphH, 7, black, white)
	handle(dc, wx, graphH, 7, white, black)
	if pts.White > pts.Black+2 {
		handle(dc, mx, graphH, 6, grey, white)
	}

	return dc.Image()
}

// handle is a triangle with its apex on the baseline at x.
func handle(dc *gg.Context, x, y, halfW float64, fill, outline colorful.Color) {
	dc.MoveTo(x, y)
	dc.LineTo(x-halfW, y+12)
	dc.LineTo(x+halfW, y+12)
	dc.ClosePath()

	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(outline)
	dc.SetLineWidth(2)
	dc.Stroke()
}
