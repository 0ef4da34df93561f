package symalign

import(
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/symalign/pkg/histview"
	"github.com/abworrall/symalign/pkg/levels"
	"github.com/abworrall/symalign/pkg/raster"
	"github.com/abworrall/symalign/pkg/viewport"
)

// A Session is one image being aligned and tone corrected: the loaded
// source, levels settings for R, G and B, the channel being edited, its
// histogram, where the layer sits, and the pointer state for the levels
// handles and the layer itself.
type Session struct {
	Config

	Source    *raster.Source
	Channels  levels.Channels
	Mode      levels.ChannelMode
	Histogram levels.Histogram
	View      viewport.Layout // starts as Config.Layout for each image

	drag      *levels.DragModel
	pan       viewport.Pan
}

func NewSession() *Session {
	s := &Session{Config: NewConfig()}
	s.Reset()
	return s
}

func (s *Session)String() string {
	if !s.HasImage() {
		return "Session[no image]"
	}
	return fmt.Sprintf("Session[%s, mode %s, %s, %s]", s.Source, s.Mode, s.Channels, s.View)
}

func (s *Session)HasImage() bool { return s.Source != nil && !s.Source.Empty() }

// Reset drops the image and all edits.
func (s *Session)Reset() {
	s.Source = nil
	s.Channels.Reset()
	s.Mode = levels.Luminance
	s.Histogram = levels.Histogram{}
	s.View = s.Layout
	s.drag = nil
	s.pan = viewport.Pan{}
}

func (s *Session)dragModel() *levels.DragModel {
	if s.drag == nil {
		s.drag = levels.NewDragModel(s.TrackWidth, s.HitRadius)
	}
	return s.drag
}

func (s *Session)LoadFile(filename string) error {
	src, err := raster.Load(filename)
	if err != nil {
		return err
	}
	s.Load(src)
	return nil
}

// Load makes src the session's image. Levels go back to identity, the
// layer goes back to the configured placement and the histogram is
// rebuilt.
func (s *Session)Load(src *raster.Source) {
	s.Source = src
	s.Channels.Reset()
	s.Refresh()

	log.Printf("Loaded %s\n", src)
}

// Refresh picks up a changed Config: the histogram is rebuilt at the
// probe width, the layer is put back where the config says, and the
// drag model is remade for the track geometry. Levels are kept.
func (s *Session)Refresh() {
	s.View = s.Layout
	s.drag = nil
	s.pan = viewport.Pan{}
	s.rebuildHistogram()
}

// Recentre drops the offset and rotation, keeping the ghost settings.
func (s *Session)Recentre() { s.View.Recentre() }

func (s *Session)rebuildHistogram() {
	if !s.HasImage() {
		s.Histogram = levels.Histogram{}
		return
	}
	s.Histogram = levels.BuildHistogram(s.Source.Buffer, s.ProbeWidth, s.Mode)
	if s.Verbosity > 0 {
		log.Printf("Histogram (%s): %s\n", s.Mode, s.Histogram.Stats())
	}
}

// SetMode picks the channel to edit, and rebuilds the histogram for it.
func (s *Session)SetMode(m levels.ChannelMode) {
	if s.Mode == m {
		return
	}
	s.Mode = m
	s.rebuildHistogram()
}

// Settings are the values shown for the current mode.
func (s *Session)Settings() levels.Settings { return s.Channels.Get(s.Mode) }

// Update edits the current mode's settings; in composite mode, the
// edit goes to all three channels.
func (s *Session)Update(fn func(*levels.Settings)) {
	s.Channels.Update(s.Mode, fn)
	if s.Verbosity > 1 {
		log.Printf("Levels (%s): %s\n", s.Mode, s.Settings())
	}
}

// AutoLevels sets the input black and white points of the current mode
// from its histogram. It returns false, and changes nothing, if there
// is nothing to measure.
func (s *Session)AutoLevels() bool {
	black, white, ok := levels.AutoLevels(s.Histogram, s.ClipFraction)
	if !ok {
		return false
	}
	s.Update(func(ls *levels.Settings) {
		ls.InputBlack, ls.InputWhite = int(black), int(white)
	})
	log.Printf("Auto levels (%s, clip %.3f%%): black %d, white %d\n", s.Mode, s.ClipFraction*100, black, white)
	return true
}

// Pointer events on the levels panel, x in panel pixels.

func (s *Session)PointerDown(x float64) levels.DragState {
	return s.dragModel().PointerDown(x, s.Settings().ControlPoints())
}

// PointerMove saturates the edit against each target channel's own
// points, so a composite drag cannot unorder a channel that was edited
// on its own.
func (s *Session)PointerMove(x float64) bool {
	e, ok := s.dragModel().Target(x)
	if ok {
		s.Update(e.ApplyWithin)
	}
	return ok
}

func (s *Session)PointerUp()    { s.dragModel().PointerUp() }
func (s *Session)PointerLeave() { s.dragModel().PointerLeave() }

// Drag grabs a handle directly (no hit test, so overlapping handles
// are fine) and drops it at value. The value saturates at whatever the
// other handles allow.
func (s *Session)Drag(h levels.Handle, value int) error {
	m := s.dragModel()
	if !m.Grab(h) {
		return fmt.Errorf("drag: no handle '%s'", h)
	}
	s.PointerMove(m.Track.ValToX(value))
	s.PointerUp()
	return nil
}

// Pointer events on the viewport, for moving the layer.

func (s *Session)PanDown(x, y float64)      { s.pan.Down(x, y, s.View) }
func (s *Session)PanMove(x, y float64) bool { return s.pan.Move(x, y, &s.View) }
func (s *Session)PanUp()                    { s.pan.Up() }

func (s *Session)Rotate(deg float64)        { s.View.Rotation = deg }

// Curves solves the current settings for R, G and B.
func (s *Session)Curves() [3]levels.CurveParameters { return s.Channels.Solve() }

// Preview describes the current curves for a live renderer.
func (s *Session)Preview() levels.FilterGraph {
	c := s.Curves()
	return levels.DescribePreview(c[0], c[1], c[2])
}

func (s *Session)Parity() levels.ParityReport { return levels.CheckParity(s.Curves()) }

// Export applies the curves to the full resolution image, and places
// the result on the export canvas. The settings are snapshotted first.
func (s *Session)Export() (*raster.Buffer, error) {
	if !s.HasImage() {
		return nil, fmt.Errorf("export: no image loaded")
	}

	curves := s.Curves()
	if s.Verbosity > 0 {
		log.Printf("Exporting %s with curves R:%s G:%s B:%s\n", s.Source.Filename(), curves[0], curves[1], curves[2])
	}

	corrected := levels.ApplyCurveN(s.Source.Buffer, curves, s.Workers)
	return s.View.Export(corrected)
}

func (s *Session)ExportToFile(filename string) error {
	if filename == "" {
		filename = s.OutputFilename
	}
	out, err := s.Export()
	if err != nil {
		return err
	}
	if err := raster.Write(out, filename); err != nil {
		return err
	}
	log.Printf("Wrote %s (%s)\n", filename, out)
	return nil
}

// Ghost renders the tone corrected ghost layer on the export canvas.
func (s *Session)Ghost() (*raster.Buffer, error) {
	if !s.HasImage() {
		return nil, fmt.Errorf("ghost: no image loaded")
	}
	c := s.Curves()
	return s.View.Ghost(levels.ApplyCurveN(s.Source.Buffer, c, s.Workers))
}

func (s *Session)GhostToFile(filename string) error {
	out, err := s.Ghost()
	if err != nil {
		return err
	}
	if err := raster.Write(out, filename); err != nil {
		return err
	}
	log.Printf("Wrote ghost layer %s\n", filename)
	return nil
}

// RenderHistogram draws the levels panel for the current mode to a PNG.
func (s *Session)RenderHistogram(filename string) error {
	img := histview.Render(s.Histogram, s.Settings().ControlPoints(), s.Mode, int(s.TrackWidth), s.TrackHeight)
	return raster.WritePNG(img, filename)
}

// WritePreview saves the filter graph, as an SVG <filter> if the
// filename ends in .svg, else as YAML.
func (s *Session)WritePreview(filename string) error {
	g := s.Preview()

	var b []byte
	if strings.ToLower(filepath.Ext(filename)) == ".svg" {
		svg, err := g.SVG("levels-complex")
		if err != nil {
			return err
		}
		b = svg
	} else {
		b = []byte(g.AsYaml())
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		return fmt.Errorf("write preview '%s': %v", filename, err)
	}
	return nil
}
