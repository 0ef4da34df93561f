package symalign

import(
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abworrall/symalign/pkg/levels"
	"github.com/abworrall/symalign/pkg/raster"
)

// testSource is a w x h image whose red channel ramps from 50 to 200
// across the width; green is constant and blue is zero.
func testSource(t *testing.T, w, h int) *raster.Source {
	t.Helper()
	b, err := raster.NewBuffer(w, h)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			r := 50 + 150*x/(w-1)
			b.SetNRGBA(x, y, color.NRGBA{uint8(r), 90, 0, 255})
		}
	}
	return &raster.Source{LoadFilename: "test.png", Format: "png", Orientation: raster.OrientNormal, Buffer: b}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.ProbeWidth = 0 // count every pixel
	s.Load(testSource(t, 64, 16))
	return s
}

func TestNewSession(t *testing.T) {
	s := NewSession()
	if s.HasImage() {
		t.Fatal("new session should have no image")
	}
	if diff := cmp.Diff(levels.NewChannels(), s.Channels); diff != "" {
		t.Fatalf("channels (-want +got):\n%s", diff)
	}
	if s.ProbeWidth != 300 || s.HitRadius != 15 || s.TrackWidth != 280 || s.ClipFraction != levels.DefaultClipFraction {
		t.Fatalf("defaults: %+v", s.Config)
	}
	if _, err := s.Export(); err == nil {
		t.Fatal("export with no image should fail")
	}
}

func TestLoadResets(t *testing.T) {
	s := loadedSession(t)
	s.Update(func(ls *levels.Settings) { ls.InputBlack = 40 })
	s.View.X, s.View.Rotation = 30, 12

	s.Load(testSource(t, 32, 8))
	if !s.Settings().IsIdentity() {
		t.Fatalf("settings after load: %s", s.Settings())
	}
	if s.View.X != 0 || s.View.Rotation != 0 || !s.View.MirrorH {
		t.Fatalf("layout after load: %s", s.View)
	}
	if got := s.Histogram.Total(); got != 32*8 {
		t.Fatalf("histogram total %d, want %d", got, 32*8)
	}

	s.Reset()
	if s.HasImage() || s.Histogram.Total() != 0 {
		t.Fatalf("after reset: %s", s)
	}
}

func TestSetMode(t *testing.T) {
	s := loadedSession(t)

	s.SetMode(levels.Green)
	if s.Histogram[90] != s.Histogram.Total() {
		t.Fatalf("green histogram should all be at 90: %s", s.Histogram)
	}
	s.SetMode(levels.Blue)
	if s.Histogram[0] != 64*16 {
		t.Fatalf("blue histogram should all be at 0: %s", s.Histogram)
	}
}

func TestAutoLevelsPerMode(t *testing.T) {
	s := loadedSession(t)
	s.SetMode(levels.Red)

	if !s.AutoLevels() {
		t.Fatal("auto levels did nothing")
	}
	got := s.Settings()
	if got.InputBlack != 50 || got.InputWhite != 200 || got.Midpoint != 128 {
		t.Fatalf("red after auto levels: %s", got)
	}
	if !s.Channels[1].IsIdentity() || !s.Channels[2].IsIdentity() {
		t.Fatalf("auto levels on red touched other channels: %s", s.Channels)
	}

	empty := NewSession()
	if empty.AutoLevels() {
		t.Fatal("auto levels with no histogram should be a no-op")
	}
}

func TestDrag(t *testing.T) {
	s := loadedSession(t)

	tests := []struct {
		h     levels.Handle
		to    int
		want  levels.ControlPoints
	}{
		{levels.BlackHandle, 255, levels.ControlPoints{Black: 127, Mid: 128, White: 255}},
		{levels.WhiteHandle, 0, levels.ControlPoints{Black: 127, Mid: 128, White: 129}},
		{levels.MidHandle, 300, levels.ControlPoints{Black: 127, Mid: 128, White: 129}},
		{levels.BlackHandle, 10, levels.ControlPoints{Black: 10, Mid: 128, White: 129}},
		{levels.MidHandle, 60, levels.ControlPoints{Black: 10, Mid: 60, White: 129}},
	}
	for _, tt := range tests {
		if err := s.Drag(tt.h, tt.to); err != nil {
			t.Fatalf("drag %s: %v", tt.h, err)
		}
		if got := s.Settings().ControlPoints(); got != tt.want {
			t.Fatalf("drag %s to %d: got %s, want %s", tt.h, tt.to, got, tt.want)
		}
	}

	// Composite mode wrote all three channels.
	for i, c := range s.Channels {
		if c.ControlPoints() != tests[len(tests)-1].want {
			t.Fatalf("channel %d: %s", i, c)
		}
	}

	if err := s.Drag(levels.NoHandle, 5); err == nil {
		t.Fatal("expected error dragging no handle")
	}
}

// A composite drag must respect each channel's own points, after a
// channel has been edited on its own.
func TestCompositeDragKeepsChannelsOrdered(t *testing.T) {
	s := loadedSession(t)

	s.SetMode(levels.Green)
	s.Drag(levels.WhiteHandle, 60)
	s.Drag(levels.MidHandle, 50)
	if got, want := s.Settings().ControlPoints(), (levels.ControlPoints{Black: 0, Mid: 50, White: 129}); got != want {
		t.Fatalf("green after edits: got %s, want %s", got, want)
	}

	s.SetMode(levels.Luminance)
	s.Drag(levels.MidHandle, 200)
	s.Drag(levels.BlackHandle, 220)

	want := []levels.ControlPoints{
		{Black: 199, Mid: 200, White: 255},
		{Black: 127, Mid: 128, White: 129},
		{Black: 199, Mid: 200, White: 255},
	}
	for i, c := range s.Channels {
		if !c.ControlPoints().Ordered() {
			t.Fatalf("channel %d out of order: %s", i, c)
		}
		if c.ControlPoints() != want[i] {
			t.Fatalf("channel %d: got %s, want %s", i, c.ControlPoints(), want[i])
		}
	}
}

func TestPointerEvents(t *testing.T) {
	s := loadedSession(t)
	s.SetMode(levels.Blue)

	if state := s.PointerDown(280); state != levels.DraggingWhite {
		t.Fatalf("pointer down at the right edge: %s", state)
	}
	if !s.PointerMove(140) {
		t.Fatal("move should have made an edit")
	}
	s.PointerLeave()
	if s.PointerMove(0) {
		t.Fatal("move after leave should do nothing")
	}

	if got := s.Channels[2].InputWhite; got != 129 {
		t.Fatalf("blue white point: got %d", got)
	}
	if !s.Channels[0].IsIdentity() {
		t.Fatalf("red should be untouched: %s", s.Channels[0])
	}
}

func TestPan(t *testing.T) {
	s := loadedSession(t)
	s.PanDown(10, 10)
	s.PanMove(25, 0)
	s.PanUp()
	if s.View.X != 15 || s.View.Y != -10 {
		t.Fatalf("layout after pan: %s", s.View)
	}
}

func TestRefreshAndRecentre(t *testing.T) {
	s := loadedSession(t)
	s.Update(func(ls *levels.Settings) { ls.Midpoint = 90 })
	s.Layout.X, s.Layout.Rotation = 7, 45
	s.ProbeWidth = 32

	s.Refresh()
	if s.View.X != 7 || s.View.Rotation != 45 {
		t.Fatalf("view should follow the config: %s", s.View)
	}
	if got := s.Histogram.Total(); got != 32*8 {
		t.Fatalf("histogram at new probe width: total %d", got)
	}
	if s.Settings().Midpoint != 90 {
		t.Fatal("refresh should keep the levels")
	}

	s.Rotate(10)
	s.Recentre()
	if s.View.X != 0 || s.View.Rotation != 0 || !s.View.MirrorH {
		t.Fatalf("after recentre: %s", s.View)
	}
}

func TestExportToFile(t *testing.T) {
	s := loadedSession(t)
	s.Drag(levels.BlackHandle, 50)
	s.Drag(levels.WhiteHandle, 200)
	s.Drag(levels.MidHandle, 125)

	dir := t.TempDir()
	filename := filepath.Join(dir, "out.png")
	if err := s.ExportToFile(filename); err != nil {
		t.Fatalf("export: %v", err)
	}

	out, err := raster.Load(filename)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if out.Width != 80 || out.Height != 80 {
		t.Fatalf("export canvas: %s", out)
	}

	// The centre of the canvas is mid-image: red was ~125, and the
	// stretch maps 125 to the middle of the output.
	c := out.NRGBAAt(40, 40)
	if c.A < 250 || c.R < 120 || c.R > 135 {
		t.Fatalf("centre pixel: %v", c)
	}
	if s.Source.NRGBAAt(0, 0).R != 50 {
		t.Fatal("export modified the source")
	}

	if err := s.GhostToFile(filepath.Join(dir, "ghost.png")); err != nil {
		t.Fatalf("ghost: %v", err)
	}
}

func TestWritePreviewAndHistogram(t *testing.T) {
	s := loadedSession(t)
	s.Drag(levels.MidHandle, 100)
	dir := t.TempDir()

	svgFile := filepath.Join(dir, "levels.svg")
	if err := s.WritePreview(svgFile); err != nil {
		t.Fatalf("write svg: %v", err)
	}
	b, _ := os.ReadFile(svgFile)
	if !strings.Contains(string(b), `<filter id="levels-complex"`) {
		t.Fatalf("svg:\n%s", b)
	}

	yamlFile := filepath.Join(dir, "levels.yaml")
	if err := s.WritePreview(yamlFile); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	b, _ = os.ReadFile(yamlFile)
	if !strings.Contains(string(b), "name: gamma") {
		t.Fatalf("yaml:\n%s", b)
	}

	pngFile := filepath.Join(dir, "hist.png")
	if err := s.RenderHistogram(pngFile); err != nil {
		t.Fatalf("render histogram: %v", err)
	}
	img, err := raster.Load(pngFile)
	if err != nil {
		t.Fatalf("reload histogram: %v", err)
	}
	if img.Width != 280 || img.Height != 120 {
		t.Fatalf("histogram image: %s", img)
	}

	if r := s.Parity(); !r.OK() {
		t.Fatalf("parity: %s", r)
	}
}

func TestLoadFilesAndDirs(t *testing.T) {
	dir := t.TempDir()

	img := testSource(t, 40, 20)
	if err := raster.Write(img.Buffer, filepath.Join(dir, "a.png")); err != nil {
		t.Fatalf("write image: %v", err)
	}
	cfg := "probewidth: 20\nclipfraction: 0.01\nlayout:\n  mirror_v: true\n"
	if err := os.WriteFile(filepath.Join(dir, "symalign.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	s := NewSession()
	if err := s.LoadFilesAndDirs(dir); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.HasImage() || s.Source.Filename() != "a.png" {
		t.Fatalf("image not loaded: %s", s)
	}
	if s.ProbeWidth != 20 || s.ClipFraction != 0.01 || !s.View.MirrorV || !s.View.MirrorH || s.HitRadius != 15 {
		t.Fatalf("config not loaded over defaults: %+v", s.Config)
	}
	if got := s.Histogram.Total(); got != 20*10 {
		t.Fatalf("histogram should use the configured probe: total %d", got)
	}

	if err := s.LoadFilesAndDirs(filepath.Join(dir, "a.png")); err == nil {
		t.Fatal("expected error loading a second image")
	}
	if err := s.LoadFilesAndDirs(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfigYaml(t *testing.T) {
	c := NewConfig()
	c.Layout.Rotation = 12.5
	c2, err := newConfigFromYaml([]byte(c.AsYaml()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(c, c2); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}
