package symalign

import(
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/symalign/pkg/histview"
	"github.com/abworrall/symalign/pkg/levels"
	"github.com/abworrall/symalign/pkg/viewport"
)

type Config struct {
	Verbosity         int

	ProbeWidth        int      // Histogram is built from a copy scaled to this width
	ClipFraction      float64  // Auto-levels clips this fraction of pixels off each end
	Workers           int      // Goroutines for the export pass; 0 means one per CPU

	TrackWidth        float64  // Width of the histogram panel, in pixels
	TrackHeight       int
	HitRadius         float64  // How close (in pixels) a pointer-down must be to grab a handle

	OutputFilename    string
	GhostFilename     string   // If set, the ghost layer is written here too
	HistogramFilename string
	PreviewFilename   string   // .svg or .yaml

	Layout            viewport.Layout
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func NewConfig() Config {
	return Config{
		ProbeWidth:     300,
		ClipFraction:   levels.DefaultClipFraction,
		TrackWidth:     histview.DefaultWidth,
		TrackHeight:    histview.DefaultHeight,
		HitRadius:      15,
		OutputFilename: "aligned-fusion-ready.png",
		Layout:         viewport.DefaultLayout(),
	}
}
