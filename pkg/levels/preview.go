package levels

import(
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/symalign/pkg/raster"
)

// Transfer function types, as named by SVG feComponentTransfer.
const(
	FuncLinear = "linear"
	FuncGamma  = "gamma"
)

// A TransferFunc maps one channel in a stage. Linear uses Slope and
// Intercept; gamma computes Amplitude*x^Exponent + Offset.
type TransferFunc struct {
	Type      string  `yaml:"type"`
	Slope     float64 `yaml:"slope,omitempty"`
	Intercept float64 `yaml:"intercept,omitempty"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Exponent  float64 `yaml:"exponent,omitempty"`
	Offset    float64 `yaml:"offset,omitempty"`
}

// A Stage is one per-channel transfer step; the renderer clamps to
// [0,1] after every stage.
type Stage struct {
	Name string       `yaml:"name"`
	R    TransferFunc `yaml:"r"`
	G    TransferFunc `yaml:"g"`
	B    TransferFunc `yaml:"b"`
}

// FilterGraph is an inert description of the tone curve for a
// renderer that evaluates it per pixel, at display time.
type FilterGraph struct {
	Stages []Stage `yaml:"stages"`
}

// DescribePreview builds the stretch, gamma and remap stages for the
// three curves.
func DescribePreview(r, g, b CurveParameters) FilterGraph {
	stage := func(name string, fn func(CurveParameters) TransferFunc) Stage {
		return Stage{Name: name, R: fn(r), G: fn(g), B: fn(b)}
	}

	return FilterGraph{Stages: []Stage{
		stage("stretch", func(p CurveParameters) TransferFunc {
			return TransferFunc{Type: FuncLinear, Slope: p.InputSlope, Intercept: p.InputIntercept}
		}),
		stage("gamma", func(p CurveParameters) TransferFunc {
			return TransferFunc{Type: FuncGamma, Amplitude: 1, Exponent: p.Exponent, Offset: 0}
		}),
		stage("remap", func(p CurveParameters) TransferFunc {
			return TransferFunc{Type: FuncLinear, Slope: p.OutputSlope, Intercept: p.OutputIntercept}
		}),
	}}
}

func (s Stage)channel(ch int) TransferFunc {
	switch ch {
	case 1:  return s.G
	case 2:  return s.B
	default: return s.R
	}
}

// Eval applies the function to one normalized value.
func (f TransferFunc)Eval(x float64) float64 {
	switch f.Type {
	case FuncLinear:
		return f.Slope*x + f.Intercept
	case FuncGamma:
		return f.Amplitude*math.Pow(x, f.Exponent) + f.Offset
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 { return 0 }
	if x > 1 { return 1 }
	return x
}

// Evaluate is a reference renderer: it runs one channel value (ch is
// 0,1,2 for R,G,B) through every stage, clamping after each, and
// quantizes by rounding to nearest the way filter backends do. It can
// land one level above the export path, which floors.
//
// Must stay in float64: a float32 stretch leaves ~1e-8 at the black
// point, and a gamma of 0.15 lifts that by a dozen levels.
func (g FilterGraph)Evaluate(ch int, v uint8) uint8 {
	x := float64(v) / 255.0
	for _, s := range g.Stages {
		x = clamp01(s.channel(ch).Eval(x))
	}
	return uint8(math.Round(x * 255.0))
}

// Render runs the graph over a whole buffer, alpha passed through.
func (g FilterGraph)Render(buf *raster.Buffer) *raster.Buffer {
	if buf == nil {
		return nil
	}
	luts := [3][256]uint8{}
	for ch := range luts {
		for v := range luts[ch] {
			luts[ch][v] = g.Evaluate(ch, uint8(v))
		}
	}

	out := buf.Clone()
	for i:=0; i<len(out.Pix); i+=4 {
		for ch:=0; ch<3; ch++ {
			out.Pix[i+ch] = luts[ch][out.Pix[i+ch]]
		}
	}
	return out
}

func (g FilterGraph)AsYaml() string {
	b, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Sprintf("filtergraph: %v", err)
	}
	return string(b)
}

// SVG element tree for a <filter>; attributes only appear when set.
type svgFilter struct {
	XMLName     xml.Name      `xml:"filter"`
	ID          string        `xml:"id,attr"`
	ColorInterp string        `xml:"color-interpolation-filters,attr"`
	Transfers   []svgTransfer `xml:"feComponentTransfer"`
}

type svgTransfer struct {
	Result string  `xml:"result,attr,omitempty"`
	FuncR  svgFunc `xml:"feFuncR"`
	FuncG  svgFunc `xml:"feFuncG"`
	FuncB  svgFunc `xml:"feFuncB"`
}

type svgFunc struct {
	Type      string `xml:"type,attr"`
	Slope     string `xml:"slope,attr,omitempty"`
	Intercept string `xml:"intercept,attr,omitempty"`
	Amplitude string `xml:"amplitude,attr,omitempty"`
	Exponent  string `xml:"exponent,attr,omitempty"`
	Offset    string `xml:"offset,attr,omitempty"`
}

func svgNum(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func (f TransferFunc)svg() svgFunc {
	s := svgFunc{Type: f.Type}
	switch f.Type {
	case FuncLinear:
		s.Slope, s.Intercept = svgNum(f.Slope), svgNum(f.Intercept)
	case FuncGamma:
		s.Amplitude, s.Exponent, s.Offset = svgNum(f.Amplitude), svgNum(f.Exponent), svgNum(f.Offset)
	}
	return s
}

// SVG renders the graph as a <filter> element of chained
// feComponentTransfer primitives. Channel maths happens in sRGB
// space, the same space the export path works in.
func (g FilterGraph)SVG(id string) ([]byte, error) {
	f := svgFilter{ID: id, ColorInterp: "sRGB"}
	for _, s := range g.Stages {
		f.Transfers = append(f.Transfers, svgTransfer{
			Result: s.Name,
			FuncR:  s.R.svg(),
			FuncG:  s.G.svg(),
			FuncB:  s.B.svg(),
		})
	}

	b, err := xml.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("svg filter '%s': %v", id, err)
	}
	return b, nil
}
