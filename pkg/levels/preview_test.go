package levels

import(
	"math/rand"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/google/go-cmp/cmp"
)

func TestDescribePreview(t *testing.T) {
	p := scenarioCurves()
	g := DescribePreview(p[0], p[1], p[2])

	if len(g.Stages) != 3 {
		t.Fatalf("want 3 stages, got %d", len(g.Stages))
	}

	want := Stage{
		Name: "gamma",
		R:    TransferFunc{Type: FuncGamma, Amplitude: 1, Exponent: p[0].Exponent},
		G:    TransferFunc{Type: FuncGamma, Amplitude: 1, Exponent: 1},
		B:    TransferFunc{Type: FuncGamma, Amplitude: 1, Exponent: 1},
	}
	if diff := cmp.Diff(want, g.Stages[1]); diff != "" {
		t.Fatalf("gamma stage (-want +got):\n%s", diff)
	}
	if s := g.Stages[2].B; s.Slope != -1 || s.Intercept != 1 {
		t.Fatalf("inverting remap stage: %+v", s)
	}
}

func TestPreviewParityIdentity(t *testing.T) {
	id := SolveCurve(IdentitySettings())
	r := CheckParity([3]CurveParameters{id, id, id})
	if r.Exact != r.Samples || r.Samples != 768 {
		t.Fatalf("identity should agree exactly: %s", r)
	}
}

func TestPreviewParity(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	randomSettings := func() Settings {
		black := rng.Intn(250)
		white := black + 2 + rng.Intn(254-black)
		mid := black + 1 + rng.Intn(white-black-1)
		ob := rng.Intn(200)
		ow := ob + 1 + rng.Intn(255-ob)
		return Settings{InputBlack: black, InputWhite: white, Midpoint: mid, OutputBlack: ob, OutputWhite: ow}
	}

	for i:=0; i<500; i++ {
		c := Channels{randomSettings(), randomSettings(), randomSettings()}
		r := CheckParity(c.Solve())
		if !r.OK() {
			t.Fatalf("%s: %s", c, r)
		}
	}

	// And over a whole buffer, rendered both ways.
	buf := randomBuffer(t, 40, 30, 9)
	p := scenarioCurves()
	exported := ApplyCurve(buf, p[0], p[1], p[2])
	previewed := DescribePreview(p[0], p[1], p[2]).Render(buf)
	for i := range exported.Pix {
		d := int(exported.Pix[i]) - int(previewed.Pix[i])
		if d < -ParityTolerance || d > ParityTolerance {
			t.Fatalf("byte %d: export %d, preview %d", i, exported.Pix[i], previewed.Pix[i])
		}
	}
}

func TestFilterGraphSVG(t *testing.T) {
	p := scenarioCurves()
	b, err := DescribePreview(p[0], p[1], p[2]).SVG("levels")
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	svg := string(b)

	for _, want := range []string{
		`<filter id="levels" color-interpolation-filters="sRGB">`,
		`<feComponentTransfer result="stretch">`,
		`<feFuncG type="gamma" amplitude="1" exponent="1" offset="0"></feFuncG>`,
		`<feFuncB type="linear" slope="-1" intercept="1"></feFuncB>`,
	} {
		if !strings.Contains(svg, want) {
			t.Fatalf("svg missing %q:\n%s", want, svg)
		}
	}
	if n := strings.Count(svg, "<feComponentTransfer"); n != 3 {
		t.Fatalf("want 3 transfer primitives, got %d", n)
	}
}

func TestFilterGraphYaml(t *testing.T) {
	p := scenarioCurves()
	g := DescribePreview(p[0], p[1], p[2])

	g2 := FilterGraph{}
	if err := yaml.Unmarshal([]byte(g.AsYaml()), &g2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(g, g2); diff != "" {
		t.Fatalf("yaml (-want +got):\n%s", diff)
	}
}
