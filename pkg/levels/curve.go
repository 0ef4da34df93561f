package levels

import(
	"fmt"
	"math"

	"github.com/abworrall/symalign/pkg/emath"
)

const(
	midNormMin = 0.01
	midNormMax = 0.99

	// Added before flooring, so that values the maths says are exact
	// integers (e.g. 245/255*255) don't drop a level to float error.
	quantizeEpsilon = 1e-6
)

// CurveParameters describe the three stage transform, on values
// normalized to [0,1]:
//
//   x = clamp(x*InputSlope + InputIntercept, 0, 1)   // stretch
//   x = x^Exponent                                   // gamma
//   x = clamp(x*OutputSlope + OutputIntercept, 0, 1) // remap
//
// Both the export path (Map, LUT) and the preview descriptor are built
// from the same values.
type CurveParameters struct {
	InputSlope      float64 `yaml:"input_slope"`
	InputIntercept  float64 `yaml:"input_intercept"`
	Exponent        float64 `yaml:"exponent"`
	OutputSlope     float64 `yaml:"output_slope"`
	OutputIntercept float64 `yaml:"output_intercept"`
}

func (p CurveParameters)String() string {
	return fmt.Sprintf("stretch(%.4f,%+.4f) gamma(%.4f) remap(%.4f,%+.4f)",
		p.InputSlope, p.InputIntercept, p.Exponent, p.OutputSlope, p.OutputIntercept)
}

// SolveCurve turns levels settings into curve parameters. It never
// fails: a white point at or below the black point is treated as
// black+1, and the midpoint is kept away from the rails before the log.
func SolveCurve(s Settings) CurveParameters {
	black := s.InputBlack
	white := s.InputWhite
	if white <= black {
		white = black + 1
	}
	inputRange := float64(white - black)

	p := CurveParameters{
		InputSlope:      255.0 / inputRange,
		InputIntercept:  -float64(black) / inputRange,
		OutputSlope:     float64(s.OutputWhite - s.OutputBlack) / 255.0,
		OutputIntercept: float64(s.OutputBlack) / 255.0,
	}

	// A midpoint within half a level of the centre of the input range
	// is neutral; 128 on 0..255 must not shift every byte down by one.
	// This deliberately overrides ln(.5)/ln(midNorm) near the centre
	// (mid 127 gives 1, not 0.9943); see "Neutral midpoint" in DESIGN.md.
	if d := 2*(s.Midpoint-black) - (white-black); d >= -1 && d <= 1 {
		p.Exponent = 1.0
		return p
	}

	midNorm := emath.Clamp(float64(s.Midpoint-black) / inputRange, midNormMin, midNormMax)
	p.Exponent = math.Log(0.5) / math.Log(midNorm)

	return p
}

// Eval runs the curve on a normalized value.
func (p CurveParameters)Eval(x float64) float64 {
	x = emath.Clamp(x*p.InputSlope + p.InputIntercept, 0, 1)
	x = math.Pow(x, p.Exponent)
	return emath.Clamp(x*p.OutputSlope + p.OutputIntercept, 0, 1)
}

// Map runs the curve on one 8-bit channel value, quantizing by floor.
func (p CurveParameters)Map(v uint8) uint8 {
	q := math.Floor(p.Eval(float64(v)/255.0) * 255.0 + quantizeEpsilon)
	return uint8(emath.Clamp(q, 0, 255))
}

// LUT tabulates Map for every possible input byte.
func (p CurveParameters)LUT() [256]uint8 {
	lut := [256]uint8{}
	for i := range lut {
		lut[i] = p.Map(uint8(i))
	}
	return lut
}
