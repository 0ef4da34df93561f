package levels

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ParityTolerance is how many levels the preview may differ from the
// export, per channel. The export floors, filter backends round.
const ParityTolerance = 1

// A ParityReport compares the export path against the preview
// descriptor over every input byte of every channel.
type ParityReport struct {
	Samples  int
	Exact    int     // samples where both paths agree
	MaxDiff  float64 // in 8-bit levels
	MeanDiff float64
	Worst    [3]int  // per channel, the input byte with the largest difference
}

func (r ParityReport)OK() bool { return r.MaxDiff <= ParityTolerance }

func (r ParityReport)String() string {
	return fmt.Sprintf("parity: %d/%d exact, max diff %.0f, mean diff %.4f (worst R@%d G@%d B@%d)",
		r.Exact, r.Samples, r.MaxDiff, r.MeanDiff, r.Worst[0], r.Worst[1], r.Worst[2])
}

// CheckParity runs all 256 byte values through both paths.
func CheckParity(params [3]CurveParameters) ParityReport {
	graph := DescribePreview(params[0], params[1], params[2])
	diffs := make([]float64, 0, 3*256)
	r := ParityReport{}

	for ch, p := range params {
		worst := -1.0
		for v:=0; v<256; v++ {
			d := math.Abs(float64(p.Map(uint8(v))) - float64(graph.Evaluate(ch, uint8(v))))
			if d == 0 {
				r.Exact++
			}
			if d > worst {
				worst = d
				r.Worst[ch] = v
			}
			diffs = append(diffs, d)
		}
	}

	r.Samples = len(diffs)
	r.MaxDiff = floats.Max(diffs)
	r.MeanDiff = stat.Mean(diffs, nil)

	return r
}
