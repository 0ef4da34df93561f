package levels

import(
	"fmt"

	"github.com/codahale/hdrhistogram"
)

// Stats summarize a histogram, for logging.
type Stats struct {
	Total    int64
	Min, Max int64
	Median   int64
	Mean     float64
	StdDev   float64
	Low      int64 // value at the DefaultClipFraction percentile
	High     int64 // value at 1-DefaultClipFraction
}

func (s Stats)String() string {
	return fmt.Sprintf("n=%d, range [%d,%d], clip [%d,%d], median %d, mean %.1f, sd %.1f",
		s.Total, s.Min, s.Max, s.Low, s.High, s.Median, s.Mean, s.StdDev)
}

// Stats loads the counts into an HDR histogram and reads off the
// summary numbers. Values are recorded offset by one, as the HDR
// histogram can't track zero.
func (h Histogram)Stats() Stats {
	if h.Total() == 0 {
		return Stats{}
	}

	hh := hdrhistogram.New(1, 256, 3)
	for i, c := range h {
		if c > 0 {
			hh.RecordValues(int64(i)+1, int64(c))
		}
	}

	return Stats{
		Total:  hh.TotalCount(),
		Min:    hh.Min() - 1,
		Max:    hh.Max() - 1,
		Median: hh.ValueAtQuantile(50) - 1,
		Mean:   hh.Mean() - 1,
		StdDev: hh.StdDev(),
		Low:    hh.ValueAtQuantile(100*DefaultClipFraction) - 1,
		High:   hh.ValueAtQuantile(100*(1-DefaultClipFraction)) - 1,
	}
}
