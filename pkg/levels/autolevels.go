package levels

// DefaultClipFraction ignores the darkest and brightest 0.1% of pixels.
const DefaultClipFraction = 0.001

// AutoLevels picks input black and white points by clipping clip (a
// fraction, e.g. 0.001) of the counted pixels off each end of the
// histogram. The black point is the first bucket, scanning up from 0,
// where the running count reaches the threshold; white is the same
// scanning down from 255. If they cross, the result is (0, 255).
// An empty histogram gives ok=false, and the caller should leave the
// settings alone.
func AutoLevels(h Histogram, clip float64) (black, white uint8, ok bool) {
	total := h.Total()
	if total == 0 {
		return 0, 255, false
	}
	if clip < 0 { clip = 0 }
	threshold := float64(total) * clip

	lo, hi := 0, 255

	sum := 0
	for i:=0; i<256; i++ {
		sum += h[i]
		if float64(sum) >= threshold {
			lo = i
			break
		}
	}

	sum = 0
	for i:=255; i>=0; i-- {
		sum += h[i]
		if float64(sum) >= threshold {
			hi = i
			break
		}
	}

	if lo >= hi {
		return 0, 255, true
	}
	return uint8(lo), uint8(hi), true
}
