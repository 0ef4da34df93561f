package levels

import(
	"fmt"
	"math"
	"strings"

	"github.com/abworrall/symalign/pkg/emath"
	"github.com/abworrall/symalign/pkg/raster"
)

// ChannelMode selects the scalar that the histogram counts, and which
// channels an edit is written to. Luminance is the composite "RGB" mode.
type ChannelMode int

const(
	Luminance ChannelMode = iota
	Red
	Green
	Blue
)

var channelModeNames = [...]string{"rgb", "red", "green", "blue"}

func (m ChannelMode)String() string {
	if m < Luminance || m > Blue {
		return fmt.Sprintf("ChannelMode(%d)", int(m))
	}
	return channelModeNames[m]
}

// ParseChannelMode accepts the names printed by String, plus a few
// abbreviations (lum, luminance, r, g, b).
func ParseChannelMode(s string) (ChannelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb", "lum", "luminance", "": return Luminance, nil
	case "red", "r":                    return Red, nil
	case "green", "g":                  return Green, nil
	case "blue", "b":                   return Blue, nil
	}
	return Luminance, fmt.Errorf("channel mode '%s' not recognized (want rgb, red, green or blue)", s)
}

// Intensity is the scalar that a pixel contributes to a histogram in the given mode.
func Intensity(r, g, b uint8, mode ChannelMode) uint8 {
	switch mode {
	case Red:   return r
	case Green: return g
	case Blue:  return b
	}
	luma := emath.Rec601Luma.Dot(emath.Vec3{float64(r), float64(g), float64(b)})
	return uint8(emath.Clamp(math.Round(luma), 0, 255))
}

// A Histogram holds 256 raw counts, index = 8-bit intensity. Nothing
// normalizes it in place; see Normalized.
type Histogram [256]int

// Total is the number of pixels that were counted.
func (h Histogram)Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Max is the largest bucket count, and is never less than 1 so that
// callers can divide by it.
func (h Histogram)Max() int {
	max := 1
	for _, c := range h {
		if c > max { max = c }
	}
	return max
}

// Normalized scales the counts so the tallest bucket is 1.0. An
// all-zero histogram yields all zeros.
func (h Histogram)Normalized() [256]float64 {
	ret := [256]float64{}
	max := float64(h.Max())
	for i, c := range h {
		ret[i] = float64(c) / max
	}
	return ret
}

func (h Histogram)String() string {
	return fmt.Sprintf("histogram[total=%d, max=%d]", h.Total(), h.Max())
}

// BuildHistogram downsamples the buffer to probeWidth (keeping the
// aspect ratio) and counts every probe pixel. A zero-area buffer gives
// an all-zero histogram.
func BuildHistogram(buf *raster.Buffer, probeWidth int, mode ChannelMode) Histogram {
	if buf.Empty() {
		return Histogram{}
	}
	return CountHistogram(buf.Probe(probeWidth), mode, 0)
}

// CountHistogram counts every pixel of the buffer at its own
// resolution. Rows are split into bands, counted in parallel, and the
// per-band histograms summed in band order.
func CountHistogram(buf *raster.Buffer, mode ChannelMode, workers int) Histogram {
	h := Histogram{}
	if buf.Empty() {
		return h
	}

	bands := splitRows(buf.Height, numWorkers(workers))
	partials := make([]Histogram, len(bands))

	runBands(bands, workers, func(band rowBand) {
		part := &partials[band.Index]
		for i := buf.Offset(0, band.Y0); i < buf.Offset(0, band.Y1); i += 4 {
			part[Intensity(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], mode)]++
		}
	})

	for _, part := range partials {
		for i, c := range part {
			h[i] += c
		}
	}
	return h
}
