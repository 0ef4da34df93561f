package levels

import(
	"github.com/abworrall/symalign/pkg/raster"
)

// ApplyCurve returns a new buffer with each of R, G and B run through
// its own curve. Alpha is copied through; the source is not touched.
func ApplyCurve(buf *raster.Buffer, r, g, b CurveParameters) *raster.Buffer {
	return ApplyCurveN(buf, [3]CurveParameters{r, g, b}, 0)
}

// ApplyCurveN is ApplyCurve with an explicit worker count (<= 0 means
// one per CPU). The curves are tabulated once, then bands of rows are
// mapped in parallel.
func ApplyCurveN(buf *raster.Buffer, params [3]CurveParameters, workers int) *raster.Buffer {
	if buf == nil {
		return nil
	}
	out := buf.Clone()
	if out.Empty() {
		return out
	}

	luts := [3][256]uint8{params[0].LUT(), params[1].LUT(), params[2].LUT()}

	bands := splitRows(out.Height, numWorkers(workers))
	runBands(bands, workers, func(band rowBand) {
		pix := out.Pix[out.Offset(0, band.Y0):out.Offset(0, band.Y1)]
		for i:=0; i<len(pix); i+=4 {
			pix[i]   = luts[0][pix[i]]
			pix[i+1] = luts[1][pix[i+1]]
			pix[i+2] = luts[2][pix[i+2]]
		}
	})

	return out
}
