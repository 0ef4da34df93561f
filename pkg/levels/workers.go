package levels

import(
	"runtime"
	"sync"
)

// A rowBand is a horizontal strip of an image, rows [Y0,Y1). Bands
// never overlap, so a worker may write into its own rows freely.
type rowBand struct {
	Index  int
	Y0, Y1 int
}

// splitRows cuts height rows into at most n bands of near-equal size.
func splitRows(height, n int) []rowBand {
	if n < 1 { n = 1 }
	if n > height { n = height }

	bands := []rowBand{}
	for i:=0; i<n; i++ {
		y0 := i * height / n
		y1 := (i+1) * height / n
		if y1 > y0 {
			bands = append(bands, rowBand{Index: len(bands), Y0: y0, Y1: y1})
		}
	}
	return bands
}

func numWorkers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// runBands uses a pool of goroutines to call fn once for each band, and
// returns when they have all finished.
func runBands(bands []rowBand, nWorkers int, fn func(rowBand)) {
	var wg sync.WaitGroup
	jobsChan := make(chan rowBand, len(bands))

	nWorkers = numWorkers(nWorkers)
	if nWorkers > len(bands) { nWorkers = len(bands) }

	// Kick off worker pool
	for i:=0; i<nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for band := range jobsChan {
				fn(band)
			}
		}()
	}

	// Feed in jobs
	for _, band := range bands {
		jobsChan<- band
	}

	close(jobsChan)
	wg.Wait()
}
