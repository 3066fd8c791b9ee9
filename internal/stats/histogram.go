package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// maxGapUs caps recorded gaps; anything slower saturates the top bucket.
const maxGapUs = int64(time.Hour / time.Microsecond)

// GapHistogram records inter-arrival gaps between delivery opportunities.
// Values are stored in microseconds and reported in milliseconds.
type GapHistogram struct {
	hist *hdrhistogram.Histogram
}

func NewGapHistogram() *GapHistogram {
	// 1us to 1h, 3 significant figures
	return &GapHistogram{hist: hdrhistogram.New(1, maxGapUs, 3)}
}

func (h *GapHistogram) RecordMs(gapMs int64) error {
	us := gapMs * 1000
	if us > maxGapUs {
		us = maxGapUs
	}
	if us < 1 {
		us = 1
	}
	return h.hist.RecordValue(us)
}

func (h *GapHistogram) QuantileMs(q float64) float64 {
	return float64(h.hist.ValueAtQuantile(q)) / 1000.0
}

func (h *GapHistogram) MaxMs() float64 {
	return float64(h.hist.Max()) / 1000.0
}

func (h *GapHistogram) Count() int64 {
	return h.hist.TotalCount()
}
