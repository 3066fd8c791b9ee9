package stats

import (
	"math"

	"weaktrace/internal/trace"
)

// Summary describes one generated trace.
type Summary struct {
	Opportunities int
	// AvgIntervalMs is last timestamp over count, matching what mahimahi
	// users expect from the generator's report.
	AvgIntervalMs float64
	P50GapMs      float64
	P99GapMs      float64
	MaxGapMs      float64
	// MeanKbps is the bandwidth implied over the whole requested duration.
	MeanKbps float64
	// PerSecond holds the number of opportunities that fall in each second.
	PerSecond []uint64
}

func Summarize(tr trace.Trace, p trace.Params) Summary {
	if len(tr) == 0 {
		return Summary{}
	}

	s := Summary{
		Opportunities: len(tr),
		AvgIntervalMs: float64(tr[len(tr)-1]) / float64(len(tr)),
		PerSecond:     make([]uint64, int(math.Ceil(p.DurationSec))),
	}
	if p.DurationSec > 0 {
		s.MeanKbps = float64(len(tr)) * trace.MTUBits / 1000 / p.DurationSec
	}

	h := NewGapHistogram()
	for i, ts := range tr {
		if i > 0 {
			// RecordMs clamps into the histogram's range, so it cannot fail.
			_ = h.RecordMs(ts - tr[i-1])
		}
		if sec := int(ts / 1000); sec < len(s.PerSecond) {
			s.PerSecond[sec]++
		}
	}
	if h.Count() > 0 {
		s.P50GapMs = h.QuantileMs(50)
		s.P99GapMs = h.QuantileMs(99)
		s.MaxGapMs = h.MaxMs()
	}
	return s
}

// KbpsPerSecond converts PerSecond counts to implied bandwidth samples.
func (s Summary) KbpsPerSecond() []uint64 {
	out := make([]uint64, len(s.PerSecond))
	for i, n := range s.PerSecond {
		out[i] = n * trace.MTUBits / 1000
	}
	return out
}

// Downsample averages data into at most width buckets.
func Downsample(data []uint64, width int) []uint64 {
	if width <= 0 || len(data) <= width {
		return append([]uint64(nil), data...)
	}
	out := make([]uint64, width)
	for i := range out {
		lo := i * len(data) / width
		hi := (i + 1) * len(data) / width
		var sum uint64
		for _, v := range data[lo:hi] {
			sum += v
		}
		out[i] = sum / uint64(hi-lo)
	}
	return out
}

// LoadFraction places MeanKbps inside [min, max], clamped to [0, 1].
func (s Summary) LoadFraction(p trace.Params) float64 {
	span := p.MaxKbps - p.MinKbps
	if span <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, (s.MeanKbps-p.MinKbps)/span))
}
