package trace

import (
	"math"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/exp/rand"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/stat/distuv"
)

var log = logging.Logger("weaktrace/trace")

const (
	// MTUBytes is the size of one delivery opportunity.
	MTUBytes = 1500
	MTUBits  = MTUBytes * 8

	// PeriodSec is the length of one full bandwidth oscillation.
	PeriodSec = 30.0

	// IntervalJitter bounds the second, per-interval perturbation (±10%).
	IntervalJitter = 0.1

	// MinIntervalMs keeps consecutive opportunities at least 1ms apart.
	MinIntervalMs = 1.0
)

var ErrInvalidParams = xerrors.New("invalid trace parameters")

// Trace is an ordered list of delivery opportunities in milliseconds.
type Trace []int64

// Params are the immutable inputs of a single generation run.
type Params struct {
	DurationSec float64
	MinKbps     float64
	MaxKbps     float64
	Variation   float64
	Seed        uint64
}

func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"duration", p.DurationSec},
		{"min_kbps", p.MinKbps},
		{"max_kbps", p.MaxKbps},
		{"variation", p.Variation},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return xerrors.Errorf("%s %v is not a finite number: %w", f.name, f.v, ErrInvalidParams)
		}
	}
	if p.DurationSec <= 0 {
		return xerrors.Errorf("duration %v must be positive: %w", p.DurationSec, ErrInvalidParams)
	}
	if p.MinKbps <= 0 {
		return xerrors.Errorf("min_kbps %v must be positive: %w", p.MinKbps, ErrInvalidParams)
	}
	if p.MaxKbps <= 0 {
		return xerrors.Errorf("max_kbps %v must be positive: %w", p.MaxKbps, ErrInvalidParams)
	}
	if p.MinKbps > p.MaxKbps {
		return xerrors.Errorf("min_kbps %v exceeds max_kbps %v: %w", p.MinKbps, p.MaxKbps, ErrInvalidParams)
	}
	if p.Variation < 0 || p.Variation >= 1 {
		return xerrors.Errorf("variation %v must be in [0, 1): %w", p.Variation, ErrInvalidParams)
	}
	return nil
}

// DurationMs is the exclusive upper bound of every timestamp in the trace.
func (p Params) DurationMs() float64 {
	return p.DurationSec * 1000
}

// generator owns the random stream of one run. Noise and jitter draw from
// the same source, in that order, once per opportunity.
type generator struct {
	p      Params
	noise  distuv.Uniform
	jitter distuv.Uniform
}

func newGenerator(p Params) *generator {
	src := rand.NewSource(p.Seed)
	return &generator{
		p:      p,
		noise:  distuv.Uniform{Min: 1 - p.Variation, Max: 1 + p.Variation, Src: src},
		jitter: distuv.Uniform{Min: 1 - IntervalJitter, Max: 1 + IntervalJitter, Src: src},
	}
}

// targetKbps maps the sine phase at t onto [MinKbps, MaxKbps].
func (g *generator) targetKbps(tMs float64) float64 {
	cycle := math.Mod(tMs/1000, PeriodSec)
	sine := math.Sin(2 * math.Pi * cycle / PeriodSec)
	return g.p.MinKbps + (g.p.MaxKbps-g.p.MinKbps)*(sine+1)/2
}

// bandwidthAt returns the noisy bandwidth sample at t, clamped into range.
func (g *generator) bandwidthAt(tMs float64) float64 {
	kbps := g.targetKbps(tMs) * g.noise.Rand()
	return math.Max(g.p.MinKbps, math.Min(g.p.MaxKbps, kbps))
}

// intervalFor converts a bandwidth sample to the gap before the next
// opportunity. kbps is bits per millisecond, so MTUBits/kbps is in ms.
func (g *generator) intervalFor(kbps float64) float64 {
	interval := float64(MTUBits) / kbps
	interval *= g.jitter.Rand()
	return math.Max(MinIntervalMs, interval)
}

// maxCapacityHint bounds the up-front allocation; longer traces grow by append.
const maxCapacityHint = 1 << 20

// capacityHint estimates the trace length from the mean bandwidth, honoring
// the 1ms interval floor.
func capacityHint(p Params) int {
	avgInterval := math.Max(MinIntervalMs, float64(MTUBits)/((p.MinKbps+p.MaxKbps)/2))
	est := math.Min(p.DurationMs()/avgInterval, maxCapacityHint)
	return int(est) + 1
}

// Generate synthesizes the delivery opportunities for p. The random stream
// is seeded from p.Seed and owned by this call, so equal Params always
// produce equal traces.
func Generate(p Params) (Trace, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := newGenerator(p)
	limit := p.DurationMs()
	tr := make(Trace, 0, capacityHint(p))

	for t := 0.0; t < limit; {
		interval := g.intervalFor(g.bandwidthAt(t))
		tr = append(tr, int64(math.Floor(t)))
		t += interval
	}

	log.Debugw("generated trace", "seed", p.Seed, "opportunities", len(tr), "duration_ms", limit)
	return tr, nil
}

// GenerateFile generates a trace for p and persists it to path.
func GenerateFile(path string, p Params) (Trace, error) {
	tr, err := Generate(p)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(path, tr); err != nil {
		return nil, err
	}
	return tr, nil
}
