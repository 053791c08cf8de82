// Package scale maps data domains to pixel ranges and back.
package scale

import (
	"math"
	"strconv"

	"github.com/TheHeat/moods/src/moods"
)

// Linear interpolates between a domain [D0,D1] and a range [R0,R1].
// Ranges may be inverted (R0 > R1), as for a y axis growing downward.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear builds a mapping from domain to pixel range.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map converts a domain value to a pixel. A degenerate domain maps to the range midpoint.
func (l Linear) Map(v float64) float64 {
	dd := l.D1 - l.D0
	if dd == 0 {
		return (l.R0 + l.R1) / 2
	}
	return l.R0 + (v-l.D0)/dd*(l.R1-l.R0)
}

// Invert converts a pixel back to the domain. A degenerate range inverts to D0.
func (l Linear) Invert(px float64) float64 {
	rr := l.R1 - l.R0
	if rr == 0 {
		return l.D0
	}
	return l.D0 + (px-l.R0)/rr*(l.D1-l.D0)
}

// Domain returns [D0,D1].
func (l Linear) Domain() (float64, float64) { return l.D0, l.D1 }

// DayDomain is the fixed x domain: [min,max] over all days. Empty data gives
// [0,1]; a single day d gives [d-0.5,d+0.5].
func DayDomain(records []moods.Record) (float64, float64) {
	if len(records) == 0 {
		return 0, 1
	}
	lo, hi := float64(records[0].Day), float64(records[0].Day)
	for _, r := range records[1:] {
		d := float64(r.Day)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

// ValueDomain is [0, max] rounded outward to a nice tick step.
func ValueDomain(max float64) (float64, float64) {
	if max <= 0 || math.IsNaN(max) || math.IsInf(max, 0) {
		max = 1
	}
	return Nice(0, max, 10)
}

// tickStep picks a 1/2/5 × 10^k step giving roughly count intervals over [lo,hi].
func tickStep(lo, hi float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	span := hi - lo
	if span <= 0 {
		return 1
	}
	raw := span / float64(count)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	norm := raw / mag
	switch {
	case norm >= 7.0710678118654755: // sqrt(50)
		return 10 * mag
	case norm >= 3.1622776601683795: // sqrt(10)
		return 5 * mag
	case norm >= 1.4142135623730951: // sqrt(2)
		return 2 * mag
	}
	return mag
}

// Nice extends [lo,hi] outward to multiples of the tick step.
func Nice(lo, hi float64, count int) (float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return lo, hi
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo, lo + 1
	}
	step := tickStep(lo, hi, count)
	return round6(math.Floor(lo/step) * step), round6(math.Ceil(hi/step) * step)
}

// Ticks returns the tick values covering [lo,hi] inclusive.
func Ticks(lo, hi float64, count int) []float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) || hi <= lo {
		return []float64{lo}
	}
	step := tickStep(lo, hi, count)
	start := math.Ceil(lo/step) * step
	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > hi+step*1e-9 {
			break
		}
		out = append(out, round6(v))
	}
	return out
}

// round6 rounds to 6 decimal places to stabilise float drift in tick values.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatTick gives a compact axis label.
func FormatTick(v float64) string {
	if math.Abs(v) >= 100 {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return strconv.FormatFloat(round6(v), 'f', -1, 64)
}
