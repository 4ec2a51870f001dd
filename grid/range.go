package grid

import (
	"math"

	"github.com/D3lph1/moebius"
	"gonum.org/v1/gonum/floats/scalar"
)

// Values are compared and rounded at nine decimals so accumulated float
// error does not leak into snapshots.
const relTol = 1e-9

// Range walks from start to end in fixed steps, clamping the last value
// onto end so both bounds come out. The walk direction follows the bound
// order: start > end counts down.
type Range struct {
	start, end, step float64
	incr             bool
	cur              float64
}

func NewRange(start, end, step float64) *Range {
	if step <= 0 {
		panic("range step must be positive")
	}
	return &Range{start: start, end: end, step: step, incr: start <= end, cur: start}
}

// Unit is a range with step one.
func Unit(a, b float64) *Range { return NewRange(a, b, 1) }

// Const is a zero width range holding a single value. It is emitted in
// snapshots but never advances.
func Const(c float64) *Range { return Unit(c, c) }

func (r *Range) Float() float64 { return r.cur }

func (r *Range) Value() moebius.Value { return moebius.Leaf(r.cur) }

// Within reports whether the range can still advance toward its end.
func (r *Range) Within() bool {
	if r.incr {
		return r.cur >= r.start && r.cur < r.end
	}
	return r.cur > r.end && r.cur <= r.start
}

// Advance moves one step toward the end, clamping onto it on overshoot or
// when the stepped value lands within tolerance of it.
func (r *Range) Advance() {
	if r.incr {
		r.cur = roundPlaces(r.cur + r.step)
		if r.cur > r.end || scalar.EqualWithinRel(r.cur, r.end, relTol) {
			r.cur = r.end
		}
		return
	}
	r.cur = roundPlaces(r.cur - r.step)
	if r.cur < r.end || scalar.EqualWithinRel(r.cur, r.end, relTol) {
		r.cur = r.end
	}
}

func (r *Range) Reset() { r.cur = r.start }

// Nearest snaps x onto the closest value the walk can emit: a whole number
// of steps out from start, bounds included. Midway values round away from
// start.
func (r *Range) Nearest(x float64) float64 {
	if r.start == r.end {
		return r.start
	}

	lo, hi := r.start, r.end
	if lo > hi {
		lo, hi = hi, lo
	}
	x = math.Min(math.Max(x, lo), hi)

	span := r.step
	if !r.incr {
		span = -r.step
	}
	v := roundPlaces(r.start + math.Round((x-r.start)/span)*span)
	if math.Abs(r.end-x) < math.Abs(v-x) {
		return r.end
	}
	return v
}

// Split cuts the covered interval into n contiguous incremental pieces of
// equal floor-divided width. Adjacent pieces share their boundary value and
// the remainder above the last piece is dropped. A zero width range splits
// into n copies of itself.
func (r *Range) Split(n int) []*Range {
	if n <= 0 {
		panic("split count must be positive")
	}
	if r.start == r.end {
		rs := make([]*Range, n)
		for i := range rs {
			rs[i] = NewRange(r.start, r.end, r.step)
		}
		return rs
	}

	lo, hi := r.start, r.end
	if lo > hi {
		lo, hi = hi, lo
	}
	w := math.Floor((hi - lo) / float64(n))

	rs := make([]*Range, n)
	for i := range rs {
		rs[i] = NewRange(lo+float64(i)*w, lo+float64(i+1)*w, r.step)
	}
	return rs
}

func (r *Range) split(n int) []Axis {
	rs := r.Split(n)
	axes := make([]Axis, len(rs))
	for i, s := range rs {
		axes[i] = s
	}
	return axes
}

func roundPlaces(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
