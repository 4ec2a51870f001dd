package grid

import (
	"errors"

	"github.com/D3lph1/moebius"
	"gonum.org/v1/gonum/floats/scalar"
)

var UnsatisfiableErr = errors.New("no combination satisfies the sum constraint")

// SumIterator filters a grid down to the combinations whose leaves sum to a
// target value. It keeps one satisfying combination of lookahead in the
// wrapped grid, so Within answers exactly and the iterator composes as an
// axis of an outer grid.
type SumIterator struct {
	r      *Iterator
	target float64
	cur    moebius.Value
	next   moebius.Value
	nextOK bool
	first  bool
	done   bool
}

// NewSum wraps r so only combinations summing to target come out. The
// wrapped iterator advances to the first satisfying combination right away;
// UnsatisfiableErr means it has none.
func NewSum(r *Iterator, target float64) (*SumIterator, error) {
	s := &SumIterator{r: r, target: target, first: true}
	cur, ok := s.seek(false)
	if !ok {
		return nil, UnsatisfiableErr
	}
	s.cur = cur
	s.next, s.nextOK = s.seek(true)
	return s, nil
}

func (s *SumIterator) satisfied() bool {
	return scalar.EqualWithinRel(s.r.Value().Sum(), s.target, relTol)
}

// seek drives the wrapped grid to the next satisfying combination. With
// advance set the grid moves at least once before the check. The grid is
// finite and every step moves it strictly forward, so the search always
// terminates.
func (s *SumIterator) seek(advance bool) (moebius.Value, bool) {
	if advance {
		if !s.r.Within() {
			return moebius.Value{}, false
		}
		s.r.Advance()
	}
	for !s.satisfied() {
		if !s.r.Within() {
			return moebius.Value{}, false
		}
		s.r.Advance()
	}
	return s.r.Value(), true
}

func (s *SumIterator) Value() moebius.Value { return s.cur }

// Within reports whether a further satisfying combination exists beyond the
// current one.
func (s *SumIterator) Within() bool { return s.nextOK }

// Advance moves to the already sought next combination and hunts down the
// one after it.
func (s *SumIterator) Advance() {
	if !s.nextOK {
		return
	}
	s.cur = s.next
	s.next, s.nextOK = s.seek(true)
}

// Next returns the next satisfying combination. The first call returns the
// combination the constructor stopped on. ok turns false once no satisfying
// combination remains and stays false until Reset.
func (s *SumIterator) Next() (moebius.Value, bool) {
	if s.done {
		return moebius.Value{}, false
	}
	if s.first {
		s.first = false
		return s.cur, true
	}
	if !s.nextOK {
		s.done = true
		return moebius.Value{}, false
	}
	s.Advance()
	return s.cur, true
}

// Reset rewinds the wrapped grid and seeks the first two satisfying
// combinations again. Construction proved at least one exists, so the first
// seek always lands.
func (s *SumIterator) Reset() {
	s.r.Reset()
	s.cur, _ = s.seek(false)
	s.next, s.nextOK = s.seek(true)
	s.first = true
	s.done = false
}

// Split returns the wrapped unconstrained iterator as the only partition; a
// cross-axis sum constraint does not survive axis-interval cuts, so callers
// re-wrap partitions themselves when they need it.
func (s *SumIterator) Split(n int) []*Iterator {
	return []*Iterator{s.r}
}

func (s *SumIterator) split(n int) []Axis {
	return []Axis{s.r}
}
