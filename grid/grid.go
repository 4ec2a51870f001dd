package grid

import (
	"fmt"

	"github.com/D3lph1/moebius"
)

// Axis is one dimension of a grid: a bounded walk of values that can be
// probed, advanced and rewound. Ranges, iterators and sum iterators are
// axes, so grids nest.
type Axis interface {
	Value() moebius.Value
	Within() bool
	Advance()
	Reset()

	split(n int) []Axis
}

// Direction selects which end of the axis list the odometer carry starts
// from. Reversed, the default, starts at the last axis so the last listed
// axis varies fastest.
type Direction int

const (
	Reversed Direction = iota
	Forward
)

// Iterator enumerates the cross product of its axes like an odometer: one
// axis advances per step and the axes passed over roll back to their start.
// Snapshots always list axis values in construction order regardless of the
// carry direction.
type Iterator struct {
	axes  []Axis
	dir   Direction
	first bool
	done  bool
}

// Of groups axes into an odometer with the default direction.
func Of(axes ...Axis) *Iterator { return New(Reversed, axes...) }

func New(dir Direction, axes ...Axis) *Iterator {
	cp := make([]Axis, len(axes))
	copy(cp, axes)
	return &Iterator{axes: cp, dir: dir, first: true}
}

func (it *Iterator) Value() moebius.Value {
	elems := make([]moebius.Value, len(it.axes))
	for i, a := range it.axes {
		elems[i] = a.Value()
	}
	return moebius.Group(elems...)
}

// Within reports whether any axis can still advance.
func (it *Iterator) Within() bool {
	for _, a := range it.axes {
		if a.Within() {
			return true
		}
	}
	return false
}

// Advance performs one odometer carry: walking in the carry direction,
// exhausted axes rewind until the first axis that can advance does. At
// least one axis must be within.
func (it *Iterator) Advance() {
	n := len(it.axes)
	for i := 0; i < n; i++ {
		a := it.axes[i]
		if it.dir == Reversed {
			a = it.axes[n-1-i]
		}
		if a.Within() {
			a.Advance()
			return
		}
		a.Reset()
	}
}

// Next returns the next grid snapshot. The first call returns the starting
// combination without advancing. ok turns false once the grid is exhausted
// and stays false until Reset.
func (it *Iterator) Next() (moebius.Value, bool) {
	if it.done {
		return moebius.Value{}, false
	}
	if it.first {
		it.first = false
		return it.Value(), true
	}
	if !it.Within() {
		it.done = true
		return moebius.Value{}, false
	}
	it.Advance()
	return it.Value(), true
}

// Reset rewinds every axis and restores the initial snapshot protocol.
func (it *Iterator) Reset() {
	for _, a := range it.axes {
		a.Reset()
	}
	it.first = true
	it.done = false
}

// Nearest snaps pos onto the closest combination the grid covers, leaf by
// leaf in listed axis order. Coordinates run through a sum decorated axis
// snap onto its wrapped grid; the sum constraint is not reapplied.
func (it *Iterator) Nearest(pos []float64) []float64 {
	if n := len(it.Value().Flatten()); n != len(pos) {
		panic(fmt.Sprintf("position len %v incompatible with grid len %v", len(pos), n))
	}
	out, _ := nearestAxes(it.axes, make([]float64, 0, len(pos)), pos)
	return out
}

func nearestAxes(axes []Axis, out, pos []float64) ([]float64, []float64) {
	for _, a := range axes {
		switch ax := a.(type) {
		case *Range:
			out = append(out, ax.Nearest(pos[0]))
			pos = pos[1:]
		case *Iterator:
			out, pos = nearestAxes(ax.axes, out, pos)
		case *SumIterator:
			out, pos = nearestAxes(ax.r.axes, out, pos)
		}
	}
	return out, pos
}

// Split partitions the grid into n sub-grids: every axis splits into n
// pieces and piece i of each axis regroups into sub-grid i. Sub-grids share
// no state with the parent or each other, keep the parent's direction and
// enumerate independently.
func (it *Iterator) Split(n int) []*Iterator {
	if n <= 0 {
		panic("split count must be positive")
	}

	parts := make([][]Axis, n)
	for i := range parts {
		parts[i] = make([]Axis, 0, len(it.axes))
	}
	for _, a := range it.axes {
		for j, s := range a.split(n) {
			parts[j] = append(parts[j], s)
		}
	}

	out := make([]*Iterator, n)
	for i, axes := range parts {
		out[i] = New(it.dir, axes...)
	}
	return out
}

func (it *Iterator) split(n int) []Axis {
	its := it.Split(n)
	axes := make([]Axis, len(its))
	for i, s := range its {
		axes[i] = s
	}
	return axes
}
