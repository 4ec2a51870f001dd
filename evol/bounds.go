// Package evol supplies the operators an evolutionary driver applies to
// parameter-graph models: node mutators bounded by span trees, crossovers
// exchanging parameter blocks between models, and the overlap objective.
package evol

import (
	"errors"

	"github.com/D3lph1/moebius"
)

// ShapeErr reports a bounds tree that does not line up with the value tree
// it is applied to.
var ShapeErr = errors.New("bounds shape does not match the value shape")

// Bounds is a tree of spans shaped like the value tree it constrains: a Span
// leaf bounds one number, a group bounds a group element by element.
type Bounds struct {
	lo, hi float64
	elems  []Bounds
	leaf   bool
}

// Span bounds a single number to [lo, hi].
func Span(lo, hi float64) Bounds {
	if lo > hi {
		panic("span lower bound exceeds upper bound")
	}
	return Bounds{lo: lo, hi: hi, leaf: true}
}

func Group(elems ...Bounds) Bounds {
	cp := make([]Bounds, len(elems))
	copy(cp, elems)
	return Bounds{elems: cp}
}

func (b Bounds) IsLeaf() bool { return b.leaf }

func (b Bounds) Len() int { return len(b.elems) }

func (b Bounds) At(i int) Bounds { return b.elems[i] }

// Lo returns the span's lower end. It panics on a group.
func (b Bounds) Lo() float64 {
	if !b.leaf {
		panic("bounds are not a span")
	}
	return b.lo
}

// Hi returns the span's upper end. It panics on a group.
func (b Bounds) Hi() float64 {
	if !b.leaf {
		panic("bounds are not a span")
	}
	return b.hi
}

// apply rebuilds the value tree with f run at every leaf against the
// matching span. The two trees must agree level by level.
func (b Bounds) apply(v moebius.Value, f func(x, lo, hi float64) float64) (moebius.Value, error) {
	if b.leaf != v.IsLeaf() {
		return moebius.Value{}, ShapeErr
	}
	if b.leaf {
		return moebius.Leaf(f(v.Float(), b.lo, b.hi)), nil
	}
	if len(b.elems) != v.Len() {
		return moebius.Value{}, ShapeErr
	}
	elems := make([]moebius.Value, v.Len())
	for i := range elems {
		e, err := b.elems[i].apply(v.At(i), f)
		if err != nil {
			return moebius.Value{}, err
		}
		elems[i] = e
	}
	return moebius.Group(elems...), nil
}
