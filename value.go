package moebius

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Value is a snapshot of grid coordinates: either a single number (a leaf)
// or an ordered group of sub-values. Nested iterators emit nested groups, so
// a Value mirrors the axis structure it was pulled from.
type Value struct {
	x     float64
	elems []Value
	leaf  bool
}

func Leaf(x float64) Value { return Value{x: x, leaf: true} }

func Group(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{elems: cp}
}

// Leaves builds a group of leaf values.
func Leaves(xs ...float64) Value {
	elems := make([]Value, len(xs))
	for i, x := range xs {
		elems[i] = Leaf(x)
	}
	return Value{elems: elems}
}

func (v Value) IsLeaf() bool { return v.leaf }

// Float returns the leaf's number. It panics on a group.
func (v Value) Float() float64 {
	if !v.leaf {
		panic("value is not a leaf")
	}
	return v.x
}

// Len returns the number of sub-values, zero for a leaf.
func (v Value) Len() int { return len(v.elems) }

func (v Value) At(i int) Value { return v.elems[i] }

// Sum adds every leaf in the tree.
func (v Value) Sum() float64 {
	if v.leaf {
		return v.x
	}
	s := 0.0
	for _, e := range v.elems {
		s += e.Sum()
	}
	return s
}

// Floats decodes a group of leaves into a slice. Unlike Flatten it refuses
// nesting: the value must be exactly one group deep.
func (v Value) Floats() ([]float64, error) {
	if v.leaf {
		return nil, errors.New("expected a group of numbers")
	}
	xs := make([]float64, len(v.elems))
	for i, e := range v.elems {
		if !e.leaf {
			return nil, fmt.Errorf("element %v is not a number", i)
		}
		xs[i] = e.x
	}
	return xs, nil
}

// Flatten returns all leaves in depth-first order.
func (v Value) Flatten() []float64 {
	return v.appendTo(make([]float64, 0, len(v.elems)))
}

func (v Value) appendTo(dst []float64) []float64 {
	if v.leaf {
		return append(dst, v.x)
	}
	for _, e := range v.elems {
		dst = e.appendTo(dst)
	}
	return dst
}

func (v Value) String() string {
	if v.leaf {
		return strconv.FormatFloat(v.x, 'g', -1, 64)
	}
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
