package gen

import (
	"errors"

	"github.com/D3lph1/moebius"
)

var ExhaustedErr = errors.New("generator exhausted")

// Source supplies values one pull at a time. Sources run unbounded unless a
// Bound caps them or the backing data runs dry; either way exhaustion comes
// out as ExhaustedErr, never as a zero value.
type Source[T any] interface {
	Next() (T, error)
}

// Bound caps how many values a source hands out. The zero value is
// unbounded. Embedding sources expose its controls directly.
type Bound struct {
	bounded bool
	max     int
	n       int
}

// SetMaxCount caps successful pulls at max. A negative max removes the cap.
func (b *Bound) SetMaxCount(max int) {
	if max < 0 {
		b.bounded = false
		b.max = 0
		return
	}
	b.bounded = true
	b.max = max
}

// MaxCount returns the cap, -1 when unbounded.
func (b *Bound) MaxCount() int {
	if !b.bounded {
		return -1
	}
	return b.max
}

func (b *Bound) Bounded() bool { return b.bounded }

// ResetCount restores the full budget without touching the cap.
func (b *Bound) ResetCount() { b.n = 0 }

// next runs one bounded pull. The cap is checked before pulling and only a
// successful pull consumes budget.
func next[T any](b *Bound, pull func() (T, error)) (T, error) {
	var zero T
	if b.bounded && b.n >= b.max {
		return zero, ExhaustedErr
	}
	v, err := pull()
	if err != nil {
		return zero, err
	}
	b.n++
	return v, nil
}

// Const yields the same value on every pull.
type Const[T any] struct {
	Bound
	v T
}

func NewConst[T any](v T) *Const[T] { return &Const[T]{v: v} }

func (c *Const[T]) Next() (T, error) {
	return next(&c.Bound, func() (T, error) { return c.v, nil })
}

// Slice drains a slice front to back.
type Slice[T any] struct {
	Bound
	vals []T
	i    int
}

func NewSlice[T any](vals ...T) *Slice[T] {
	cp := make([]T, len(vals))
	copy(cp, vals)
	return &Slice[T]{vals: cp}
}

func (s *Slice[T]) Next() (T, error) {
	return next(&s.Bound, func() (T, error) {
		var zero T
		if s.i >= len(s.vals) {
			return zero, ExhaustedErr
		}
		v := s.vals[s.i]
		s.i++
		return v, nil
	})
}

// Iter is the part of a grid iterator a producer drives.
type Iter interface {
	Value() moebius.Value
	Next() (moebius.Value, bool)
}

// Grid pulls grid combinations and maps each through a supply function.
type Grid[T any] struct {
	Bound
	it     Iter
	supply func(moebius.Value) (T, error)
}

func NewGrid[T any](it Iter, supply func(moebius.Value) (T, error)) *Grid[T] {
	return &Grid[T]{it: it, supply: supply}
}

func (g *Grid[T]) Next() (T, error) {
	return next(&g.Bound, func() (T, error) {
		var zero T
		v, ok := g.it.Next()
		if !ok {
			return zero, ExhaustedErr
		}
		return g.supply(v)
	})
}
