package evol

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/D3lph1/moebius"
	"github.com/D3lph1/moebius/graph"
)

// Selector picks the node an operator works on.
type Selector interface {
	Select(m *graph.Model) (*graph.Node, error)
}

// RandomSelector picks uniformly among the model's nodes.
type RandomSelector struct{}

func (RandomSelector) Select(m *graph.Model) (*graph.Node, error) {
	if len(m.Nodes) == 0 {
		return nil, errors.New("model has no nodes")
	}
	return m.Nodes[moebius.Rand.Intn(len(m.Nodes))], nil
}

// NameSelector picks the named node.
type NameSelector struct {
	Name string
}

func (s NameSelector) Select(m *graph.Model) (*graph.Node, error) {
	if n := m.Node(s.Name); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("no node named %v", s.Name)
}

// Mutator rewrites one parameter field of a node.
type Mutator interface {
	Mutate(n *graph.Node) error
}

// DeltaMutator shifts every entry of the field by a uniform draw from the
// matching span. A span with equal ends leaves its entry untouched.
type DeltaMutator struct {
	Field  graph.Field
	Bounds Bounds
}

func (d DeltaMutator) Mutate(n *graph.Node) error {
	v, err := d.Bounds.apply(n.Value(d.Field), deltaLeaf)
	if err != nil {
		return err
	}
	return n.SetValue(d.Field, v)
}

// ValueMutator replaces every entry of the field with a uniform draw from
// the matching span. A span with equal ends leaves its entry untouched.
type ValueMutator struct {
	Field  graph.Field
	Bounds Bounds
}

func (m ValueMutator) Mutate(n *graph.Node) error {
	v, err := m.Bounds.apply(n.Value(m.Field), valueLeaf)
	if err != nil {
		return err
	}
	return n.SetValue(m.Field, v)
}

// IndexDeltaMutator shifts the entries under one randomly chosen component
// index and leaves the other components alone.
type IndexDeltaMutator struct {
	Field  graph.Field
	Bounds Bounds
}

func (d IndexDeltaMutator) Mutate(n *graph.Node) error {
	v := n.Value(d.Field)
	if d.Bounds.IsLeaf() || v.IsLeaf() || d.Bounds.Len() != v.Len() {
		return ShapeErr
	}

	i := moebius.Rand.Intn(v.Len())
	sub, err := d.Bounds.At(i).apply(v.At(i), deltaLeaf)
	if err != nil {
		return err
	}

	elems := make([]moebius.Value, v.Len())
	for j := range elems {
		elems[j] = v.At(j)
	}
	elems[i] = sub
	return n.SetValue(d.Field, moebius.Group(elems...))
}

// ClampMutator runs the wrapped mutator, then redraws every entry that left
// its span uniformly inside the span. A nil Inner just clamps.
type ClampMutator struct {
	Inner  Mutator
	Field  graph.Field
	Bounds Bounds
}

func (c ClampMutator) Mutate(n *graph.Node) error {
	if c.Inner != nil {
		if err := c.Inner.Mutate(n); err != nil {
			return err
		}
	}
	v, err := c.Bounds.apply(n.Value(c.Field), clampLeaf)
	if err != nil {
		return err
	}
	return n.SetValue(c.Field, v)
}

// SumToOneMutator replaces the field with fresh uniform draws normalized to
// sum to one. The field must decode as a flat group, which suits weights.
type SumToOneMutator struct {
	Field graph.Field
}

func (m SumToOneMutator) Mutate(n *graph.Node) error {
	v := n.Value(m.Field)
	if v.IsLeaf() || v.Len() == 0 {
		return ShapeErr
	}
	w := make([]float64, v.Len())
	for i := range w {
		w[i] = moebius.Rand.Float64()
	}
	floats.Scale(1/floats.Sum(w), w)
	return n.SetValue(m.Field, moebius.Leaves(w...))
}

// DirichletMutator redraws the field from a symmetric Dirichlet so it sums
// to one, with concentration Multiplier treated as 1 when left zero.
type DirichletMutator struct {
	Field      graph.Field
	Multiplier float64
}

func (m DirichletMutator) Mutate(n *graph.Node) error {
	v := n.Value(m.Field)
	if v.IsLeaf() || v.Len() == 0 {
		return ShapeErr
	}
	mult := m.Multiplier
	if mult == 0 {
		mult = 1
	}
	alpha := make([]float64, v.Len())
	for i := range alpha {
		alpha[i] = mult
	}
	w := distmv.NewDirichlet(alpha, moebius.Src).Rand(nil)
	return n.SetValue(m.Field, moebius.Leaves(w...))
}

// Mutation pairs a selector with a mutator into a whole-model operator.
type Mutation struct {
	Selector Selector
	Mutator  Mutator
}

// NewMutation wires the mutator to a random node selector.
func NewMutation(m Mutator) Mutation {
	return Mutation{Selector: RandomSelector{}, Mutator: m}
}

func (mu Mutation) Apply(m *graph.Model) error {
	n, err := mu.Selector.Select(m)
	if err != nil {
		return err
	}
	return mu.Mutator.Mutate(n)
}

func deltaLeaf(x, lo, hi float64) float64 {
	if lo == hi {
		return x
	}
	return x + unif(lo, hi)
}

func valueLeaf(x, lo, hi float64) float64 {
	if lo == hi {
		return x
	}
	return unif(lo, hi)
}

func clampLeaf(x, lo, hi float64) float64 {
	if x < lo || x > hi {
		return unif(lo, hi)
	}
	return x
}

func unif(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: moebius.Src}.Rand()
}
