// Package graph holds the parameter-graph form of a mixture model: one node
// per dimension carrying that dimension's component weights, means and
// covariances, plus directed edges between dimensions. Evolutionary
// operators work on this form; the overlap engine scores it.
package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/D3lph1/moebius"
)

// NamePrefix starts every generated node name; the node for dimension i is
// called NamePrefix followed by i.
const NamePrefix = "Comp_"

func NodeName(i int) string { return NamePrefix + strconv.Itoa(i) }

// NodeIndex recovers the dimension index from a generated node name.
func NodeIndex(name string) (int, error) {
	s, ok := strings.CutPrefix(name, NamePrefix)
	if !ok {
		return 0, fmt.Errorf("node name %v does not start with %v", name, NamePrefix)
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("node name %v carries no index", name)
	}
	return i, nil
}

// Field selects one of the three parameter blocks a node carries.
type Field int

const (
	W Field = iota
	Mean
	Var
)

func (f Field) String() string {
	switch f {
	case W:
		return "w"
	case Mean:
		return "mean"
	case Var:
		return "var"
	}
	return "unknown"
}

// Node carries the mixture parameterization of one model dimension: a weight
// per component plus each component's mean vector and covariance matrix
// within that dimension.
type Node struct {
	Name string
	W    []float64
	Mean [][]float64
	Var  [][][]float64
}

// Value encodes the selected field as a value tree: weights as a group of
// leaves, means as a group of leaf groups, covariances one group deeper.
func (n *Node) Value(f Field) moebius.Value {
	switch f {
	case W:
		return moebius.Leaves(n.W...)
	case Mean:
		comps := make([]moebius.Value, len(n.Mean))
		for i, mu := range n.Mean {
			comps[i] = moebius.Leaves(mu...)
		}
		return moebius.Group(comps...)
	case Var:
		comps := make([]moebius.Value, len(n.Var))
		for i, c := range n.Var {
			rows := make([]moebius.Value, len(c))
			for j, row := range c {
				rows[j] = moebius.Leaves(row...)
			}
			comps[i] = moebius.Group(rows...)
		}
		return moebius.Group(comps...)
	}
	panic("invalid parameter field")
}

// SetValue decodes a value tree back into the selected field. The tree must
// have the field's nesting: one group deep for weights, two for means, three
// for covariances.
func (n *Node) SetValue(f Field, v moebius.Value) error {
	switch f {
	case W:
		w, err := v.Floats()
		if err != nil {
			return fmt.Errorf("weights: %v", err)
		}
		n.W = w
		return nil
	case Mean:
		if v.IsLeaf() {
			return errors.New("means: expected a group per component")
		}
		mean := make([][]float64, v.Len())
		for i := range mean {
			mu, err := v.At(i).Floats()
			if err != nil {
				return fmt.Errorf("mean %v: %v", i, err)
			}
			mean[i] = mu
		}
		n.Mean = mean
		return nil
	case Var:
		if v.IsLeaf() {
			return errors.New("covariances: expected a group per component")
		}
		vr := make([][][]float64, v.Len())
		for i := range vr {
			comp := v.At(i)
			if comp.IsLeaf() {
				return fmt.Errorf("covariance %v: expected a group of rows", i)
			}
			rows := make([][]float64, comp.Len())
			for j := range rows {
				row, err := comp.At(j).Floats()
				if err != nil {
					return fmt.Errorf("covariance %v row %v: %v", i, j, err)
				}
				rows[j] = row
			}
			vr[i] = rows
		}
		n.Var = vr
		return nil
	}
	return errors.New("invalid parameter field")
}

// Mixture assembles the node's parameters into a mixture the overlap engine
// can score.
func (n *Node) Mixture() (moebius.Mixture, error) {
	return moebius.NewMixture(n.W, n.Mean, n.Var)
}

// Model is a set of per-dimension nodes plus directed edges between them.
// Edges hold (parent, child) index pairs into Nodes.
type Model struct {
	Nodes []*Node
	Edges [][2]int
}

// New builds an edgeless model with one node per dimension, each named
// NodeName(i) and filled by the initializer.
func New(dims, comps int, init Initializer) *Model {
	if dims <= 0 {
		panic("model needs at least one dimension")
	}
	if comps <= 0 {
		panic("model needs at least one component")
	}
	nodes := make([]*Node, dims)
	for i := range nodes {
		name := NodeName(i)
		nodes[i] = &Node{
			Name: name,
			W:    init.Weights.Weights(name, comps),
			Mean: init.Means.Means(name, comps),
			Var:  init.Vars.Vars(name, comps),
		}
	}
	return &Model{Nodes: nodes}
}

// Node returns the named node, nil when absent.
func (m *Model) Node(name string) *Node {
	for _, n := range m.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Parents lists the parent indices of node i in edge order.
func (m *Model) Parents(i int) []int {
	var ps []int
	for _, e := range m.Edges {
		if e[1] == i {
			ps = append(ps, e[0])
		}
	}
	return ps
}

// Isolated lists the nodes no edge touches.
func (m *Model) Isolated() []int {
	touched := make([]bool, len(m.Nodes))
	for _, e := range m.Edges {
		touched[e[0]] = true
		touched[e[1]] = true
	}
	var out []int
	for i, t := range touched {
		if !t {
			out = append(out, i)
		}
	}
	return out
}

// Clone deep-copies the model so operator pipelines can branch it.
func (m *Model) Clone() *Model {
	cp := &Model{
		Nodes: make([]*Node, len(m.Nodes)),
		Edges: make([][2]int, len(m.Edges)),
	}
	copy(cp.Edges, m.Edges)
	for i, n := range m.Nodes {
		cp.Nodes[i] = &Node{
			Name: n.Name,
			W:    append([]float64{}, n.W...),
			Mean: copyMat(n.Mean),
			Var:  copyCube(n.Var),
		}
	}
	return cp
}

func copyMat(m [][]float64) [][]float64 {
	cp := make([][]float64, len(m))
	for i, row := range m {
		cp[i] = append([]float64{}, row...)
	}
	return cp
}

func copyCube(c [][][]float64) [][][]float64 {
	cp := make([][][]float64, len(c))
	for i, m := range c {
		cp[i] = copyMat(m)
	}
	return cp
}
