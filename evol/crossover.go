package evol

import (
	"github.com/D3lph1/moebius"
	"github.com/D3lph1/moebius/graph"
)

// ExchangeMean swaps the whole mean block between a random node of each
// model.
func ExchangeMean(m1, m2 *graph.Model) {
	n1, n2 := pick(m1), pick(m2)
	n1.Mean, n2.Mean = n2.Mean, n1.Mean
}

// ExchangeOneMean swaps a single component's mean between a random node of
// each model. The index is drawn below both nodes' component counts.
func ExchangeOneMean(m1, m2 *graph.Model) {
	n1, n2 := pick(m1), pick(m2)
	i := moebius.Rand.Intn(min(len(n1.Mean), len(n2.Mean)))
	n1.Mean[i], n2.Mean[i] = n2.Mean[i], n1.Mean[i]
}

// ExchangeVar swaps the whole covariance block between a random node of
// each model.
func ExchangeVar(m1, m2 *graph.Model) {
	n1, n2 := pick(m1), pick(m2)
	n1.Var, n2.Var = n2.Var, n1.Var
}

// ExchangeOneVar swaps a single component's covariance between a random
// node of each model.
func ExchangeOneVar(m1, m2 *graph.Model) {
	n1, n2 := pick(m1), pick(m2)
	i := moebius.Rand.Intn(min(len(n1.Var), len(n2.Var)))
	n1.Var[i], n2.Var[i] = n2.Var[i], n1.Var[i]
}

func pick(m *graph.Model) *graph.Node {
	return m.Nodes[moebius.Rand.Intn(len(m.Nodes))]
}
