package evol

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/D3lph1/moebius"
	"github.com/D3lph1/moebius/graph"
)

// InfinitelyLargeOLR is the objective value substituted when scoring fails
// or reports no rates.
const InfinitelyLargeOLR = 100

// Scorer reports the overlap rates an objective averages over.
type Scorer interface {
	Score(m *graph.Model) ([]float64, error)
}

// ScoreFunc adapts a function to the Scorer interface.
type ScoreFunc func(m *graph.Model) ([]float64, error)

func (f ScoreFunc) Score(m *graph.Model) ([]float64, error) { return f(m) }

// NodeScorer runs every node's own mixture through the overlap engine and
// concatenates the per-pair rates.
type NodeScorer struct{}

func (NodeScorer) Score(m *graph.Model) ([]float64, error) {
	var rates []float64
	for _, n := range m.Nodes {
		mix, err := n.Mixture()
		if err != nil {
			return nil, fmt.Errorf("node %v: %v", n.Name, err)
		}
		r, err := moebius.OverlapRates(mix)
		if err != nil {
			return nil, fmt.Errorf("node %v: %w", n.Name, err)
		}
		rates = append(rates, r...)
	}
	return rates, nil
}

// Objective measures how far a model's mean overlap rate sits from Target,
// as a squared distance. A nil Scorer defaults to NodeScorer.
type Objective struct {
	Target float64
	Scorer Scorer
}

func (o Objective) Objective(m *graph.Model) float64 {
	sc := o.Scorer
	if sc == nil {
		sc = NodeScorer{}
	}
	rates, err := sc.Score(m)
	return cost(rates, err, o.Target)
}

// FlatObjective adapts the overlap engine to a flat-vector objective an
// external optimizer can call directly.
func FlatObjective(comps, dims int, target float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		rates, err := moebius.OLRFromFlat(comps, dims, x)
		return cost(rates, err, target)
	}
}

func cost(rates []float64, err error, target float64) float64 {
	if err != nil || len(rates) == 0 {
		return InfinitelyLargeOLR
	}
	d := floats.Sum(rates)/float64(len(rates)) - target
	return d * d
}

// CacheObjective wraps a flat-vector objective and caches evaluations by
// position. Previously seen positions return the stored value rather than
// reevaluating. Hits counts how many evaluations the cache absorbed.
type CacheObjective struct {
	fn    func(x []float64) float64
	cache map[[sha1.Size]byte]float64
	Hits  int
}

func NewCacheObjective(fn func(x []float64) float64) *CacheObjective {
	return &CacheObjective{
		fn:    fn,
		cache: map[[sha1.Size]byte]float64{},
	}
}

func (c *CacheObjective) Objective(x []float64) float64 {
	h := hashPos(x)
	if v, ok := c.cache[h]; ok {
		c.Hits++
		return v
	}
	v := c.fn(x)
	c.cache[h] = v
	return v
}

func hashPos(x []float64) [sha1.Size]byte {
	data := make([]byte, len(x)*8)
	for i, v := range x {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return sha1.Sum(data)
}
