package graph

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/D3lph1/moebius"
)

// Initializer bundles the three parameter initializers a fresh model draws
// from. All three must be set.
type Initializer struct {
	Weights WeightsInitializer
	Means   MeansInitializer
	Vars    VarsInitializer
}

// WeightsInitializer supplies the component weights of a new node.
type WeightsInitializer interface {
	Weights(name string, comps int) []float64
}

// MeansInitializer supplies the component means of a new node.
type MeansInitializer interface {
	Means(name string, comps int) [][]float64
}

// VarsInitializer supplies the component covariances of a new node.
type VarsInitializer interface {
	Vars(name string, comps int) [][][]float64
}

// AvgWeights starts every component at the same weight 1/comps.
type AvgWeights struct{}

func (AvgWeights) Weights(name string, comps int) []float64 {
	w := make([]float64, comps)
	for i := range w {
		w[i] = 1 / float64(comps)
	}
	return w
}

// RandomWeights draws uniform weights and normalizes them to sum to one.
type RandomWeights struct{}

func (RandomWeights) Weights(name string, comps int) []float64 {
	w := make([]float64, comps)
	for i := range w {
		w[i] = moebius.Rand.Float64()
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// DirichletWeights draws the weight simplex from a symmetric Dirichlet with
// concentration Multiplier, treated as 1 when left zero.
type DirichletWeights struct {
	Multiplier float64
}

func (d DirichletWeights) Weights(name string, comps int) []float64 {
	mult := d.Multiplier
	if mult == 0 {
		mult = 1
	}
	alpha := make([]float64, comps)
	for i := range alpha {
		alpha[i] = mult
	}
	return distmv.NewDirichlet(alpha, moebius.Src).Rand(nil)
}

// RandomMeans draws each component's mean as a whole number between Min and
// Max inclusive.
type RandomMeans struct {
	Min, Max int
}

func NewRandomMeans(min, max int) RandomMeans {
	if min > max {
		panic("mean lower bound exceeds upper bound")
	}
	return RandomMeans{Min: min, Max: max}
}

func (r RandomMeans) Means(name string, comps int) [][]float64 {
	mean := make([][]float64, comps)
	for i := range mean {
		mean[i] = []float64{float64(r.Min + moebius.Rand.Intn(r.Max-r.Min+1))}
	}
	return mean
}

// ConstMeans hands out fixed per-node means, keyed by node name.
type ConstMeans map[string][][]float64

func (c ConstMeans) Means(name string, comps int) [][]float64 {
	mean, ok := c[name]
	if !ok {
		panic("no configured means for node " + name)
	}
	return copyMat(mean)
}

// RandomVars draws each component's variance as a whole number between Min
// and Max inclusive.
type RandomVars struct {
	Min, Max int
}

func NewRandomVars(min, max int) RandomVars {
	if min > max {
		panic("variance lower bound exceeds upper bound")
	}
	return RandomVars{Min: min, Max: max}
}

func (r RandomVars) Vars(name string, comps int) [][][]float64 {
	vr := make([][][]float64, comps)
	for i := range vr {
		vr[i] = [][]float64{{float64(r.Min + moebius.Rand.Intn(r.Max-r.Min+1))}}
	}
	return vr
}

// ConstVars hands out fixed per-node covariances, keyed by node name.
type ConstVars map[string][][][]float64

func (c ConstVars) Vars(name string, comps int) [][][]float64 {
	vr, ok := c[name]
	if !ok {
		panic("no configured covariances for node " + name)
	}
	return copyCube(vr)
}
