// Package bench provides reference mixtures whose overlap rates are known
// analytically or bracketed by hand, for exercising the rate engine end to
// end.
package bench

import (
	"fmt"

	"github.com/D3lph1/moebius"
)

var AllMixes = []Mix{
	Coincident{},
	Shouldered{},
	Bimodal{},
	Spaced{},
	Lopsided{},
	Distant{},
	Chain{NComp: 3},
	Chain{NComp: 5},
	Planar{},
	Degenerate{},
}

type Mix interface {
	Mixture() moebius.Mixture
	Band() (low, up float64)
	Name() string
}

// Coincident stacks two components on the same mean. The scan sees a single
// mode, which reads as full overlap.
type Coincident struct{}

func (m Coincident) Name() string { return "Coincident" }

func (m Coincident) Mixture() moebius.Mixture {
	return pair1d(0.5, 0.5, 0, 0, 1, 1)
}

func (m Coincident) Band() (low, up float64) { return 1, 1 }

// Shouldered separates the means by one sigma, short of the two sigma
// threshold where an equal weight pair turns bimodal.
type Shouldered struct{}

func (m Shouldered) Name() string { return "Shouldered" }

func (m Shouldered) Mixture() moebius.Mixture {
	return pair1d(0.5, 0.5, 0, 1, 1, 1)
}

func (m Shouldered) Band() (low, up float64) { return 1, 1 }

type Bimodal struct{}

func (m Bimodal) Name() string { return "Bimodal" }

func (m Bimodal) Mixture() moebius.Mixture {
	return pair1d(0.5, 0.5, 5, 2, 0.5, 0.5)
}

func (m Bimodal) Band() (low, up float64) { return 0.15, 0.3 }

// Spaced puts four sigma between unit variance components. The saddle sits
// at the midpoint, two sigma out from either peak.
type Spaced struct{}

func (m Spaced) Name() string { return "Spaced" }

func (m Spaced) Mixture() moebius.Mixture {
	return pair1d(0.5, 0.5, 0, 4, 1, 1)
}

func (m Spaced) Band() (low, up float64) { return 0.2, 0.35 }

// Lopsided gives one component nine times the other's weight. The light
// component still raises its own mode, but the saddle drifts toward it.
type Lopsided struct{}

func (m Lopsided) Name() string { return "Lopsided" }

func (m Lopsided) Mixture() moebius.Mixture {
	return pair1d(0.9, 0.1, 0, 4, 1, 1)
}

func (m Lopsided) Band() (low, up float64) { return 0.55, 0.75 }

type Distant struct{}

func (m Distant) Name() string { return "Distant" }

func (m Distant) Mixture() moebius.Mixture {
	return pair1d(0.5, 0.5, 0, 10, 0.5, 0.5)
}

func (m Distant) Band() (low, up float64) { return 0, 0.01 }

// Chain strings NComp unit variance components four sigma apart.
type Chain struct {
	NComp int
}

func (m Chain) Name() string { return fmt.Sprintf("Chain_%v", m.NComp) }

func (m Chain) Mixture() moebius.Mixture {
	n := m.NComp
	weights := make([]float64, n)
	means := make([][]float64, n)
	covs := make([][][]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
		means[i] = []float64{4 * float64(i)}
		covs[i] = [][]float64{{1}}
	}
	return mustMix(weights, means, covs)
}

// Band brackets the mean over all pairs: the n-1 adjacent pairs each score
// near the four sigma pair rate while the farther pairs contribute almost
// nothing, so the mean falls off roughly as 2/n.
func (m Chain) Band() (low, up float64) {
	return 0.4 / float64(m.NComp), 0.65 / float64(m.NComp)
}

// Planar is a two dimensional pair with isotropic unit covariances, three
// sigma apart along the first axis.
type Planar struct{}

func (m Planar) Name() string { return "Planar" }

func (m Planar) Mixture() moebius.Mixture {
	return mustMix(
		[]float64{0.5, 0.5},
		[][]float64{{0, 0}, {3, 0}},
		[][][]float64{
			{{1, 0}, {0, 1}},
			{{1, 0}, {0, 1}},
		},
	)
}

func (m Planar) Band() (low, up float64) { return 0.55, 0.75 }

// Degenerate collapses both covariances to rank one, with all variance
// along the scan line. The rates have to come out through the generalized
// density path and match a one dimensional three sigma pair.
type Degenerate struct{}

func (m Degenerate) Name() string { return "Degenerate" }

func (m Degenerate) Mixture() moebius.Mixture {
	return mustMix(
		[]float64{0.5, 0.5},
		[][]float64{{0, 0}, {3, 0}},
		[][][]float64{
			{{1, 0}, {0, 0}},
			{{1, 0}, {0, 0}},
		},
	)
}

func (m Degenerate) Band() (low, up float64) { return 0.55, 0.75 }

// Benchmark scores mix and reports its mean overlap rate along with whether
// the mean landed inside the mix's band.
func Benchmark(mix Mix) (mean float64, ok bool, err error) {
	mean, err = moebius.MeanOverlapRate(mix.Mixture())
	if err != nil {
		return 0, false, err
	}
	low, up := mix.Band()
	return mean, low <= mean && mean <= up, nil
}

func pair1d(w1, w2, mu1, mu2, v1, v2 float64) moebius.Mixture {
	return mustMix(
		[]float64{w1, w2},
		[][]float64{{mu1}, {mu2}},
		[][][]float64{{{v1}}, {{v2}}},
	)
}

func mustMix(weights []float64, means [][]float64, covs [][][]float64) moebius.Mixture {
	m, err := moebius.NewMixture(weights, means, covs)
	if err != nil {
		panic(err)
	}
	return m
}
