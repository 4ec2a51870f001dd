package moebius

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mixture is a Gaussian mixture parameterization: one weight, mean vector
// and covariance matrix per component. Weights need not sum to one; the
// overlap engine renormalizes them per pair.
type Mixture struct {
	Weights []float64
	Means   [][]float64
	Covs    []*mat.SymDense
}

// NewMixture copies the given parameters into a validated Mixture. Each
// covariance matrix is symmetrized from its lower triangle, so entries above
// the diagonal are ignored.
func NewMixture(weights []float64, means [][]float64, covs [][][]float64) (Mixture, error) {
	m := Mixture{
		Weights: append([]float64{}, weights...),
		Means:   make([][]float64, len(means)),
		Covs:    make([]*mat.SymDense, len(covs)),
	}
	for i, mu := range means {
		m.Means[i] = append([]float64{}, mu...)
	}
	for i, c := range covs {
		s, err := lowerSym(c)
		if err != nil {
			return Mixture{}, fmt.Errorf("covariance %v: %v", i, err)
		}
		m.Covs[i] = s
	}
	if err := m.Validate(); err != nil {
		return Mixture{}, err
	}
	return m, nil
}

func lowerSym(c [][]float64) (*mat.SymDense, error) {
	n := len(c)
	if n == 0 {
		return nil, errors.New("matrix is empty")
	}
	for i, row := range c {
		if len(row) != n {
			return nil, fmt.Errorf("row %v has %v entries, want %v", i, len(row), n)
		}
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			s.SetSym(i, j, c[i][j])
		}
	}
	return s, nil
}

// Validate reports the first shape problem: mismatched component counts or
// components of differing dimension.
func (m Mixture) Validate() error {
	if len(m.Weights) == 0 {
		return errors.New("mixture has no components")
	}
	if len(m.Means) != len(m.Weights) || len(m.Covs) != len(m.Weights) {
		return fmt.Errorf("mixture has %v weights, %v means and %v covariances",
			len(m.Weights), len(m.Means), len(m.Covs))
	}
	d := len(m.Means[0])
	for i, mu := range m.Means {
		if len(mu) != d {
			return fmt.Errorf("mean %v has dimension %v, want %v", i, len(mu), d)
		}
	}
	for i, c := range m.Covs {
		if c == nil {
			return fmt.Errorf("covariance %v is missing", i)
		}
		if c.SymmetricDim() != d {
			return fmt.Errorf("covariance %v is %vx%v, want %vx%v",
				i, c.SymmetricDim(), c.SymmetricDim(), d, d)
		}
	}
	return nil
}

func (m Mixture) Comps() int { return len(m.Weights) }

func (m Mixture) Dims() int {
	if len(m.Means) == 0 {
		return 0
	}
	return len(m.Means[0])
}

// MixtureFromValue decodes a grid snapshot shaped as three groups: the
// weights (a group of leaves), the means (one leaf group per component) and
// the covariances (one group of row groups per component).
func MixtureFromValue(v Value) (Mixture, error) {
	if v.Len() != 3 {
		return Mixture{}, fmt.Errorf("snapshot has %v groups, want weights, means and covariances", v.Len())
	}
	weights, err := v.At(0).Floats()
	if err != nil {
		return Mixture{}, fmt.Errorf("weights: %v", err)
	}
	mv := v.At(1)
	means := make([][]float64, mv.Len())
	for i := range means {
		mu, err := mv.At(i).Floats()
		if err != nil {
			return Mixture{}, fmt.Errorf("mean %v: %v", i, err)
		}
		means[i] = mu
	}
	cv := v.At(2)
	covs := make([][][]float64, cv.Len())
	for i := range covs {
		comp := cv.At(i)
		rows := make([][]float64, comp.Len())
		for j := range rows {
			row, err := comp.At(j).Floats()
			if err != nil {
				return Mixture{}, fmt.Errorf("covariance %v row %v: %v", i, j, err)
			}
			rows[j] = row
		}
		covs[i] = rows
	}
	return NewMixture(weights, means, covs)
}

// FromFlat decodes the flat parameter layout used by vector optimizers:
// comps weights, then comps*dims mean entries, then comps*dims*dims
// covariance entries, row major.
func FromFlat(comps, dims int, data []float64) (Mixture, error) {
	if comps <= 0 || dims <= 0 {
		return Mixture{}, fmt.Errorf("bad mixture shape %vx%v", comps, dims)
	}
	nw := comps
	nm := comps * dims
	nc := comps * dims * dims
	if len(data) < nw+nm+nc {
		return Mixture{}, fmt.Errorf("flat data has %v values, want %v", len(data), nw+nm+nc)
	}
	weights := data[:nw]
	means := make([][]float64, comps)
	for i := range means {
		means[i] = data[nw+i*dims : nw+(i+1)*dims]
	}
	covs := make([][][]float64, comps)
	for i := range covs {
		rows := make([][]float64, dims)
		base := nw + nm + i*dims*dims
		for j := range rows {
			rows[j] = data[base+j*dims : base+(j+1)*dims]
		}
		covs[i] = rows
	}
	return NewMixture(weights, means, covs)
}
