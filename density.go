package moebius

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

var NotPsdErr = errors.New("covariance matrix is not positive semidefinite")

// Prober evaluates a probability density at a point.
type Prober interface {
	Prob(x []float64) float64
}

// IsPosDef reports whether a admits a Cholesky factorization, the condition
// for the fast density path.
func IsPosDef(a mat.Symmetric) bool {
	var chol mat.Cholesky
	return chol.Factorize(a)
}

// NewNormProber returns the fast normal density for a positive definite
// covariance. ok is false when the factorization fails.
func NewNormProber(mu []float64, sigma mat.Symmetric) (Prober, bool) {
	return distmv.NewNormal(mu, sigma, nil)
}

// NewGenProber returns a normal density evaluator that tolerates rank
// deficient covariances. The covariance is eigendecomposed; eigenvalues
// within an epsilon scaled from the largest magnitude count as zero and
// their eigenvectors define the directions the density has no support in.
// An eigenvalue below -epsilon is a NotPsdErr.
func NewGenProber(mu []float64, sigma mat.Symmetric) (Prober, error) {
	dim := sigma.SymmetricDim()
	if len(mu) != dim {
		return nil, fmt.Errorf("mean has dimension %v, covariance is %vx%v", len(mu), dim, dim)
	}

	var eig mat.EigenSym
	if !eig.Factorize(sigma, true) {
		return nil, errors.New("eigendecomposition failed")
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	eps := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > eps {
			eps = a
		}
	}
	eps *= 1e6 * 2.220446049250313e-16

	logpdet, rank := 0.0, 0
	for _, v := range vals {
		if v < -eps {
			return nil, NotPsdErr
		}
		if v > eps {
			logpdet += math.Log(v)
			rank++
		}
	}

	g := &genNormal{
		mu:      append([]float64{}, mu...),
		eps:     eps,
		logpdet: logpdet,
		rank:    rank,
		dim:     dim,
	}
	if rank > 0 {
		g.prec = mat.NewDense(dim, rank, nil)
	}
	if rank < dim {
		g.null = mat.NewDense(dim, dim-rank, nil)
	}
	pc, nc := 0, 0
	for j, v := range vals {
		if v > eps {
			s := 1 / math.Sqrt(v)
			for i := 0; i < dim; i++ {
				g.prec.Set(i, pc, vecs.At(i, j)*s)
			}
			pc++
		} else {
			for i := 0; i < dim; i++ {
				g.null.Set(i, nc, vecs.At(i, j))
			}
			nc++
		}
	}
	return g, nil
}

// NewProber picks the density evaluator for a single component: the fast
// path when the covariance is positive definite, the generalized path
// otherwise.
func NewProber(mu []float64, sigma mat.Symmetric) (Prober, error) {
	if p, ok := NewNormProber(mu, sigma); ok {
		return p, nil
	}
	return NewGenProber(mu, sigma)
}

type genNormal struct {
	mu      []float64
	eps     float64
	logpdet float64
	rank    int
	dim     int
	prec    *mat.Dense // eigenvectors of the support, scaled by 1/sqrt(eigenvalue)
	null    *mat.Dense // eigenvectors of the zero eigenvalues
}

func (g *genNormal) Prob(x []float64) float64 {
	if len(x) != g.dim {
		panic("point dimension does not match the distribution")
	}
	dev := mat.NewVecDense(g.dim, nil)
	for i := 0; i < g.dim; i++ {
		dev.SetVec(i, x[i]-g.mu[i])
	}

	// Points off the affine support carry no density.
	if g.null != nil {
		var res mat.VecDense
		res.MulVec(g.null.T(), dev)
		s := 0.0
		for i := 0; i < res.Len(); i++ {
			s += res.AtVec(i) * res.AtVec(i)
		}
		if math.Sqrt(s) > g.eps {
			return 0
		}
	}

	maha := 0.0
	if g.prec != nil {
		var proj mat.VecDense
		proj.MulVec(g.prec.T(), dev)
		for i := 0; i < proj.Len(); i++ {
			maha += proj.AtVec(i) * proj.AtVec(i)
		}
	}
	return math.Exp(-0.5 * (float64(g.rank)*math.Log(2*math.Pi) + g.logpdet + maha))
}
