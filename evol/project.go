package evol

import (
	"gonum.org/v1/gonum/mat"

	"github.com/D3lph1/moebius"
	"github.com/D3lph1/moebius/graph"
)

// OrthoProj computes the orthogonal projection of x0 onto the affine
// subspace defined by Ax = b, the intersection of the hyperplanes that
// constitute the rows of A with associated shifts in b:
//
//	proj = [I - A^T (A A^T)^-1 A] x0 + A^T (A A^T)^-1 b
//
// A is m by n with m <= n. With m == n the result is the solution of
// A x = b.
func OrthoProj(x0 []float64, a, b *mat.Dense) ([]float64, error) {
	x := mat.NewDense(len(x0), 1, x0)

	m, n := a.Dims()
	if m == n {
		var proj mat.Dense
		if err := proj.Solve(a, b); err != nil {
			return nil, err
		}
		return mat.Col(nil, 0, &proj), nil
	}

	var aat mat.Dense
	aat.Mul(a, a.T())
	var inv mat.Dense
	if err := inv.Inverse(&aat); err != nil {
		return nil, err
	}

	var bm mat.Dense
	bm.Mul(a.T(), &inv)

	var pm mat.Dense
	pm.Mul(&bm, a)
	pm.Sub(eye(n), &pm)

	var proj mat.Dense
	proj.Mul(&pm, x)

	var shift mat.Dense
	shift.Mul(&bm, b)
	proj.Add(&proj, &shift)

	return mat.Col(nil, 0, &proj), nil
}

// NearestFeasible returns the point nearest x0 that violates none of the
// constraints in Ax <= b. Violated constraints accumulate one at a time,
// worst first, with x0 reprojected onto their intersection until everything
// holds or the accumulated system pins a single point.
func NearestFeasible(x0 []float64, a, b *mat.Dense) ([]float64, error) {
	proj := append([]float64(nil), x0...)
	var badA, badb *mat.Dense
	for {
		av, bv := mostViolated(proj, a, b)
		if av == nil {
			return proj, nil
		}
		if badA == nil {
			badA, badb = av, bv
		} else {
			var sa, sb mat.Dense
			sa.Stack(badA, av)
			sb.Stack(badb, bv)
			badA, badb = &sa, &sb
		}

		var err error
		proj, err = OrthoProj(x0, badA, badb)
		if err != nil {
			return nil, err
		}
		if m, n := badA.Dims(); m == n {
			return proj, nil
		}
	}
}

// mostViolated returns the most violated constraint row in Ax <= b, or nil
// when x violates none beyond tolerance.
func mostViolated(x []float64, a, b *mat.Dense) (row, rhs *mat.Dense) {
	const eps = 1e-10

	var ax mat.Dense
	ax.Mul(a, mat.NewDense(len(x), 1, x))

	m, _ := a.Dims()
	worst, worstRow := eps, -1
	for i := 0; i < m; i++ {
		if diff := ax.At(i, 0) - b.At(i, 0); diff > worst {
			worst = diff
			worstRow = i
		}
	}
	if worstRow == -1 {
		return nil, nil
	}
	return mat.NewDense(1, len(x), mat.Row(nil, worstRow, a)),
		mat.NewDense(1, 1, mat.Row(nil, worstRow, b))
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// ProjectMutator runs the wrapped mutator, then replaces the field with the
// nearest point whose entries stay nonnegative and sum to Target, taken as 1
// when zero. A nil Inner just projects. The field must decode as a flat
// group, which suits weights.
type ProjectMutator struct {
	Inner  Mutator
	Field  graph.Field
	Target float64
}

func (p ProjectMutator) Mutate(n *graph.Node) error {
	if p.Inner != nil {
		if err := p.Inner.Mutate(n); err != nil {
			return err
		}
	}

	w, err := n.Value(p.Field).Floats()
	if err != nil {
		return ShapeErr
	}
	target := p.Target
	if target == 0 {
		target = 1
	}

	a, b := simplexConstr(len(w), target)
	w, err = NearestFeasible(w, a, b)
	if err != nil {
		return err
	}
	return n.SetValue(p.Field, moebius.Leaves(w...))
}

// simplexConstr builds Ax <= b rows pinning the entry sum to target from
// both sides and each entry to stay nonnegative.
func simplexConstr(n int, target float64) (*mat.Dense, *mat.Dense) {
	a := mat.NewDense(n+2, n, nil)
	b := mat.NewDense(n+2, 1, nil)
	for j := 0; j < n; j++ {
		a.Set(0, j, 1)
		a.Set(1, j, -1)
		a.Set(j+2, j, -1)
	}
	b.Set(0, 0, target)
	b.Set(1, 0, -target)
	return a, b
}
