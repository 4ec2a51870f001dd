package graph

import (
	"github.com/petar/GoLLRB/llrb"
)

type item struct {
	m      *Model
	howbad float64
}

func (i1 item) Less(than llrb.Item) bool {
	i2 := than.(item)
	return i1.howbad < i2.howbad
}

// NewModels tries to generate a population of n models whose shuffled edge
// sets leave no node isolated. Models are drawn from the initializer and
// rewired by s (a nil s keeps them edgeless, which counts as valid). It
// queues up the least isolated of the failed draws in case n valid models
// cannot be found within maxiter.
func NewModels(n, maxiter, dims, comps int, init Initializer, s Shuffler) (models []*Model, nbad, iter int) {
	if n <= 0 {
		panic("population size must be positive")
	}

	bad := llrb.New()
	models = make([]*Model, 0, n)
	for i := 0; i < maxiter; i++ {
		m := New(dims, comps, init)

		howbad := 0.0
		if s != nil {
			if err := s.Shuffle(m); err != nil {
				howbad = float64(len(m.Isolated())) / float64(len(m.Nodes))
			}
		}

		if howbad == 0 {
			models = append(models, m)
			if len(models) == n {
				return models, 0, i
			}
		} else {
			bad.InsertNoReplace(item{m, howbad})
			for bad.Len() > n-len(models) {
				bad.DeleteMax()
			}
		}
	}

	nbad = n - len(models)
	for len(models) < n && bad.Len() > 0 {
		models = append(models, bad.DeleteMin().(item).m)
	}

	return models, nbad, maxiter
}
