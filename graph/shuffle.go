package graph

import (
	"errors"

	"github.com/D3lph1/moebius"
)

// RetryErr reports that the retry budget ran out before an edge set touching
// every node was drawn. The model keeps the best attempt seen.
var RetryErr = errors.New("no covering edge set within the retry budget")

// ProbEpsilon is the edge probability below which shuffling is a no-op.
const ProbEpsilon = 0.01

// DefaultMaxTries bounds the redraw loop when MaxTries is left unset.
const DefaultMaxTries = 100

// Shuffler rewires a model's edges in place.
type Shuffler interface {
	Shuffle(m *Model) error
}

// ProbShuffler replaces the model's edges with a random DAG: every ascending
// node pair (i, j) with i < j gets an edge with probability Prob, and the
// draw repeats until no node is left isolated, up to MaxTries attempts.
type ProbShuffler struct {
	Prob     float64
	MaxTries int
}

func NewProbShuffler(prob float64) *ProbShuffler {
	if prob < 0 {
		panic("edge probability must not be negative")
	}
	return &ProbShuffler{Prob: prob, MaxTries: DefaultMaxTries}
}

func (s *ProbShuffler) Shuffle(m *Model) error {
	if s.Prob < ProbEpsilon {
		return nil
	}
	tries := s.MaxTries
	if tries <= 0 {
		tries = DefaultMaxTries
	}

	n := len(m.Nodes)
	var best [][2]int
	bestTouched := -1
	for t := 0; t < tries; t++ {
		edges := s.draw(n)
		touched := coverage(n, edges)
		if touched == n {
			m.Edges = edges
			return nil
		}
		if touched > bestTouched {
			best, bestTouched = edges, touched
		}
	}
	m.Edges = best
	return RetryErr
}

func (s *ProbShuffler) draw(n int) [][2]int {
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if moebius.Rand.Float64() < s.Prob {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// coverage counts the nodes among 0..n-1 that some edge touches.
func coverage(n int, edges [][2]int) int {
	touched := make([]bool, n)
	for _, e := range edges {
		touched[e[0]] = true
		touched[e[1]] = true
	}
	c := 0
	for _, t := range touched {
		if t {
			c++
		}
	}
	return c
}
