package moebius

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var NoPairsErr = errors.New("mixture needs at least two components")

// The overlap scan walks the segment between two component means in
// thousandths of their separation, padded ten steps before the first mean
// and twenty past the second.
const (
	scanDiv    = 1000
	scanBefore = 10
	scanPoints = 1031
)

// OverlapRates scores every unordered pair of mixture components, in
// (0,1) then (0,2), ... (1,2), ... order. A pair scores 1 when the two
// components merge into a single mode along the segment between their means
// and approaches 0 as they separate. When every covariance is positive
// definite the densities come from the fast normal path; if any is not,
// every component is evaluated through the generalized path.
func OverlapRates(m Mixture) ([]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Comps() < 2 {
		return nil, NoPairsErr
	}
	probers, err := buildProbers(m)
	if err != nil {
		return nil, err
	}
	return overlapRates(m, probers), nil
}

// MeanOverlapRate is the arithmetic mean of OverlapRates.
func MeanOverlapRate(m Mixture) (float64, error) {
	rates, err := OverlapRates(m)
	if err != nil {
		return 0, err
	}
	return floats.Sum(rates) / float64(len(rates)), nil
}

// OLRFromFlat runs the overlap engine over a flat parameter vector laid out
// as in FromFlat.
func OLRFromFlat(comps, dims int, data []float64) ([]float64, error) {
	m, err := FromFlat(comps, dims, data)
	if err != nil {
		return nil, err
	}
	return OverlapRates(m)
}

func buildProbers(m Mixture) ([]Prober, error) {
	fast := true
	for _, c := range m.Covs {
		if !IsPosDef(c) {
			fast = false
			break
		}
	}

	probers := make([]Prober, m.Comps())
	for i := range probers {
		if fast {
			p, ok := NewNormProber(m.Means[i], m.Covs[i])
			if !ok {
				return nil, fmt.Errorf("component %v: covariance factorization failed", i)
			}
			probers[i] = p
		} else {
			p, err := NewGenProber(m.Means[i], m.Covs[i])
			if err != nil {
				return nil, fmt.Errorf("component %v: %w", i, err)
			}
			probers[i] = p
		}
	}
	return probers, nil
}

func overlapRates(m Mixture, probers []Prober) []float64 {
	n := m.Comps()
	rates := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rates = append(rates, pairRate(m.Weights[i], m.Weights[j],
				m.Means[i], m.Means[j], probers[i], probers[j]))
		}
	}
	return rates
}

func pairRate(w1, w2 float64, mu1, mu2 []float64, p1, p2 Prober) float64 {
	// A pair carrying no weight reads as fully merged.
	if w1+w2 == 0 {
		return 1
	}

	dim := len(mu1)
	delta := make([]float64, dim)
	cur := make([]float64, dim)
	for i := range delta {
		delta[i] = (mu2[i] - mu1[i]) / scanDiv
		cur[i] = mu1[i] - scanBefore*delta[i]
	}

	wa := w1 / (w1 + w2)
	wb := 1 - wa

	pdf := make([]float64, scanPoints)
	for k := range pdf {
		pdf[k] = wa*p1.Prob(cur) + wb*p2.Prob(cur)
		for i := range cur {
			cur[i] += delta[i]
		}
	}

	var peaks, saddles []float64
	for k := 1; k < scanPoints-1; k++ {
		if pdf[k] > pdf[k-1] && pdf[k] > pdf[k+1] {
			peaks = append(peaks, pdf[k])
		}
		if pdf[k] < pdf[k-1] && pdf[k] < pdf[k+1] {
			saddles = append(saddles, pdf[k])
		}
	}

	if len(peaks) == 1 {
		return 1
	}
	if len(saddles) == 0 {
		return 1
	}
	return saddles[0] / floats.Min(peaks)
}
