package moebius

import (
	"errors"
	"math"
	"testing"
)

func TestOverlapRatesOneDim(t *testing.T) {
	m, err := NewMixture(
		[]float64{0.5, 0.5},
		[][]float64{{5}, {2}},
		[][][]float64{{{0.5}}, {{0.5}}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("rate count: expected %v, got %v", 1, len(rates))
	}

	want := 0.21077243773848037
	if math.Abs(rates[0]-want) > 1e-4 {
		t.Errorf("rate: expected %v, got %v", want, rates[0])
	}
}

func TestOverlapRatesTwoDims(t *testing.T) {
	m, err := NewMixture(
		[]float64{5.2194e-01, 4.7806e-01},
		[][]float64{
			{1.1987e+00, 1.1542e+00},
			{4.1592e+00, 4.1487e+00},
		},
		[][][]float64{
			{
				{1.9455e+00, -9.1612e-04},
				{-9.1612e-04, 1.9703e+00},
			},
			{
				{1.5160e+00, 1.1011e+00},
				{1.1011e+00, 1.5178e+00},
			},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 0.9205257521646449
	if math.Abs(rates[0]-want) > 1e-4 {
		t.Errorf("rate: expected %v, got %v", want, rates[0])
	}
}

func TestOverlapRatesThreeComps(t *testing.T) {
	m, err := NewMixture(
		[]float64{5.2194e-01, 4.7806e-01, 5.2194e-01},
		[][]float64{
			{1.1987e+00, 1.1542e+00},
			{4.1592e+00, 4.1487e+00},
			{4.1592e+00, 4.1487e+00},
		},
		[][][]float64{
			{
				{1.9455e+00, -9.1612e-04},
				{-9.1612e-04, 1.9703e+00},
			},
			{
				{1.5160e+00, 1.1011e+00},
				{1.1011e+00, 1.5178e+00},
			},
			{
				{1.5160e+00, 1.1009e+00},
				{1.1009e+00, 1.5178e+00},
			},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 3 {
		t.Fatalf("rate count: expected %v, got %v", 3, len(rates))
	}

	// Pairs come out in (0,1), (0,2), (1,2) order. The last pair has
	// identical means, so its scan is flat and scores 1.
	exps := []float64{0.9205257521646449, 0.9464977842655895, 1.0}
	for i, exp := range exps {
		if math.Abs(rates[i]-exp) > 1e-4 {
			t.Errorf("rate %v: expected %v, got %v", i, exp, rates[i])
		}
	}

	mean, err := MeanOverlapRate(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantmean := (exps[0] + exps[1] + exps[2]) / 3
	if math.Abs(mean-wantmean) > 1e-4 {
		t.Errorf("mean rate: expected %v, got %v", wantmean, mean)
	}
}

func TestOverlapRatesIdentical(t *testing.T) {
	m, err := NewMixture(
		[]float64{0.5, 0.5},
		[][]float64{{1.5}, {1.5}},
		[][][]float64{{{1}}, {{1}}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates[0] != 1 {
		t.Errorf("identical components: expected %v, got %v", 1, rates[0])
	}
}

func TestOverlapRatesWeightless(t *testing.T) {
	m, err := NewMixture(
		[]float64{0, 0, 1},
		[][]float64{{0}, {4}, {8}},
		[][][]float64{{{1}}, {{1}}, {{1}}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates[0] != 1 {
		t.Errorf("weightless pair: expected %v, got %v", 1, rates[0])
	}
	for i, r := range rates {
		if math.IsNaN(r) {
			t.Errorf("rate %v: got NaN", i)
		}
	}
}

func TestOverlapRatesSeparated(t *testing.T) {
	m, err := NewMixture(
		[]float64{0.5, 0.5},
		[][]float64{{0}, {10}},
		[][][]float64{{{1}}, {{1}}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates[0] <= 0 || rates[0] > 1e-4 {
		t.Errorf("well separated components: expected a rate near 0, got %v", rates[0])
	}
}

func TestOverlapRatesSymmetry(t *testing.T) {
	weights := []float64{0.3, 0.7}
	means := [][]float64{{1}, {4}}
	covs := [][][]float64{{{1.2}}, {{0.8}}}

	m1, err := NewMixture(weights, means, covs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, err := NewMixture(
		[]float64{weights[1], weights[0]},
		[][]float64{means[1], means[0]},
		[][][]float64{covs[1], covs[0]},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r1, err := OverlapRates(m1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := OverlapRates(m2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(r1[0]-r2[0]) > 1e-9 {
		t.Errorf("swapped components: expected %v, got %v", r1[0], r2[0])
	}
}

// The generalized density path must reproduce the fast path on well
// conditioned covariances.
func TestOverlapRatesPathsAgree(t *testing.T) {
	m, err := NewMixture(
		[]float64{5.2194e-01, 4.7806e-01},
		[][]float64{
			{1.1987e+00, 1.1542e+00},
			{4.1592e+00, 4.1487e+00},
		},
		[][][]float64{
			{
				{1.9455e+00, -9.1612e-04},
				{-9.1612e-04, 1.9703e+00},
			},
			{
				{1.5160e+00, 1.1011e+00},
				{1.1011e+00, 1.5178e+00},
			},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fast := make([]Prober, m.Comps())
	gen := make([]Prober, m.Comps())
	for i := range fast {
		p, ok := NewNormProber(m.Means[i], m.Covs[i])
		if !ok {
			t.Fatalf("component %v should be positive definite", i)
		}
		fast[i] = p
		g, err := NewGenProber(m.Means[i], m.Covs[i])
		if err != nil {
			t.Fatalf("component %v: %v", i, err)
		}
		gen[i] = g
	}

	rf := overlapRates(m, fast)
	rg := overlapRates(m, gen)
	for i := range rf {
		if math.Abs(rf[i]-rg[i]) > 1e-6 {
			t.Errorf("pair %v: expected %v, got %v", i, rf[i], rg[i])
		}
	}
}

func TestOverlapRatesNegativeVariance(t *testing.T) {
	m, err := NewMixture(
		[]float64{0.2, 0.2},
		[][]float64{{6}, {11}},
		[][][]float64{{{-0.006577556145946767}}, {{0.5448831829968969}}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := OverlapRates(m); !errors.Is(err, NotPsdErr) {
		t.Errorf("negative variance: expected %v, got %v", NotPsdErr, err)
	}
}

// A rank deficient covariance is not an error: the engine falls back to the
// generalized density path and still produces a rate.
func TestOverlapRatesDegenerate(t *testing.T) {
	m, err := NewMixture(degenWeights, degenMeans, degenCovs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if IsPosDef(m.Covs[0]) {
		t.Fatalf("first covariance should be rank deficient")
	}

	rates, err := OverlapRates(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 1 {
		t.Fatalf("rate count: expected %v, got %v", 1, len(rates))
	}
	if rates[0] < 0 || rates[0] > 1 {
		t.Errorf("rate out of range: got %v", rates[0])
	}
	t.Logf("[INFO] degenerate mixture rate %v", rates[0])
}

func TestOverlapRatesOneComp(t *testing.T) {
	m, err := NewMixture([]float64{1}, [][]float64{{0}}, [][][]float64{{{1}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := OverlapRates(m); err != NoPairsErr {
		t.Errorf("single component: expected %v, got %v", NoPairsErr, err)
	}
}

func TestOLRFromFlat(t *testing.T) {
	data := []float64{0.5, 0.5, 5, 2, 0.5, 0.5}

	rates, err := OLRFromFlat(2, 1, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.21077243773848037
	if math.Abs(rates[0]-want) > 1e-4 {
		t.Errorf("rate: expected %v, got %v", want, rates[0])
	}

	if _, err := OLRFromFlat(2, 1, data[:4]); err == nil {
		t.Errorf("short flat data: expected an error, got none")
	}
}

// Sample statistics of a nine dimensional data set whose first group has
// fewer observations than dimensions, leaving its covariance singular.
var (
	degenWeights = []float64{0.22222222, 0.77777778}

	degenMeans = [][]float64{
		{18.83333334, 18.16666668, 24.16666662, 41.83333333, 84.16666664,
			44.16666665, 41.33333325, 69.33333339, 40.83333336},
		{42.57142856, 45.19047617, 47.95238095, 53.47619047, 49.28571431,
			40.23809524, 52.00000002, 55.04761904, 43.28571428},
	}

	degenCovs = [][][]float64{
		{
			{219.8055559, -6.63888894, -89.4722222, -232.02777816, -132.47222233,
				124.52777804, 150.05555611, 140.3888889, 82.63888893},
			{-6.63888894, 134.47222238, 41.3055559, 147.6944447, 52.80555583,
				108.63888915, 225.27777864, 158.27777768, 234.86111134},
			{-89.4722222, 41.3055559, 241.80555476, 168.86111134, 134.30555498,
				-22.3611115, 287.61110946, -105.72222082, 49.52777857},
			{-232.02777816, 147.6944447, 168.86111134, 850.1388903, 359.36111168,
				-451.97222299, -149.94444479, -267.44444482, 301.97222276},
			{-132.47222233, 52.80555583, 134.30555498, 359.36111168, 266.80555547,
				-34.19444473, 208.94444338, -283.22222164, 37.19444498},
			{124.52777804, 108.63888915, -22.3611115, -451.97222299, -34.19444473,
				843.13889019, 905.27777866, 264.94444535, 24.86111136},
			{150.05555611, 225.27777864, 287.61110946, -149.94444479, 208.94444338,
				905.27777866, 1593.88888776, 98.2222252, 275.38889061},
			{140.3888889, 158.27777768, -105.72222082, -267.44444482, -283.22222164,
				264.94444535, 98.2222252, 682.55555461, 323.3888885},
			{82.63888893, 234.86111134, 49.52777857, 301.97222276, 37.19444498,
				24.86111136, 275.38889061, 323.3888885, 523.47222268},
		},
		{
			{963.38775501, 395.51020433, -135.73469385, -317.60544189, 167.83673392,
				69.81632634, -171.57142898, -372.40816281, -43.73469362},
			{395.51020433, 784.63038564, 17.53287976, -268.51927408, 392.65986292,
				-38.56916117, -87.8571434, -69.29478421, 316.13605456},
			{-135.73469385, 17.53287976, 637.66439879, 111.54648519, -20.510204,
				57.48752833, -190.33333319, -44.6643991, 127.63265297},
			{-317.60544189, -268.51927408, 111.54648519, 979.01133745, 52.14965958,
				91.12471645, 20.52380933, 402.83446703, 90.91156467},
			{167.83673392, 392.65986292, -20.510204, 52.14965958, 552.39455888,
				-128.87755066, 35.71428663, 29.74829878, 302.96598579},
			{69.81632634, -38.56916117, 57.48752833, 91.12471645, -128.87755066,
				938.84807218, -360.76190438, 49.13151913, -229.02040816},
			{-171.57142898, -87.8571434, -190.33333319, 20.52380933, 35.71428663,
				-360.76190438, 774.66666695, 121.428571, 398.47618996},
			{-372.40816281, -69.29478421, -44.6643991, 402.83446703, 29.74829878,
				49.13151913, 121.428571, 668.14058946, -5.63265288},
			{-43.73469362, 316.13605456, 127.63265297, 90.91156467, 302.96598579,
				-229.02040816, 398.47618996, -5.63265288, 835.06122425},
		},
	}
)
