package stats

import (
	"math"
	"testing"
)

func TestErf_KnownValues(t *testing.T) {
	cases := []struct {
		x    float64
		want float64
	}{
		{0.0, 0.0},
		{0.5, 0.5204999},
		{1.0, 0.8427008},
		{2.0, 0.9953223},
		{3.0, 0.9999779},
	}
	for _, tc := range cases {
		got := Erf(tc.x)
		if math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("Erf(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestErf_Odd(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1.0, 2.5} {
		if Erf(-x) != -Erf(x) {
			t.Errorf("Erf(-%v) = %v, want %v", x, Erf(-x), -Erf(x))
		}
	}
}

func TestNormalCDF(t *testing.T) {
	if got := NormalCDF(0); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("NormalCDF(0) = %v, want 0.5", got)
	}
	if got := NormalCDF(1.96); math.Abs(got-0.975) > 1e-4 {
		t.Errorf("NormalCDF(1.96) = %v, want 0.975", got)
	}
	if got := NormalCDF(-1.96); math.Abs(got-0.025) > 1e-4 {
		t.Errorf("NormalCDF(-1.96) = %v, want 0.025", got)
	}
}

func TestPhiCoefficient_PerfectAssociation(t *testing.T) {
	if got := PhiCoefficient(5, 0, 0, 5); got != 1.0 {
		t.Errorf("PhiCoefficient(5,0,0,5) = %v, want exactly 1.0", got)
	}
	if got := PhiCoefficient(0, 5, 5, 0); got != -1.0 {
		t.Errorf("PhiCoefficient(0,5,5,0) = %v, want exactly -1.0", got)
	}
}

func TestPhiCoefficient_Bounded(t *testing.T) {
	tables := [][4]int{
		{1, 2, 3, 4}, {10, 0, 3, 7}, {0, 0, 1, 1}, {7, 7, 7, 7}, {1, 99, 99, 1},
	}
	for _, tbl := range tables {
		got := PhiCoefficient(tbl[0], tbl[1], tbl[2], tbl[3])
		if got < -1.0 || got > 1.0 || math.IsNaN(got) {
			t.Errorf("PhiCoefficient(%v) = %v, out of [-1, 1]", tbl, got)
		}
	}
}

func TestPhiCoefficient_RowSwapFlipsSign(t *testing.T) {
	a, b, c, d := 3, 1, 2, 4
	forward := PhiCoefficient(a, b, c, d)
	swapped := PhiCoefficient(c, d, a, b)
	if math.Abs(forward+swapped) > 1e-12 {
		t.Errorf("PhiCoefficient(%d,%d,%d,%d) = %v, swapped rows = %v, want sign flip",
			a, b, c, d, forward, swapped)
	}
}

func TestPhiCoefficient_Degenerate(t *testing.T) {
	if got := PhiCoefficient(0, 0, 0, 0); got != 0 {
		t.Errorf("PhiCoefficient on empty table = %v, want 0", got)
	}
	// Empty margin: zero denominator
	if got := PhiCoefficient(0, 0, 3, 4); got != 0 {
		t.Errorf("PhiCoefficient(0,0,3,4) = %v, want 0", got)
	}
}

func TestChiSquarePValue_SparseCells(t *testing.T) {
	tables := [][4]int{
		{1, 1, 1, 1}, // all expected counts 2
		{2, 3, 1, 4}, // smallest expected count 4
		{0, 0, 0, 0},
		{3, 0, 0, 3},
	}
	for _, tbl := range tables {
		got := ChiSquarePValue(tbl[0], tbl[1], tbl[2], tbl[3])
		if got != 1.0 {
			t.Errorf("ChiSquarePValue(%v) = %v, want exactly 1.0 for sparse table", tbl, got)
		}
	}
}

func TestChiSquarePValue_PerfectAssociation(t *testing.T) {
	got := ChiSquarePValue(5, 0, 0, 5)
	if got >= 0.05 {
		t.Errorf("ChiSquarePValue(5,0,0,5) = %v, want < 0.05", got)
	}
	if got <= 0 {
		t.Errorf("ChiSquarePValue(5,0,0,5) = %v, want > 0", got)
	}
}

func TestChiSquarePValue_Bounded(t *testing.T) {
	tables := [][4]int{
		{5, 0, 0, 5}, {10, 5, 5, 10}, {50, 10, 10, 50}, {8, 8, 8, 8},
	}
	for _, tbl := range tables {
		got := ChiSquarePValue(tbl[0], tbl[1], tbl[2], tbl[3])
		if got < 0 || got > 1 || math.IsNaN(got) {
			t.Errorf("ChiSquarePValue(%v) = %v, out of [0, 1]", tbl, got)
		}
	}
}

func TestPointBiserialCorrelation_EmptyGroups(t *testing.T) {
	if got := PointBiserialCorrelation(nil, []float64{1, 2}); got != 0 {
		t.Errorf("PointBiserialCorrelation(nil, ...) = %v, want 0", got)
	}
	if got := PointBiserialCorrelation([]float64{1, 2}, nil); got != 0 {
		t.Errorf("PointBiserialCorrelation(..., nil) = %v, want 0", got)
	}
	if got := PointBiserialCorrelation([]float64{1}, nil); got != 0 {
		t.Errorf("PointBiserialCorrelation single value = %v, want 0", got)
	}
}

func TestPointBiserialCorrelation_ZeroVariance(t *testing.T) {
	if got := PointBiserialCorrelation([]float64{5, 5}, []float64{5, 5}); got != 0 {
		t.Errorf("PointBiserialCorrelation with zero variance = %v, want 0", got)
	}
}

func TestPointBiserialCorrelation_PerfectSeparation(t *testing.T) {
	group1 := []float64{150, 150, 150, 150, 150}
	group0 := []float64{50, 50, 50, 50, 50}
	got := PointBiserialCorrelation(group1, group0)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("PointBiserialCorrelation = %v, want 1.0", got)
	}
}

func TestPointBiserialCorrelation_KnownValue(t *testing.T) {
	// group1 = {2,3}, group0 = {1,2}: pooled mean 2, population sd sqrt(0.5),
	// r = (1/sqrt(0.5)) * sqrt(4/16) = 0.70710...
	got := PointBiserialCorrelation([]float64{2, 3}, []float64{1, 2})
	if math.Abs(got-0.70710678) > 1e-6 {
		t.Errorf("PointBiserialCorrelation = %v, want 0.70710678", got)
	}
}

func TestWelchTTestPValue_SmallGroups(t *testing.T) {
	cases := []struct {
		group1, group0 []float64
	}{
		{nil, []float64{1, 2, 3}},
		{[]float64{1}, []float64{1, 2, 3}},
		{[]float64{1, 2, 3}, []float64{1}},
		{[]float64{1}, []float64{2}},
	}
	for _, tc := range cases {
		if got := WelchTTestPValue(tc.group1, tc.group0); got != 1.0 {
			t.Errorf("WelchTTestPValue(%v, %v) = %v, want exactly 1.0",
				tc.group1, tc.group0, got)
		}
	}
}

func TestWelchTTestPValue_ZeroVariance(t *testing.T) {
	if got := WelchTTestPValue([]float64{5, 5, 5}, []float64{5, 5, 5}); got != 1.0 {
		t.Errorf("WelchTTestPValue with zero variances = %v, want 1.0", got)
	}
}

func TestWelchTTestPValue_ClearDifference(t *testing.T) {
	group1 := []float64{150, 151, 149, 150, 150}
	group0 := []float64{50, 51, 49, 50, 50}
	got := WelchTTestPValue(group1, group0)
	if got >= 0.01 {
		t.Errorf("WelchTTestPValue for well-separated groups = %v, want < 0.01", got)
	}
}

func TestWelchTTestPValue_IdenticalGroups(t *testing.T) {
	got := WelchTTestPValue([]float64{1, 2, 3}, []float64{1, 2, 3})
	if got < 0.99 {
		t.Errorf("WelchTTestPValue for identical groups = %v, want near 1.0", got)
	}
}
