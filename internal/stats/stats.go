// Package stats implements the closed-form statistical tests used by the
// correlation engine: an error-function approximation, the Normal CDF, the
// phi coefficient with a Yates-corrected chi-square p-value for 2×2
// contingency tables, and the point-biserial coefficient with a Welch t-test
// p-value for two numeric samples.
//
// Every function is pure, performs no I/O, and is total over its documented
// input domain: degenerate inputs (empty tables, empty groups, zero variance,
// sparse cells) yield the neutral values 0 for coefficients and 1.0 for
// p-values rather than NaN or an error.
package stats

import "math"

// Abramowitz–Stegun 7.1.26 rational approximation coefficients.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// Erf approximates the Gauss error function to within about 1.5e-7
// using the Abramowitz–Stegun rational approximation. Odd: Erf(-x) == -Erf(x).
func Erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + erfP*x)
	y := 1.0 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)

	return sign * y
}

// NormalCDF returns the cumulative distribution function of the standard
// normal distribution evaluated at x.
func NormalCDF(x float64) float64 {
	return 0.5 * (1.0 + Erf(x/math.Sqrt2))
}

// PhiCoefficient computes the phi coefficient of association for a 2×2
// contingency table laid out as
//
//	             outcome   no outcome
//	tagged          a          b
//	not tagged      c          d
//
// The result is bounded to [-1, 1]. An empty table or a zero denominator
// (any empty margin) yields 0.
func PhiCoefficient(a, b, c, d int) float64 {
	n := a + b + c + d
	if n == 0 {
		return 0
	}

	af, bf, cf, df := float64(a), float64(b), float64(c), float64(d)
	denominator := math.Sqrt((af + bf) * (cf + df) * (af + cf) * (bf + df))
	if denominator == 0 {
		return 0
	}

	return (af*df - bf*cf) / denominator
}

// ChiSquarePValue returns the two-sided p-value of a Yates-corrected
// chi-square test on a 2×2 contingency table (same layout as PhiCoefficient).
//
// The expected count of each cell is taken as the mean of its row and column
// totals. When any expected count falls below 5 the test is unreliable and
// 1.0 is returned; a Fisher exact test would be the textbook alternative at
// small samples but is deliberately not implemented to avoid factorial
// overflow. The statistic has one degree of freedom, so it equals Z², and
// p = 2 * (1 - NormalCDF(sqrt(chi²))).
func ChiSquarePValue(a, b, c, d int) float64 {
	observed := [4]float64{float64(a), float64(b), float64(c), float64(d)}
	row := [4]float64{
		float64(a + b), float64(a + b),
		float64(c + d), float64(c + d),
	}
	col := [4]float64{
		float64(a + c), float64(b + d),
		float64(a + c), float64(b + d),
	}

	var chiSquare float64
	for i := range observed {
		expected := (row[i] + col[i]) / 2
		if expected < 5 {
			return 1.0
		}
		// Yates' continuity correction, clamped so tiny deviations cannot
		// produce a negative term.
		deviation := math.Max(0, math.Abs(observed[i]-expected)-0.5)
		chiSquare += deviation * deviation / expected
	}

	return 2.0 * (1.0 - NormalCDF(math.Sqrt(chiSquare)))
}

// PointBiserialCorrelation computes the correlation between group membership
// (1 for group1, 0 for group0) and the pooled values. It returns 0 when the
// pooled sample has at most one value, when either group is empty, or when
// the pooled population standard deviation is zero.
//
// The standard deviation is the population form (divide by n, not n-1),
// matching the point-biserial definition over the observed data.
func PointBiserialCorrelation(group1, group0 []float64) float64 {
	n1 := len(group1)
	n0 := len(group0)
	n := n1 + n0
	if n <= 1 || n1 == 0 || n0 == 0 {
		return 0
	}

	mean1 := mean(group1)
	mean0 := mean(group0)

	pooledMean := (mean1*float64(n1) + mean0*float64(n0)) / float64(n)
	var sumSquares float64
	for _, v := range group1 {
		sumSquares += (v - pooledMean) * (v - pooledMean)
	}
	for _, v := range group0 {
		sumSquares += (v - pooledMean) * (v - pooledMean)
	}
	sd := math.Sqrt(sumSquares / float64(n))
	if sd == 0 {
		return 0
	}

	return ((mean1 - mean0) / sd) * math.Sqrt(float64(n1)*float64(n0)/float64(n*n))
}

// WelchTTestPValue returns the two-sided p-value of a Welch t-test (unequal
// variances) between the two groups. It returns 1.0 when either group has
// fewer than 2 samples or when both sample variances are zero.
func WelchTTestPValue(group1, group0 []float64) float64 {
	n1 := len(group1)
	n0 := len(group0)
	if n1 < 2 || n0 < 2 {
		return 1.0
	}

	mean1 := mean(group1)
	mean0 := mean(group0)
	var1 := sampleVariance(group1, mean1)
	var0 := sampleVariance(group0, mean0)
	if var1 == 0 && var0 == 0 {
		return 1.0
	}

	se := math.Sqrt(var1/float64(n1) + var0/float64(n0))
	t := math.Abs(mean1-mean0) / se

	// Welch–Satterthwaite degrees of freedom. Computed for completeness; the
	// CDF approximation below does not depend on it.
	v1 := var1 / float64(n1)
	v0 := var0 / float64(n0)
	df := (v1 + v0) * (v1 + v0) / (v1*v1/float64(n1-1) + v0*v0/float64(n0-1))

	return 2.0 * (1.0 - studentTCDF(t, df))
}

// studentTCDF approximates the Student's t CDF with the standard normal CDF
// for all degrees of freedom. The approximation is liberal at small df
// (p-values come out smaller than exact), an accepted trade-off over
// implementing the incomplete beta function.
func studentTCDF(t, df float64) float64 {
	_ = df
	return NormalCDF(t)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance is the Bessel-corrected variance (divide by n-1).
// Callers guarantee len(values) >= 2.
func sampleVariance(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values)-1)
}
