package lms

import "math"

// ZScore applies the Box-Cox normal transform of the LMS method.
// L == 0 is the log limit of the power transform and is compared exactly.
func ZScore(l, m, s, value float64) float64 {
	if l != 0 {
		return (math.Pow(value/m, l) - 1) / (l * s)
	}
	return math.Log(value/m) / s
}

// ValueForZScore is the inverse of ZScore.
func ValueForZScore(l, m, s, z float64) float64 {
	if l != 0 {
		return m * math.Pow(1+l*s*z, 1/l)
	}
	return m * math.Exp(s*z)
}

// NormalCDF is the standard normal cumulative distribution, computed with the
// Abramowitz & Stegun 26.2.17 polynomial. Absolute error is below 1e-6, good
// enough for display but not for diagnostics.
func NormalCDF(z float64) float64 {
	t := 1 / (1 + cdfP*math.Abs(z))
	d := cdfD * math.Exp(-z*z/2)
	prob := d * t * (cdfB1 + t*(cdfB2+t*(cdfB3+t*(cdfB4+t*cdfB5))))
	if z > 0 {
		return 1 - prob
	}
	return prob
}
