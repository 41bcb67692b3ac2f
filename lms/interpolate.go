package lms

import (
	"github.com/uyouii/littlesprout/model"
)

// ClampAge limits an age to the [0, 60] month domain of the tables.
// Ages outside are not extrapolated: the boundary breakpoint is reused,
// which gives a flat tail past 60 months.
func ClampAge(ageMonths float64) float64 {
	if ageMonths < MinAgeMonths {
		return MinAgeMonths
	}
	if ageMonths > MaxAgeMonths {
		return MaxAgeMonths
	}
	return ageMonths
}

// Interpolate returns the LMS parameters at ageMonths, linearly interpolated
// between the two bounding breakpoints. At a breakpoint the stored values are
// returned unchanged.
//
// LMS parameters are not really piecewise linear in age, so values between
// breakpoints are an approximation.
func Interpolate(table model.GrowthReferenceTable, ageMonths float64) (l, m, s float64) {
	if len(table) == 0 {
		return 0, 0, 0
	}

	ageMonths = ClampAge(ageMonths)

	for _, point := range table {
		if ageMonths == float64(point.AgeMonths) {
			return point.Lambda, point.Mu, point.Sigma
		}
	}

	lower, upper := table[0], table[len(table)-1]
	for i := 0; i+1 < len(table); i++ {
		if ageMonths >= float64(table[i].AgeMonths) && ageMonths <= float64(table[i+1].AgeMonths) {
			lower, upper = table[i], table[i+1]
			break
		}
	}

	if lower.AgeMonths == upper.AgeMonths {
		return lower.Lambda, lower.Mu, lower.Sigma
	}

	factor := (ageMonths - float64(lower.AgeMonths)) / float64(upper.AgeMonths-lower.AgeMonths)

	l = lerp(lower.Lambda, upper.Lambda, factor)
	m = lerp(lower.Mu, upper.Mu, factor)
	s = lerp(lower.Sigma, upper.Sigma, factor)
	return l, m, s
}

func lerp(lower, upper, factor float64) float64 {
	return lower + (upper-lower)*factor
}
