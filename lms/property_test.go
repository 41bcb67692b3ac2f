package lms

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/uyouii/littlesprout/model"
)

func genGender() gopter.Gen {
	return gen.OneConstOf(model.Boy, model.Girl)
}

func genMeasurementType() gopter.Gen {
	return gen.OneConstOf(model.Height, model.Weight)
}

func TestPropertyBreakpointAgreement(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("interpolation at a breakpoint returns the stored point", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, index int) bool {
			table := Lookup(gender, measurementType)
			point := table[index]
			l, m, s := Interpolate(table, float64(point.AgeMonths))
			return l == point.Lambda && m == point.Mu && s == point.Sigma
		},
		genGender(),
		genMeasurementType(),
		gen.IntRange(0, BreakpointCount-1),
	))

	properties.TestingRun(t)
}

func TestPropertyMonotonicInterpolation(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("interpolated median lies between the bounding breakpoints", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, age float64) bool {
			table := Lookup(gender, measurementType)
			_, m, _ := Interpolate(table, age)
			for i := 0; i+1 < len(table); i++ {
				lower, upper := table[i], table[i+1]
				if age < float64(lower.AgeMonths) || age > float64(upper.AgeMonths) {
					continue
				}
				lo, hi := math.Min(lower.Mu, upper.Mu), math.Max(lower.Mu, upper.Mu)
				return m >= lo && m <= hi
			}
			return false
		},
		genGender(),
		genMeasurementType(),
		gen.Float64Range(0, 60),
	))

	properties.TestingRun(t)
}

func TestPropertyMedianRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("the median at any age ranks at the 50th percentile", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, age float64) bool {
			_, m, _ := Interpolate(Lookup(gender, measurementType), age)
			p, ok := PercentileOf(gender, age, measurementType, m)
			return ok && p >= 49 && p <= 51
		},
		genGender(),
		genMeasurementType(),
		gen.Float64Range(0, 60),
	))

	properties.Property("inverse transform round-trips the z-score", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, age, z float64) bool {
			l, m, s := Interpolate(Lookup(gender, measurementType), age)
			got, ok := ZScoreOf(gender, age, measurementType, ValueForZScore(l, m, s, z))
			return ok && math.Abs(got-z) < 1e-6
		},
		genGender(),
		genMeasurementType(),
		gen.Float64Range(0, 60),
		gen.Float64Range(-3, 3),
	))

	properties.TestingRun(t)
}

func TestPropertyCurveOrdering(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("p3 <= p15 <= p50 <= p85 <= p97 at every month", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, maxAge int) bool {
			curve, err := GenerateCurve(gender, measurementType, maxAge)
			if err != nil || len(curve) != maxAge+1 {
				return false
			}
			for _, point := range curve {
				if !(point.P3 <= point.P15 && point.P15 <= point.P50 &&
					point.P50 <= point.P85 && point.P85 <= point.P97) {
					return false
				}
			}
			return true
		},
		genGender(),
		genMeasurementType(),
		gen.IntRange(0, MaxAgeMonths),
	))

	properties.TestingRun(t)
}

func TestPropertyBoundaryClamping(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("ages below 0 read the birth breakpoint", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, age float64) bool {
			table := Lookup(gender, measurementType)
			l, m, s := Interpolate(table, age)
			l0, m0, s0 := Interpolate(table, 0)
			return l == l0 && m == m0 && s == s0
		},
		genGender(),
		genMeasurementType(),
		gen.Float64Range(-120, 0),
	))

	properties.Property("ages above 60 read the last breakpoint", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, age float64) bool {
			table := Lookup(gender, measurementType)
			l, m, s := Interpolate(table, age)
			l60, m60, s60 := Interpolate(table, 60)
			return l == l60 && m == m60 && s == s60
		},
		genGender(),
		genMeasurementType(),
		gen.Float64Range(60, 240),
	))

	properties.Property("non-positive values are unavailable", prop.ForAll(
		func(gender model.Gender, measurementType model.MeasurementType, age, value float64) bool {
			_, ok := PercentileOf(gender, age, measurementType, value)
			return !ok
		},
		genGender(),
		genMeasurementType(),
		gen.Float64Range(0, 60),
		gen.Float64Range(-100, 0),
	))

	properties.TestingRun(t)
}
