package lms

import (
	"fmt"
	"math"

	"github.com/uyouii/littlesprout/common"
	"github.com/uyouii/littlesprout/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// ZScoreOf returns the z-score of a measurement against the reference
// population. ok is false for a negative age, a non-positive value, or
// input that is not a finite number.
func ZScoreOf(gender model.Gender, ageMonths float64, measurementType model.MeasurementType,
	value float64) (z float64, ok bool) {
	if !gender.Valid() || !measurementType.Valid() {
		return 0, false
	}
	if !isFinite(ageMonths) || !isFinite(value) {
		return 0, false
	}
	if ageMonths < 0 || value <= 0 {
		return 0, false
	}

	l, m, s := Interpolate(table(gender, measurementType)[:], ageMonths)
	z = ZScore(l, m, s, value)
	if math.IsNaN(z) {
		return 0, false
	}
	return z, true
}

// PercentileOf ranks a measurement as a whole percentile in [0, 100].
// ok is false when the percentile is unavailable, see ZScoreOf.
// Extreme values saturate at 0 or 100.
func PercentileOf(gender model.Gender, ageMonths float64, measurementType model.MeasurementType,
	value float64) (percentile int, ok bool) {
	z, ok := ZScoreOf(gender, ageMonths, measurementType, value)
	if !ok {
		return 0, false
	}
	return int(math.Round(NormalCDF(z) * 100)), true
}

// ZScoreForPercentile returns the z-score of percentile p, 0 < p < 100.
func ZScoreForPercentile(p float64) (float64, error) {
	if !isFinite(p) || p <= 0 || p >= 100 {
		return 0, fmt.Errorf("percentile %v: %w", p, common.ErrorInvalidValue)
	}
	return distuv.UnitNormal.Quantile(p / 100), nil
}

// ValueAtPercentile returns the measurement that sits on percentile p at the
// given age, e.g. the 90th percentile weight at 18 months.
func ValueAtPercentile(gender model.Gender, measurementType model.MeasurementType,
	ageMonths float64, p float64) (float64, error) {
	if !gender.Valid() || !measurementType.Valid() {
		return 0, common.ErrorInvalidValue
	}
	if !isFinite(ageMonths) || ageMonths < 0 {
		return 0, fmt.Errorf("age %v: %w", ageMonths, common.ErrorAgeOutOfRange)
	}
	z, err := ZScoreForPercentile(p)
	if err != nil {
		return 0, err
	}
	l, m, s := Interpolate(table(gender, measurementType)[:], ageMonths)
	return ValueForZScore(l, m, s, z), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
