package lms

import (
	"fmt"
	"iter"
	"slices"

	"github.com/uyouii/littlesprout/common"
	"github.com/uyouii/littlesprout/model"
)

// CurvePoints lazily yields one reference point per month from 0 to
// maxAgeMonths inclusive. Ranging over the sequence again recomputes it.
// maxAgeMonths is not validated here: past 60 months the interpolator clamps
// and the curve stays flat.
func CurvePoints(gender model.Gender, measurementType model.MeasurementType, maxAgeMonths int) iter.Seq[model.CurvePoint] {
	t := table(gender, measurementType)[:]
	return func(yield func(model.CurvePoint) bool) {
		for age := 0; age <= maxAgeMonths; age++ {
			if !yield(curvePoint(t, age)) {
				return
			}
		}
	}
}

// GenerateCurve returns the 3rd/15th/50th/85th/97th percentile values for
// every month from 0 to maxAgeMonths. maxAgeMonths outside [0, 60] is
// rejected with common.ErrorAgeOutOfRange.
func GenerateCurve(gender model.Gender, measurementType model.MeasurementType, maxAgeMonths int) ([]model.CurvePoint, error) {
	if !gender.Valid() || !measurementType.Valid() {
		return nil, fmt.Errorf("gender %q, type %q: %w", gender, measurementType, common.ErrorInvalidValue)
	}
	if maxAgeMonths < MinAgeMonths || maxAgeMonths > MaxAgeMonths {
		return nil, fmt.Errorf("max age %d months: %w", maxAgeMonths, common.ErrorAgeOutOfRange)
	}
	return slices.Collect(CurvePoints(gender, measurementType, maxAgeMonths)), nil
}

func curvePoint(t model.GrowthReferenceTable, age int) model.CurvePoint {
	l, m, s := Interpolate(t, float64(age))
	var v [len(CurveZScores)]float64
	for i, z := range CurveZScores {
		v[i] = ValueForZScore(l, m, s, z)
	}
	return model.CurvePoint{Age: age, P3: v[0], P15: v[1], P50: v[2], P85: v[3], P97: v[4]}
}
