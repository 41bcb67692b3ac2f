package journal

import (
	"github.com/uyouii/littlesprout/lms"
	"github.com/uyouii/littlesprout/model"
)

// Reading is one measurement of a record ranked against the reference
// population. Percentile is nil when it is unavailable.
type Reading struct {
	Value      float64         `json:"value"`
	ZScore     *float64        `json:"z_score,omitempty"`
	Percentile *int            `json:"percentile,omitempty"`
	Severity   *model.Severity `json:"severity,omitempty"`
	Label      string          `json:"label,omitempty"`
}

func (r Reading) Available() bool {
	return r.Percentile != nil
}

type AnnotatedRecord struct {
	model.GrowthRecord
	AgeMonths float64 `json:"age_months"`
	Height    Reading `json:"height_reading"`
	Weight    Reading `json:"weight_reading"`
}

// Annotate ranks both measurements of a record for the profile's child.
func Annotate(profile *model.ChildProfile, record model.GrowthRecord) AnnotatedRecord {
	ageMonths := AgeInMonths(profile.BirthDate, record.Date)
	return AnnotatedRecord{
		GrowthRecord: record,
		AgeMonths:    ageMonths,
		Height:       newReading(profile.Gender, ageMonths, model.Height, record.Height),
		Weight:       newReading(profile.Gender, ageMonths, model.Weight, record.Weight),
	}
}

func newReading(gender model.Gender, ageMonths float64, measurementType model.MeasurementType,
	value float64) Reading {
	reading := Reading{Value: value}

	z, ok := lms.ZScoreOf(gender, ageMonths, measurementType, value)
	if !ok {
		return reading
	}
	percentile, _ := lms.PercentileOf(gender, ageMonths, measurementType, value)

	reading.ZScore = &z
	reading.Percentile = &percentile
	severity := lms.Classify(percentile)

	reading.Severity = &severity
	reading.Label = lms.Label(percentile)
	return reading
}
