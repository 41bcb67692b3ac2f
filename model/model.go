package model

import (
	"fmt"
	"strings"
)

type Gender string

const (
	Boy  Gender = "Boy"
	Girl Gender = "Girl"
)

func (g Gender) Valid() bool {
	return g == Boy || g == Girl
}

// ParseGender accepts "boy"/"girl" in any case, and the short forms "b"/"g".
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boy", "b":
		return Boy, nil
	case "girl", "g":
		return Girl, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

type MeasurementType string

const (
	Height MeasurementType = "height" // cm
	Weight MeasurementType = "weight" // kg
)

func (t MeasurementType) Valid() bool {
	return t == Height || t == Weight
}

func (t MeasurementType) Unit() string {
	if t == Weight {
		return "kg"
	}
	return "cm"
}

func ParseMeasurementType(s string) (MeasurementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "height", "h", "length":
		return Height, nil
	case "weight", "w":
		return Weight, nil
	}
	return "", fmt.Errorf("unknown measurement type %q", s)
}

// LMSPoint is one calibration point of a growth reference table.
type LMSPoint struct {
	AgeMonths int     `json:"age_months"`
	Lambda    float64 `json:"l"` // Box-Cox power
	Mu        float64 `json:"m"` // median
	Sigma     float64 `json:"s"` // coefficient of variation
}

// GrowthReferenceTable holds LMS points strictly increasing by age.
type GrowthReferenceTable []LMSPoint

func (t GrowthReferenceTable) MinAge() int {
	if len(t) == 0 {
		return 0
	}
	return t[0].AgeMonths
}

func (t GrowthReferenceTable) MaxAge() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].AgeMonths
}

type CurvePoint struct {
	Age int     `json:"age"`
	P3  float64 `json:"p3"`
	P15 float64 `json:"p15"`
	P50 float64 `json:"p50"`
	P85 float64 `json:"p85"`
	P97 float64 `json:"p97"`
}

func (p CurvePoint) Values() []float64 {
	return []float64{p.P3, p.P15, p.P50, p.P85, p.P97}
}

type Severity int

const (
	SeverityNormal Severity = 0
	SeverityWatch  Severity = 1
	SeverityAlert  Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityWatch:
		return "watch"
	case SeverityAlert:
		return "alert"
	default:
		return "normal"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type ChangePointType int

const (
	IncreaseChangePoint ChangePointType = 1
	DecreaseChangePoint ChangePointType = 2
)

func (t ChangePointType) String() string {
	if t == IncreaseChangePoint {
		return "increase"
	}
	return "decrease"
}

// ChangePoint marks the record at which a child's z-score series shifted.
type ChangePoint struct {
	ChangePointType ChangePointType `json:"type"`
	Index           int             `json:"index"`
	Point           SeriesPoint     `json:"point"`
}

type SeriesPoint struct {
	AgeMonths float64 `json:"age_months"`
	Value     float64 `json:"value"`
}
