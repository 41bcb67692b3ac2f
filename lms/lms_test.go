package lms

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/littlesprout/common"
	"github.com/uyouii/littlesprout/model"
	"gonum.org/v1/gonum/stat/distuv"
)

var allTables = []struct {
	gender          model.Gender
	measurementType model.MeasurementType
}{
	{model.Boy, model.Height},
	{model.Boy, model.Weight},
	{model.Girl, model.Height},
	{model.Girl, model.Weight},
}

func TestLookupShape(t *testing.T) {
	for _, tc := range allTables {
		table := Lookup(tc.gender, tc.measurementType)
		require.Len(t, table, BreakpointCount)
		assert.Equal(t, MinAgeMonths, table.MinAge())
		assert.Equal(t, MaxAgeMonths, table.MaxAge())
		for i, point := range table {
			assert.Equal(t, Breakpoints[i], point.AgeMonths)
			assert.Positive(t, point.Mu)
			assert.Positive(t, point.Sigma)
			if i > 0 {
				assert.Greater(t, point.AgeMonths, table[i-1].AgeMonths)
			}
		}
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	table := Lookup(model.Boy, model.Height)
	table[3].Mu = 1

	l, m, s := Interpolate(Lookup(model.Boy, model.Height), 12)
	assert.Equal(t, 1.0, l)
	assert.Equal(t, 75.7, m)
	assert.Equal(t, 0.035, s)
}

func TestInterpolateAtBreakpoints(t *testing.T) {
	for _, tc := range allTables {
		table := Lookup(tc.gender, tc.measurementType)
		for _, point := range table {
			l, m, s := Interpolate(table, float64(point.AgeMonths))
			assert.Equal(t, point.Lambda, l, "%s %s at %d", tc.gender, tc.measurementType, point.AgeMonths)
			assert.Equal(t, point.Mu, m)
			assert.Equal(t, point.Sigma, s)
		}
	}
}

func TestInterpolateBetweenBreakpoints(t *testing.T) {
	table := Lookup(model.Boy, model.Height)

	l, m, s := Interpolate(table, 1.5)
	assert.Equal(t, 1.0, l)
	assert.InDelta(t, 55.64, m, 1e-9)
	assert.InDelta(t, 0.038, s, 1e-12)

	// a quarter of the way from 12 to 24 months
	l, m, s = Interpolate(Lookup(model.Boy, model.Weight), 15)
	assert.InDelta(t, -0.158+(0.031)*0.25, l, 1e-12)
	assert.InDelta(t, 9.648+(12.15-9.648)*0.25, m, 1e-12)
	assert.InDelta(t, 0.119-0.004*0.25, s, 1e-12)
}

func TestInterpolateClampsAge(t *testing.T) {
	table := Lookup(model.Girl, model.Weight)

	l0, m0, s0 := Interpolate(table, 0)
	l, m, s := Interpolate(table, -5)
	assert.Equal(t, []float64{l0, m0, s0}, []float64{l, m, s})

	l60, m60, s60 := Interpolate(table, 60)
	l, m, s = Interpolate(table, 75.5)
	assert.Equal(t, []float64{l60, m60, s60}, []float64{l, m, s})
}

func TestInterpolateEmptyTable(t *testing.T) {
	l, m, s := Interpolate(nil, 12)
	assert.Zero(t, l)
	assert.Zero(t, m)
	assert.Zero(t, s)
}

func TestZScoreLogBranch(t *testing.T) {
	z := ZScore(0, 10, 0.1, 10*math.Exp(0.1))
	assert.InDelta(t, 1.0, z, 1e-12)

	assert.InDelta(t, 10*math.Exp(-0.2), ValueForZScore(0, 10, 0.1, -2), 1e-12)
}

func TestZScoreRoundTrip(t *testing.T) {
	cases := []struct{ l, m, s float64 }{
		{1, 75.7, 0.035},
		{-0.158, 9.648, 0.119},
		{0.3487, 3.346, 0.146},
		{0, 12, 0.1},
	}
	for _, c := range cases {
		for _, z := range []float64{-2.5, -1, 0, 0.5, 2.5} {
			value := ValueForZScore(c.l, c.m, c.s, z)
			assert.InDelta(t, z, ZScore(c.l, c.m, c.s, value), 1e-9)
		}
	}
}

func TestNormalCDFAgainstExact(t *testing.T) {
	for z := -6.0; z <= 6.0; z += 0.01 {
		assert.InDelta(t, distuv.UnitNormal.CDF(z), NormalCDF(z), 1e-6, "z=%v", z)
	}
	assert.InDelta(t, 0.5, NormalCDF(0), 1e-4)
}

func TestPercentileOf(t *testing.T) {
	tests := []struct {
		name            string
		gender          model.Gender
		ageMonths       float64
		measurementType model.MeasurementType
		value           float64
		want            int
	}{
		{"boy median height at 12 months", model.Boy, 12, model.Height, 75.7, 50},
		{"girl median weight at 24 months", model.Girl, 24, model.Weight, 11.48, 50},
		{"boy newborn median weight", model.Boy, 0, model.Weight, 3.346, 50},
		{"one sd above boy height at 12 months", model.Boy, 12, model.Height, 75.7 * 1.035, 84},
		{"one sd below girl height at 36 months", model.Girl, 36, model.Height, 95.1 * (1 - 0.037), 16},
		{"far below boy height at 12 months", model.Boy, 12, model.Height, 60, 0},
		{"far above girl weight at 6 months", model.Girl, 6, model.Weight, 20, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PercentileOf(tt.gender, tt.ageMonths, tt.measurementType, tt.value)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentileOfAlertRange(t *testing.T) {
	p, ok := PercentileOf(model.Boy, 12, model.Height, 60)
	require.True(t, ok)
	assert.Less(t, p, AlertLowerPercentile)
	assert.Equal(t, model.SeverityAlert, Classify(p))
}

func TestPercentileOfUnavailable(t *testing.T) {
	tests := []struct {
		name      string
		gender    model.Gender
		ageMonths float64
		typ       model.MeasurementType
		value     float64
	}{
		{"zero value", model.Boy, 12, model.Height, 0},
		{"negative value", model.Boy, 12, model.Height, -1},
		{"negative age", model.Girl, -5, model.Weight, 8},
		{"nan age", model.Girl, math.NaN(), model.Weight, 8},
		{"infinite value", model.Boy, 6, model.Weight, math.Inf(1)},
		{"unknown gender", model.Gender("cat"), 6, model.Weight, 8},
		{"unknown type", model.Boy, 6, model.MeasurementType("bmi"), 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := PercentileOf(tt.gender, tt.ageMonths, tt.typ, tt.value)
			assert.False(t, ok)
		})
	}
}

func TestPercentileOfBeyondTableIsClamped(t *testing.T) {
	at60, ok := PercentileOf(model.Boy, 60, model.Height, 112)
	require.True(t, ok)
	at72, ok := PercentileOf(model.Boy, 72, model.Height, 112)
	require.True(t, ok)
	assert.Equal(t, at60, at72)
}

func TestGenerateCurve(t *testing.T) {
	curve, err := GenerateCurve(model.Boy, model.Height, 60)
	require.NoError(t, err)
	require.Len(t, curve, 61)

	for i, point := range curve {
		assert.Equal(t, i, point.Age)
		assert.True(t, slices.IsSorted(point.Values()), "age %d: %v", i, point.Values())
	}

	assert.Equal(t, 75.7, curve[12].P50)
	assert.InDelta(t, 75.7*(1-0.035*1.881), curve[12].P3, 1e-9)
	assert.InDelta(t, 75.7*(1+0.035*1.881), curve[12].P97, 1e-9)
}

func TestGenerateCurveShort(t *testing.T) {
	curve, err := GenerateCurve(model.Girl, model.Weight, 0)
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.Equal(t, 3.232, curve[0].P50)
}

func TestGenerateCurveRejectsOutOfRange(t *testing.T) {
	for _, maxAge := range []int{-1, 61, 120} {
		_, err := GenerateCurve(model.Boy, model.Weight, maxAge)
		assert.ErrorIs(t, err, common.ErrorAgeOutOfRange)
	}

	_, err := GenerateCurve(model.Gender(""), model.Weight, 12)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestCurvePointsRestartable(t *testing.T) {
	seq := CurvePoints(model.Girl, model.Height, 24)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Len(t, first, 25)
	assert.Equal(t, first, second)

	taken := 0
	for range seq {
		taken++
		if taken == 3 {
			break
		}
	}
	assert.Equal(t, 3, taken)
}

func TestCurvePointsFlatTail(t *testing.T) {
	points := slices.Collect(CurvePoints(model.Boy, model.Weight, 70))
	require.Len(t, points, 71)
	for _, point := range points[61:] {
		assert.Equal(t, points[60].Values(), point.Values())
	}
}

func TestCurveRoundTripsToMedian(t *testing.T) {
	for _, tc := range allTables {
		curve, err := GenerateCurve(tc.gender, tc.measurementType, 60)
		require.NoError(t, err)
		for _, point := range curve {
			p, ok := PercentileOf(tc.gender, float64(point.Age), tc.measurementType, point.P50)
			require.True(t, ok)
			assert.InDelta(t, 50, p, 1)

			p, ok = PercentileOf(tc.gender, float64(point.Age), tc.measurementType, point.P3)
			require.True(t, ok)
			assert.InDelta(t, 3, p, 1)

			p, ok = PercentileOf(tc.gender, float64(point.Age), tc.measurementType, point.P97)
			require.True(t, ok)
			assert.InDelta(t, 97, p, 1)
		}
	}
}

func TestZScoreForPercentile(t *testing.T) {
	z, err := ZScoreForPercentile(50)
	require.NoError(t, err)
	assert.InDelta(t, 0, z, 1e-12)

	z, err = ZScoreForPercentile(97)
	require.NoError(t, err)
	assert.InDelta(t, ZScoreP97, z, 1e-3)

	z, err = ZScoreForPercentile(15)
	require.NoError(t, err)
	assert.InDelta(t, ZScoreP15, z, 1e-3)

	for _, p := range []float64{0, 100, -3, math.NaN()} {
		_, err := ZScoreForPercentile(p)
		assert.ErrorIs(t, err, common.ErrorInvalidValue)
	}
}

func TestValueAtPercentile(t *testing.T) {
	v, err := ValueAtPercentile(model.Boy, model.Height, 12, 50)
	require.NoError(t, err)
	assert.InDelta(t, 75.7, v, 1e-9)

	v, err = ValueAtPercentile(model.Girl, model.Weight, 18, 90)
	require.NoError(t, err)
	p, ok := PercentileOf(model.Girl, 18, model.Weight, v)
	require.True(t, ok)
	assert.Equal(t, 90, p)

	_, err = ValueAtPercentile(model.Boy, model.Height, -1, 50)
	assert.ErrorIs(t, err, common.ErrorAgeOutOfRange)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		percentile int
		want       model.Severity
	}{
		{-1, model.SeverityAlert},
		{0, model.SeverityAlert},
		{2, model.SeverityAlert},
		{3, model.SeverityWatch},
		{14, model.SeverityWatch},
		{15, model.SeverityNormal},
		{50, model.SeverityNormal},
		{85, model.SeverityNormal},
		{86, model.SeverityWatch},
		{97, model.SeverityWatch},
		{98, model.SeverityAlert},
		{100, model.SeverityAlert},
		{1000, model.SeverityAlert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.percentile), "percentile %d", tt.percentile)
	}
	assert.Equal(t, "watch", Classify(3).String())
	assert.Equal(t, "42%", Label(42))
}
