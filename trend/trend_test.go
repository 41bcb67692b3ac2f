package trend

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/littlesprout/common"
	"github.com/uyouii/littlesprout/model"
)

func series(values ...float64) []model.SeriesPoint {
	res := make([]model.SeriesPoint, len(values))
	for i, v := range values {
		res[i] = model.SeriesPoint{AgeMonths: float64(i * 2), Value: v}
	}
	return res
}

func TestLogSumExp(t *testing.T) {
	assert.InDelta(t, math.Log(3), LogSumExp([]float64{0, 0, 0}), 1e-12)
	assert.InDelta(t, 1000+math.Log(2), LogSumExp([]float64{1000, 1000}), 1e-9)
	assert.True(t, math.IsInf(LogSumExp([]float64{math.Inf(-1)}), -1))

	normalized := ListExp(NormalizeData([]float64{1, 2, 3}))
	assert.InDelta(t, 1.0, normalized[0]+normalized[1]+normalized[2], 1e-12)

	assert.Equal(t, []float64{3, 8}, ListMul([]float64{1, 2, 5}, []float64{3, 4}))
}

func TestDetectStepUp(t *testing.T) {
	res, err := Detect(context.Background(), series(0, 0.1, -0.05, 0.05, 1.6, 1.7, 1.65, 1.75))
	require.NoError(t, err)
	require.Len(t, res.ChangePoints, 1)

	changePoint := res.ChangePoints[0]
	assert.Equal(t, 4, changePoint.Index)
	assert.Equal(t, model.IncreaseChangePoint, changePoint.ChangePointType)
	assert.Equal(t, 1.6, changePoint.Point.Value)
	assert.Len(t, res.Expected, 8)
	assert.False(t, res.Noisy)
}

func TestDetectStepDown(t *testing.T) {
	res, err := Detect(context.Background(), series(0.2, 0.25, 0.15, 0.2, -1.5, -1.45, -1.55, -1.5))
	require.NoError(t, err)
	require.Len(t, res.ChangePoints, 1)
	assert.Equal(t, 4, res.ChangePoints[0].Index)
	assert.Equal(t, "decrease", res.ChangePoints[0].ChangePointType.String())
}

func TestDetectSteadyChannel(t *testing.T) {
	res, err := Detect(context.Background(), series(0, 0.1, -0.05, 0.05, 0.2, 0.1, -0.1, 0))
	require.NoError(t, err)
	assert.Empty(t, res.ChangePoints)
}

func TestDetectIgnoresSingleOutlier(t *testing.T) {
	res, err := Detect(context.Background(), series(0.5, 0.4, 0.6, 1.4, 0.5, 0.45, 0.5, 0.55))
	require.NoError(t, err)
	assert.Empty(t, res.ChangePoints)
}

func TestDetectEmpty(t *testing.T) {
	_, err := Detect(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestOnlineCheckerPredictions(t *testing.T) {
	checker := NewOnlineChecker(DefaultVariance, 0, DefaultHazard)
	for _, point := range series(0, 0, 0) {
		checker.AppendPoint(point)
	}
	assert.Equal(t, 3, checker.DataSize())
	for _, mean := range checker.GetPredictionMeans() {
		assert.InDelta(t, 0, mean, 1e-12)
	}
	for _, variance := range checker.GetPredictionVariances() {
		assert.Greater(t, variance, DefaultVariance)
	}
	_, ok := checker.LastChangePoint()
	assert.False(t, ok)
}
