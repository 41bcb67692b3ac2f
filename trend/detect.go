package trend

import (
	"context"
	"fmt"

	"github.com/uyouii/littlesprout/common"
	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/utils"
	"go.uber.org/zap"
)

// Result of a change point scan over one measurement.
type Result struct {
	ChangePoints []*model.ChangePoint `json:"change_points"`
	// Expected holds the z-score the model predicted for each point.
	Expected []float64 `json:"expected"`
	// Noisy is set when there are more change points than MaxChangePoints;
	// ChangePoints is then empty.
	Noisy bool `json:"noisy,omitempty"`
}

// Detect scans a z-score series, oldest first, for shifts between growth
// channels. The first point is the prior mean of the first run.
func Detect(ctx context.Context, series []model.SeriesPoint) (res *Result, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Detect recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.Int("points", len(series)))
			res, err = nil, fmt.Errorf("change point scan: %v", r)
		}
	}()

	if len(series) == 0 {
		return nil, fmt.Errorf("empty series: %w", common.ErrorInvalidValue)
	}

	checker := NewOnlineChecker(DefaultVariance, series[0].Value, DefaultHazard)
	for _, point := range series {
		if changePoint, found := checker.AppendPoint(point); found {
			logger.Debug("find new change point", zap.Any("changePoint", changePoint))
		}
	}

	res = &Result{
		ChangePoints: checker.GetChangePoints(),
		Expected:     checker.GetPredictionMeans(),
	}
	if len(res.ChangePoints) > MaxChangePoints {
		logger.Info("too many change points, series is noisy",
			zap.Int("limitCount", MaxChangePoints), zap.Int("changePointCnt", len(res.ChangePoints)))
		res.ChangePoints = []*model.ChangePoint{}
		res.Noisy = true
	}
	return res, nil
}
