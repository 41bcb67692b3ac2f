package journal

import (
	"math"

	"github.com/uyouii/littlesprout/lms"
	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/utils"
)

// MinChartAgeMonths is the shortest span a growth chart shows.
const MinChartAgeMonths = 12

// AgeInMonths is the fractional age on a given day, using the average month
// of 30.4375 days. Dates before birth give 0.
func AgeInMonths(birth, at model.Date) float64 {
	days := utils.DaysBetween(birth.Time, at.Time)
	return math.Max(0, float64(days)/lms.DaysPerMonth)
}

// ChartMaxAge is the last month a chart should draw: two months past the
// oldest record, at least a year, at most the 60 month table domain.
func ChartMaxAge(oldestAgeMonths float64) int {
	target := int(math.Ceil(oldestAgeMonths + 2))
	return min(lms.MaxAgeMonths, max(MinChartAgeMonths, target))
}
