package lms

const (
	MinAgeMonths = 0
	MaxAgeMonths = 60

	// BreakpointCount is the number of tabulated ages per reference table.
	BreakpointCount = 8

	// DaysPerMonth is the average month length used to turn a day count into
	// a fractional age in months.
	DaysPerMonth = 30.4375
)

// Z-scores of the 3rd, 15th, 50th, 85th and 97th percentile of the
// standard normal distribution.
const (
	ZScoreP3  = -1.881
	ZScoreP15 = -1.036
	ZScoreP50 = 0
	ZScoreP85 = 1.036
	ZScoreP97 = 1.881
)

// Classification bands, in whole percentiles.
const (
	AlertLowerPercentile = 3
	AlertUpperPercentile = 97
	WatchLowerPercentile = 15
	WatchUpperPercentile = 85
)

var (
	Breakpoints = [BreakpointCount]int{0, 3, 6, 12, 24, 36, 48, 60}

	CurveZScores = [5]float64{ZScoreP3, ZScoreP15, ZScoreP50, ZScoreP85, ZScoreP97}
)

// coefficients of the Abramowitz & Stegun 26.2.17 normal tail approximation
const (
	cdfP  = 0.2316419
	cdfD  = 0.3989423
	cdfB1 = 0.3193815
	cdfB2 = -0.3565638
	cdfB3 = 1.781478
	cdfB4 = -1.821256
	cdfB5 = 1.330274
)
