package trend

const (
	// DefaultVariance is the measurement noise of one z-score, about 0.3 sd.
	DefaultVariance = 0.09

	// DefaultHazard is the prior probability that any record starts a new
	// growth channel.
	DefaultHazard = 0.1

	// ChangePointThreshold is the run length posterior needed to report a change.
	ChangePointThreshold = 0.6

	// A change must be confirmed by MinRunLength records and is only looked
	// for within the last ObserveWindow records.
	MinRunLength  = 2
	ObserveWindow = 6

	// MaxChangePoints above this count mean the series is too noisy to read.
	MaxChangePoints = 3
)
