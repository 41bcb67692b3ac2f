package lms

import (
	"fmt"

	"github.com/uyouii/littlesprout/model"
)

// Classify buckets a percentile: below 3 or above 97 is an alert, below 15 or
// above 85 needs watching, the rest is normal.
func Classify(percentile int) model.Severity {
	switch {
	case percentile < AlertLowerPercentile || percentile > AlertUpperPercentile:
		return model.SeverityAlert
	case percentile < WatchLowerPercentile || percentile > WatchUpperPercentile:
		return model.SeverityWatch
	default:
		return model.SeverityNormal
	}
}

// Label is the badge text shown next to a record.
func Label(percentile int) string {
	return fmt.Sprintf("%d%%", percentile)
}
