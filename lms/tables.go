package lms

import (
	"slices"

	"github.com/uyouii/littlesprout/model"
)

// The reference tables are a reduced subset of the WHO Child Growth Standards:
// LMS parameters at 8 representative ages between birth and 60 months. The
// published standard is tabulated per month (per week for the first months),
// so these values are an approximation to be validated against the full WHO
// dataset before any clinical use.

type referenceTable = [BreakpointCount]model.LMSPoint

// Boys length/height, cm.
var boysHeightLMS = referenceTable{
	{AgeMonths: 0, Lambda: 1, Mu: 49.88, Sigma: 0.038},
	{AgeMonths: 3, Lambda: 1, Mu: 61.4, Sigma: 0.038},
	{AgeMonths: 6, Lambda: 1, Mu: 67.6, Sigma: 0.036},
	{AgeMonths: 12, Lambda: 1, Mu: 75.7, Sigma: 0.035},
	{AgeMonths: 24, Lambda: 1, Mu: 87.8, Sigma: 0.035},
	{AgeMonths: 36, Lambda: 1, Mu: 96.1, Sigma: 0.036},
	{AgeMonths: 48, Lambda: 1, Mu: 103.3, Sigma: 0.038},
	{AgeMonths: 60, Lambda: 1, Mu: 110.0, Sigma: 0.040},
}

// Boys weight, kg.
var boysWeightLMS = referenceTable{
	{AgeMonths: 0, Lambda: 0.3487, Mu: 3.346, Sigma: 0.146},
	{AgeMonths: 3, Lambda: 0.1748, Mu: 6.421, Sigma: 0.134},
	{AgeMonths: 6, Lambda: 0.0543, Mu: 7.936, Sigma: 0.126},
	{AgeMonths: 12, Lambda: -0.158, Mu: 9.648, Sigma: 0.119},
	{AgeMonths: 24, Lambda: -0.127, Mu: 12.15, Sigma: 0.115},
	{AgeMonths: 36, Lambda: -0.127, Mu: 14.34, Sigma: 0.117},
	{AgeMonths: 48, Lambda: -0.127, Mu: 16.33, Sigma: 0.120},
	{AgeMonths: 60, Lambda: -0.127, Mu: 18.31, Sigma: 0.124},
}

// Girls length/height, cm.
var girlsHeightLMS = referenceTable{
	{AgeMonths: 0, Lambda: 1, Mu: 49.1, Sigma: 0.038},
	{AgeMonths: 3, Lambda: 1, Mu: 59.8, Sigma: 0.039},
	{AgeMonths: 6, Lambda: 1, Mu: 65.7, Sigma: 0.038},
	{AgeMonths: 12, Lambda: 1, Mu: 74.0, Sigma: 0.036},
	{AgeMonths: 24, Lambda: 1, Mu: 86.4, Sigma: 0.036},
	{AgeMonths: 36, Lambda: 1, Mu: 95.1, Sigma: 0.037},
	{AgeMonths: 48, Lambda: 1, Mu: 102.7, Sigma: 0.039},
	{AgeMonths: 60, Lambda: 1, Mu: 109.4, Sigma: 0.041},
}

// Girls weight, kg.
var girlsWeightLMS = referenceTable{
	{AgeMonths: 0, Lambda: 0.3809, Mu: 3.232, Sigma: 0.141},
	{AgeMonths: 3, Lambda: 0.2307, Mu: 5.842, Sigma: 0.132},
	{AgeMonths: 6, Lambda: 0.1068, Mu: 7.297, Sigma: 0.125},
	{AgeMonths: 12, Lambda: -0.105, Mu: 8.948, Sigma: 0.118},
	{AgeMonths: 24, Lambda: -0.063, Mu: 11.48, Sigma: 0.118},
	{AgeMonths: 36, Lambda: -0.063, Mu: 13.93, Sigma: 0.123},
	{AgeMonths: 48, Lambda: -0.063, Mu: 16.12, Sigma: 0.129},
	{AgeMonths: 60, Lambda: -0.063, Mu: 18.23, Sigma: 0.136},
}

func table(gender model.Gender, measurementType model.MeasurementType) *referenceTable {
	if gender == model.Boy {
		if measurementType == model.Height {
			return &boysHeightLMS
		}
		return &boysWeightLMS
	}
	if measurementType == model.Height {
		return &girlsHeightLMS
	}
	return &girlsWeightLMS
}

// Lookup returns a copy of the reference table for a gender and measurement.
// Any gender other than Boy reads the girls' tables and any type other than
// Height reads the weight tables; callers validate enums beforehand.
func Lookup(gender model.Gender, measurementType model.MeasurementType) model.GrowthReferenceTable {
	return slices.Clone(table(gender, measurementType)[:])
}
