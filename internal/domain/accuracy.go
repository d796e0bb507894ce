package domain

import (
	"errors"
	"math"
	"strconv"
)

// Accuracy-specific validation errors.
var (
	ErrAccuracyBelowZero    = errors.New("accuracy cannot be below 0")
	ErrAccuracyAboveHundred = errors.New("accuracy cannot exceed 100")
)

// Accuracy is a percentage of correct answers in [0, 100], stored rounded
// to two decimal places.
type Accuracy float64

// NewAccuracy creates an Accuracy, rejecting values outside [0, 100].
// The stored value is rounded to two decimal places.
func NewAccuracy(value float64) (Accuracy, error) {
	if value < 0 {
		return 0, ErrAccuracyBelowZero
	}
	if value > 100 {
		return 0, ErrAccuracyAboveHundred
	}
	return Accuracy(roundToTwoDecimals(value)), nil
}

// AccuracyFromQuizResults derives accuracy from correct/total counts.
// A zero total yields 0% rather than an error, so this conversion never
// fails for non-negative inputs with correct <= total.
func AccuracyFromQuizResults(correct, total int) Accuracy {
	if total == 0 {
		return 0
	}
	pct := float64(correct) / float64(total) * 100
	return Accuracy(roundToTwoDecimals(pct))
}

// RecalculateAccuracy combines running totals with a new quiz's counts and
// derives the accuracy of the merged totals.
func RecalculateAccuracy(curCorrect, curTotal, newCorrect, newTotal int) Accuracy {
	return AccuracyFromQuizResults(curCorrect+newCorrect, curTotal+newTotal)
}

// Float returns the underlying percentage value.
func (a Accuracy) Float() float64 {
	return float64(a)
}

// String formats the accuracy as a two-decimal string, the representation
// used for the persisted NUMERIC column.
func (a Accuracy) String() string {
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

// Grade maps the accuracy to a letter grade: >=90 A, >=80 B, >=70 C,
// >=60 D, else F.
func (a Accuracy) Grade() string {
	switch {
	case a >= 90:
		return "A"
	case a >= 80:
		return "B"
	case a >= 70:
		return "C"
	case a >= 60:
		return "D"
	default:
		return "F"
	}
}

func roundToTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
