package domain

import (
	"errors"
	"fmt"
)

// StudyTime-specific validation errors.
var (
	ErrNegativeStudyTime = errors.New("study time cannot be negative")
	ErrNegativeMinutes   = errors.New("minutes to add cannot be negative")
)

// StudyTime is a non-negative counter of minutes spent studying.
type StudyTime int

// NewStudyTime creates a StudyTime, rejecting negative minute counts.
func NewStudyTime(minutes int) (StudyTime, error) {
	if minutes < 0 {
		return 0, ErrNegativeStudyTime
	}
	return StudyTime(minutes), nil
}

// Minutes returns the underlying minute count.
func (s StudyTime) Minutes() int {
	return int(s)
}

// AddMinutes returns a new StudyTime with the delta added. Negative deltas
// are rejected.
func (s StudyTime) AddMinutes(delta int) (StudyTime, error) {
	if delta < 0 {
		return 0, ErrNegativeMinutes
	}
	return NewStudyTime(int(s) + delta)
}

// Hours returns the study time in fractional hours.
func (s StudyTime) Hours() float64 {
	return float64(s) / 60.0
}

// FormatDuration renders the study time for display: "0m", "45m", "1h 5m",
// "2h 0m".
func (s StudyTime) FormatDuration() string {
	hours := int(s) / 60
	minutes := int(s) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
