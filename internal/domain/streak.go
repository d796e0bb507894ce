package domain

import "errors"

// StreakTier is a qualitative label for a day-streak length.
type StreakTier string

// Streak tiers by consecutive-day thresholds.
const (
	StreakTierNone      StreakTier = "none"
	StreakTierBeginner  StreakTier = "beginner"
	StreakTierRegular   StreakTier = "regular"
	StreakTierDedicated StreakTier = "dedicated"
	StreakTierChampion  StreakTier = "champion"
	StreakTierLegend    StreakTier = "legend"
)

// ErrNegativeStreak is returned when a streak is created with a negative
// day count.
var ErrNegativeStreak = errors.New("streak days cannot be negative")

// Streak counts consecutive calendar days with at least one recorded quiz
// completion.
type Streak int

// NewStreak creates a Streak, rejecting negative day counts.
func NewStreak(days int) (Streak, error) {
	if days < 0 {
		return 0, ErrNegativeStreak
	}
	return Streak(days), nil
}

// Days returns the underlying day count.
func (s Streak) Days() int {
	return int(s)
}

// Increment returns the streak extended by one day. Never fails.
func (s Streak) Increment() Streak {
	return s + 1
}

// IsActive reports whether the streak has at least one day.
func (s Streak) IsActive() bool {
	return s > 0
}

// Tier returns the qualitative tier for the streak length: 0 none,
// under 7 beginner, under 21 regular, under 50 dedicated, under 100
// champion, 100 and up legend.
func (s Streak) Tier() StreakTier {
	switch {
	case s == 0:
		return StreakTierNone
	case s < 7:
		return StreakTierBeginner
	case s < 21:
		return StreakTierRegular
	case s < 50:
		return StreakTierDedicated
	case s < 100:
		return StreakTierChampion
	default:
		return StreakTierLegend
	}
}
