package domain

import "errors"

// Experience boundaries and the fixed per-answer point scheme.
const (
	MinExperience = 0
	MaxExperience = 1_000_000

	// Base point awards used by the difficulty-aware scorer. A wrong answer
	// still earns a small consolation award.
	correctAnswerPoints   = 10
	incorrectAnswerPoints = 2
)

// Experience-specific validation errors.
var (
	ErrNegativeExperience = errors.New("experience cannot be negative")
	ErrExperienceOverCap  = errors.New("experience cannot exceed the cap")
	ErrNegativePoints     = errors.New("points to add cannot be negative")
)

// Experience is a bounded non-negative point total. The cap absorbs
// overflow silently: adding past MaxExperience clamps instead of failing.
type Experience int

// NewExperience creates an Experience, rejecting values outside
// [MinExperience, MaxExperience].
func NewExperience(value int) (Experience, error) {
	if value < MinExperience {
		return 0, ErrNegativeExperience
	}
	if value > MaxExperience {
		return 0, ErrExperienceOverCap
	}
	return Experience(value), nil
}

// Int returns the underlying integer value.
func (e Experience) Int() int {
	return int(e)
}

// Add returns a new Experience with the given points added. Negative points
// are rejected; sums beyond the cap are clamped to MaxExperience rather
// than failing.
func (e Experience) Add(points int) (Experience, error) {
	if points < 0 {
		return 0, ErrNegativePoints
	}
	total := int(e) + points
	if total > MaxExperience {
		total = MaxExperience
	}
	return NewExperience(total)
}

// CalculatePoints is the general-purpose, difficulty-aware scorer: the base
// award (10 for a correct answer, 2 for an incorrect one) is multiplied by
// the difficulty when it is 1, 2 or 3; any other difficulty falls back to a
// multiplier of 1.
//
// The quiz-completion transition in UserProgress.AddQuizResult intentionally
// does not use this scorer: it applies the fixed 10/2 scheme with a
// perfect-score bonus and no difficulty factor. CalculatePoints is kept as
// an explicit extension point for difficulty-weighted quiz modes.
func CalculatePoints(isCorrect bool, difficulty int) int {
	base := incorrectAnswerPoints
	if isCorrect {
		base = correctAnswerPoints
	}
	multiplier := 1
	if difficulty >= 1 && difficulty <= 3 {
		multiplier = difficulty
	}
	return base * multiplier
}
