package domain

import "errors"

// Level boundaries and progression constants.
const (
	MinLevel = 1
	MaxLevel = 100

	// ExperiencePerLevel is the XP span of a single level. Level N covers
	// total XP [(N-1)*100, N*100).
	ExperiencePerLevel = 100
)

// Level-specific validation errors.
var (
	ErrLevelTooLow  = errors.New("level must be at least 1")
	ErrLevelTooHigh = errors.New("level cannot exceed 100")
)

// Level represents a user's progression tier derived from accumulated
// experience. Valid values are 1 through 100.
type Level int

// NewLevel creates a Level, rejecting values outside [MinLevel, MaxLevel].
func NewLevel(value int) (Level, error) {
	if value < MinLevel {
		return 0, ErrLevelTooLow
	}
	if value > MaxLevel {
		return 0, ErrLevelTooHigh
	}
	return Level(value), nil
}

// LevelFromExperience maps accumulated experience to a level:
// level = min(xp/100 + 1, 100). Out-of-range experience is clamped,
// never rejected, so this conversion cannot fail.
func LevelFromExperience(xp Experience) Level {
	level := int(xp)/ExperiencePerLevel + 1
	if level > MaxLevel {
		level = MaxLevel
	}
	if level < MinLevel {
		level = MinLevel
	}
	return Level(level)
}

// Int returns the underlying integer value.
func (l Level) Int() int {
	return int(l)
}

// ExperienceRequired returns the total XP needed to reach the next level.
// At the level cap there is no next level and the result is 0.
func (l Level) ExperienceRequired() int {
	if l >= MaxLevel {
		return 0
	}
	return int(l) * ExperiencePerLevel
}

// ExperienceForLevel returns the total XP needed to reach this level.
func (l Level) ExperienceForLevel() int {
	return (int(l) - 1) * ExperiencePerLevel
}
