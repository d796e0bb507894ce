package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Aggregate-level validation errors.
var (
	ErrNegativeQuestionCount = errors.New("question counts cannot be negative")
	ErrCorrectExceedsTotal   = errors.New("correct answers cannot exceed total questions")
)

// QuizResult is the completion event fed into the progress aggregate: how
// many questions were answered, how many correctly, which category the quiz
// belonged to, and how long the attempt took.
type QuizResult struct {
	CorrectAnswers   int
	TotalQuestions   int
	Category         string
	StudyTimeMinutes int
}

// Validate checks the quiz result's own invariants.
func (r QuizResult) Validate() error {
	if r.CorrectAnswers < 0 || r.TotalQuestions < 0 {
		return ErrNegativeQuestionCount
	}
	if r.CorrectAnswers > r.TotalQuestions {
		return ErrCorrectExceedsTotal
	}
	if r.StudyTimeMinutes < 0 {
		return ErrNegativeStudyTime
	}
	return nil
}

// UserProgress is the consistency boundary for a user's learning progress:
// level, experience, running answer totals, accuracy, study time, day
// streak and per-category statistics. It is an immutable value; every
// transition returns a new snapshot and the caller is responsible for
// persisting it. Concurrent completions against the same persisted snapshot
// must be serialized by the repository layer.
type UserProgress struct {
	Level          Level
	Experience     Experience
	TotalQuestions int
	CorrectAnswers int
	Accuracy       Accuracy
	StudyTime      StudyTime
	CurrentStreak  Streak
	LastStudyDate  *time.Time
	CategoryStats  CategoryStats
	UpdatedAt      time.Time
}

// NewUserProgress creates the all-zero progress assigned at registration
// time: level 1, no experience, no recorded study date.
func NewUserProgress(clock Clock) UserProgress {
	return UserProgress{
		Level:         MinLevel,
		Experience:    MinExperience,
		Accuracy:      0,
		StudyTime:     0,
		CurrentStreak: 0,
		LastStudyDate: nil,
		CategoryStats: NewEmptyCategoryStats(),
		UpdatedAt:     clock.Now(),
	}
}

// Validate checks the aggregate's cross-field invariants. The value objects
// carry their own bounds; only the answer totals are checked here.
func (p UserProgress) Validate() error {
	if p.TotalQuestions < 0 || p.CorrectAnswers < 0 {
		return ErrNegativeQuestionCount
	}
	if p.CorrectAnswers > p.TotalQuestions {
		return ErrCorrectExceedsTotal
	}
	return nil
}

// quizExperienceGain computes the XP awarded for one quiz completion using
// the fixed scheme: 10 points per correct answer, 2 per incorrect one, and
// a perfect-score bonus of half the question count (floored) when every
// answer was correct.
func quizExperienceGain(correct, total int) int {
	gain := correct*correctAnswerPoints + (total-correct)*incorrectAnswerPoints
	if total > 0 && correct == total {
		gain += total / 2
	}
	return gain
}

// AddQuizResult applies a quiz completion and returns the updated snapshot:
//
//  1. Experience grows by the fixed per-answer awards plus the
//     perfect-score bonus; the XP cap absorbs any overflow.
//  2. The answer totals accumulate and accuracy is re-derived from them.
//  3. Study time grows by the attempt's minutes.
//  4. The quiz's counts are added to its category's running record.
//  5. The level is recomputed from the new experience, and finally the
//     streak state machine runs against the previous LastStudyDate.
//
// The receiver is left untouched; on error the returned progress is the
// zero value and must not be persisted.
func (p UserProgress) AddQuizResult(result QuizResult, clock Clock) (UserProgress, error) {
	if err := result.Validate(); err != nil {
		return UserProgress{}, fmt.Errorf("invalid quiz result: %w", err)
	}

	experience, err := p.Experience.Add(quizExperienceGain(result.CorrectAnswers, result.TotalQuestions))
	if err != nil {
		return UserProgress{}, fmt.Errorf("add quiz experience: %w", err)
	}

	studyTime, err := p.StudyTime.AddMinutes(result.StudyTimeMinutes)
	if err != nil {
		return UserProgress{}, fmt.Errorf("add quiz study time: %w", err)
	}

	record, _ := p.CategoryStats.Category(result.Category)
	categoryStats, err := p.CategoryStats.UpdateCategory(
		result.Category,
		record.Correct+result.CorrectAnswers,
		record.Total+result.TotalQuestions,
	)
	if err != nil {
		return UserProgress{}, fmt.Errorf("update category stats: %w", err)
	}

	// Intermediate snapshot: the old LastStudyDate is preserved here because
	// the streak transition below needs it.
	next := UserProgress{
		Level:          p.Level,
		Experience:     experience,
		TotalQuestions: p.TotalQuestions + result.TotalQuestions,
		CorrectAnswers: p.CorrectAnswers + result.CorrectAnswers,
		Accuracy: RecalculateAccuracy(
			p.CorrectAnswers, p.TotalQuestions,
			result.CorrectAnswers, result.TotalQuestions,
		),
		StudyTime:     studyTime,
		CurrentStreak: p.CurrentStreak,
		LastStudyDate: p.LastStudyDate,
		CategoryStats: categoryStats,
		UpdatedAt:     p.UpdatedAt,
	}

	next = next.CalculateLevel()
	next = next.UpdateStreak(clock)

	if err := next.Validate(); err != nil {
		return UserProgress{}, fmt.Errorf("quiz completion produced invalid progress: %w", err)
	}

	return next, nil
}

// CalculateLevel returns a snapshot with the level re-derived from the
// current experience. Calling it repeatedly with unchanged experience is a
// no-op after the first call.
func (p UserProgress) CalculateLevel() UserProgress {
	next := p
	next.Level = LevelFromExperience(p.Experience)
	return next
}

// UpdateStreak runs the day-streak state machine, keyed on LastStudyDate:
//
//   - no previous study date: the streak starts at 1
//   - same calendar day: the streak is unchanged, forced to 1 if inactive
//   - exactly one day later: the streak increments
//   - a gap of more than one day: the streak resets to 1
//
// The day difference zeroes the time-of-day of both instants and takes the
// absolute day count, so a clock that moved backward is treated like one
// that moved forward by the same margin. LastStudyDate and UpdatedAt are
// both set to the clock's current instant.
func (p UserProgress) UpdateStreak(clock Clock) UserProgress {
	now := clock.Now()
	next := p

	if p.LastStudyDate == nil {
		next.CurrentStreak = 1
	} else {
		switch daysBetween(*p.LastStudyDate, now) {
		case 0:
			if !p.CurrentStreak.IsActive() {
				next.CurrentStreak = 1
			}
		case 1:
			next.CurrentStreak = p.CurrentStreak.Increment()
		default:
			next.CurrentStreak = 1
		}
	}

	studiedAt := now
	next.LastStudyDate = &studiedAt
	next.UpdatedAt = now
	return next
}

// daysBetween returns the absolute number of calendar days between two
// instants, comparing their local midnights.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())

	days := int(bDay.Sub(aDay).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// UserProgressRow is the persistence shape of a progress snapshot. Accuracy
// travels as a two-decimal string for the NUMERIC column and the category
// stats as a JSON object for a JSONB column.
type UserProgressRow struct {
	Level            int
	Experience       int
	TotalQuestions   int
	CorrectAnswers   int
	Accuracy         string
	StudyTimeMinutes int
	CurrentStreak    int
	LastStudyDate    *time.Time
	CategoryStats    json.RawMessage
	UpdatedAt        time.Time
}

// UserProgressFromPersistence rebuilds the aggregate from a stored row,
// re-validating every value object. Any violation indicates storage
// corruption and produces an error; the caller must treat it as fatal for
// the row rather than persisting a partial restore.
func UserProgressFromPersistence(row UserProgressRow) (UserProgress, error) {
	level, err := NewLevel(row.Level)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore level: %w", err)
	}

	experience, err := NewExperience(row.Experience)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore experience: %w", err)
	}

	accuracyValue, err := strconv.ParseFloat(row.Accuracy, 64)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore accuracy: %q is not a decimal: %w", row.Accuracy, ErrInvalidFormat)
	}
	accuracy, err := NewAccuracy(accuracyValue)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore accuracy: %w", err)
	}

	studyTime, err := NewStudyTime(row.StudyTimeMinutes)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore study time: %w", err)
	}

	streak, err := NewStreak(row.CurrentStreak)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore streak: %w", err)
	}

	categoryStats, err := ParseCategoryStats(row.CategoryStats)
	if err != nil {
		return UserProgress{}, fmt.Errorf("restore category stats: %w", err)
	}

	progress := UserProgress{
		Level:          level,
		Experience:     experience,
		TotalQuestions: row.TotalQuestions,
		CorrectAnswers: row.CorrectAnswers,
		Accuracy:       accuracy,
		StudyTime:      studyTime,
		CurrentStreak:  streak,
		LastStudyDate:  copyTimePtr(row.LastStudyDate),
		CategoryStats:  categoryStats,
		UpdatedAt:      row.UpdatedAt,
	}

	if err := progress.Validate(); err != nil {
		return UserProgress{}, fmt.Errorf("restore user progress: %w", err)
	}

	return progress, nil
}

// ToPersistence maps the aggregate to its storage row.
func (p UserProgress) ToPersistence() (UserProgressRow, error) {
	payload, err := p.CategoryStats.MarshalPayload()
	if err != nil {
		return UserProgressRow{}, fmt.Errorf("marshal category stats: %w", err)
	}

	return UserProgressRow{
		Level:            p.Level.Int(),
		Experience:       p.Experience.Int(),
		TotalQuestions:   p.TotalQuestions,
		CorrectAnswers:   p.CorrectAnswers,
		Accuracy:         p.Accuracy.String(),
		StudyTimeMinutes: p.StudyTime.Minutes(),
		CurrentStreak:    p.CurrentStreak.Days(),
		LastStudyDate:    copyTimePtr(p.LastStudyDate),
		CategoryStats:    payload,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}
