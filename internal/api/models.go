package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge-api/internal/domain"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=12,max=72"`
	DisplayName string `json:"display_name" validate:"max=100"`
}

// LoginRequest is the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned from successful register and login calls.
type AuthResponse struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
}

// QuizResultRequest is the payload for recording a quiz completion.
type QuizResultRequest struct {
	Category         string `json:"category" validate:"required,max=100"`
	TotalQuestions   int    `json:"total_questions" validate:"required,gte=1"`
	CorrectAnswers   int    `json:"correct_answers" validate:"gte=0,ltefield=TotalQuestions"`
	StudyTimeMinutes int    `json:"study_time_minutes" validate:"gte=0"`
}

// ToDomain maps the request to the domain quiz result.
func (r QuizResultRequest) ToDomain() domain.QuizResult {
	return domain.QuizResult{
		Category:         r.Category,
		TotalQuestions:   r.TotalQuestions,
		CorrectAnswers:   r.CorrectAnswers,
		StudyTimeMinutes: r.StudyTimeMinutes,
	}
}

// CategoryStatsResponse is the per-category slice of a progress response.
type CategoryStatsResponse struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// ProgressResponse is the client view of a progress snapshot, with the
// display fields (grade, streak tier, formatted study time) derived
// server-side so clients do not reimplement the thresholds.
type ProgressResponse struct {
	Level              int                              `json:"level"`
	Experience         int                              `json:"experience"`
	ExperienceToNext   int                              `json:"experience_to_next_level"`
	TotalQuestions     int                              `json:"total_questions"`
	CorrectAnswers     int                              `json:"correct_answers"`
	Accuracy           float64                          `json:"accuracy"`
	Grade              string                           `json:"grade"`
	StudyTimeMinutes   int                              `json:"study_time_minutes"`
	StudyTimeFormatted string                           `json:"study_time_formatted"`
	CurrentStreak      int                              `json:"current_streak"`
	StreakTier         string                           `json:"streak_tier"`
	LastStudyDate      *time.Time                       `json:"last_study_date,omitempty"`
	CategoryStats      map[string]CategoryStatsResponse `json:"category_stats"`
	UpdatedAt          time.Time                        `json:"updated_at"`
}

// NewProgressResponse builds the response DTO from a progress snapshot.
func NewProgressResponse(p domain.UserProgress) ProgressResponse {
	categories := make(map[string]CategoryStatsResponse)
	for name, record := range p.CategoryStats.AllCategories() {
		categories[name] = CategoryStatsResponse{
			Correct:  record.Correct,
			Total:    record.Total,
			Accuracy: domain.AccuracyFromQuizResults(record.Correct, record.Total).Float(),
		}
	}

	// At the level cap there is no next level to work toward.
	toNext := 0
	if required := p.Level.ExperienceRequired(); required > p.Experience.Int() {
		toNext = required - p.Experience.Int()
	}

	return ProgressResponse{
		Level:              p.Level.Int(),
		Experience:         p.Experience.Int(),
		ExperienceToNext:   toNext,
		TotalQuestions:     p.TotalQuestions,
		CorrectAnswers:     p.CorrectAnswers,
		Accuracy:           p.Accuracy.Float(),
		Grade:              p.Accuracy.Grade(),
		StudyTimeMinutes:   p.StudyTime.Minutes(),
		StudyTimeFormatted: p.StudyTime.FormatDuration(),
		CurrentStreak:      p.CurrentStreak.Days(),
		StreakTier:         string(p.CurrentStreak.Tier()),
		LastStudyDate:      p.LastStudyDate,
		CategoryStats:      categories,
		UpdatedAt:          p.UpdatedAt,
	}
}

// UserResponse is the client view of a user account.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse builds the response DTO from a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
