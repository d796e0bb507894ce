package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors.
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the QuizForge application. It owns
// exactly one UserProgress snapshot; identity concerns (authentication,
// roles) live outside the progress core.
type User struct {
	ID             uuid.UUID    `json:"id"`
	Email          string       `json:"email"`
	Password       string       `json:"-"` // Plaintext, held only during registration; never stored
	HashedPassword string       `json:"-"`
	DisplayName    string       `json:"display_name"`
	Progress       UserProgress `json:"progress"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewUser creates a new User with zeroed progress. The caller is
// responsible for hashing the password before storing the user.
func NewUser(email, password, displayName string, clock Clock) (*User, error) {
	now := clock.Now()
	user := &User{
		ID:          uuid.New(),
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		Progress:    NewUserProgress(clock),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users restored from storage carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// CompleteQuiz applies a quiz completion to the user's progress and returns
// a user carrying the updated snapshot. The receiver is not modified.
func (u *User) CompleteQuiz(result QuizResult, clock Clock) (*User, error) {
	progress, err := u.Progress.AddQuizResult(result, clock)
	if err != nil {
		return nil, err
	}

	updated := *u
	updated.Progress = progress
	updated.UpdatedAt = progress.UpdatedAt
	return &updated, nil
}

// validEmailFormat performs a minimal structural check: a single non-edge
// "@" with a dotted domain. Full RFC 5322 validation is left to the request
// schema layer.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
