package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/service/auth"
	"github.com/quizforge/quizforge-api/internal/store"
)

// UserServiceError is the error type for failures in user operations that
// are not covered by a sentinel error.
type UserServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for UserServiceError.
func (e *UserServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("user service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *UserServiceError) Unwrap() error {
	return e.Err
}

// newUserServiceError creates a new UserServiceError.
func newUserServiceError(operation, message string, err error) *UserServiceError {
	return &UserServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// UserService provides registration, authentication and user lookups.
type UserService interface {
	// Register creates a new user with a hashed password and an all-zero
	// progress snapshot, atomically.
	// Returns ErrEmailTaken if the email is already registered.
	// Returns domain validation errors if email or password are invalid.
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)

	// Authenticate verifies the email/password pair and returns the user.
	// Returns ErrInvalidCredentials when either is wrong; the caller cannot
	// tell an unknown email from a bad password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	// Returns store.ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore     store.UserStore
	progressStore store.ProgressStore
	hasher        auth.PasswordHasher
	verifier      auth.PasswordVerifier
	clock         domain.Clock
	db            *sql.DB
	logger        *slog.Logger
}

// NewUserService creates a new UserService.
// All dependencies are required; a nil dependency is a programming error.
func NewUserService(
	userStore store.UserStore,
	progressStore store.ProgressStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	clock domain.Clock,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	if userStore == nil || progressStore == nil || hasher == nil || verifier == nil ||
		clock == nil || db == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependencies
		panic("NewUserService: all dependencies are required")
	}

	return &UserServiceImpl{
		userStore:     userStore,
		progressStore: progressStore,
		hasher:        hasher,
		verifier:      verifier,
		clock:         clock,
		db:            db,
		logger:        logger.With("component", "user_service"),
	}
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// Register creates a new user with the specified email and password.
// The user row and the initial progress snapshot are written in one
// transaction so a registered user always has a progress row.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	email, password, displayName string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password, displayName, s.clock)
	if err != nil {
		s.logger.Debug("user validation failed during registration",
			"error", err)
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err)
		return nil, newUserServiceError("register", "failed to hash password", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)
		if err := txUsers.Create(ctx, user); err != nil {
			return err
		}

		txProgress := s.progressStore.WithTx(tx)
		return txProgress.Create(ctx, user.ID, user.Progress)
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register with existing email")
			return nil, ErrEmailTaken
		}
		s.logger.Error("failed to save user to database",
			"error", err)
		return nil, newUserServiceError("register", "failed to save user", err)
	}

	s.logger.Info("user registered successfully",
		"user_id", user.ID)

	return user, nil
}

// Authenticate verifies an email/password pair.
func (s *UserServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("authentication failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to retrieve user for authentication",
			"error", err)
		return nil, newUserServiceError("authenticate", "failed to retrieve user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("authentication failed: password mismatch",
			"user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	s.logger.Debug("user authenticated successfully",
		"user_id", user.ID)

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found",
				"user_id", userID)
			return nil, err
		}
		s.logger.Error("failed to retrieve user",
			"error", err,
			"user_id", userID)
		return nil, newUserServiceError("get_user", "failed to retrieve user", err)
	}

	return user, nil
}
