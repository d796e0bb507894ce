package api_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/service/auth"
)

// MockUserService is a testify mock for service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(
	ctx context.Context, email, password, displayName string,
) (*domain.User, error) {
	args := m.Called(ctx, email, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Authenticate(
	ctx context.Context, email, password string,
) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProgressService is a testify mock for service.ProgressService.
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetProgress(
	ctx context.Context, userID uuid.UUID,
) (domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserProgress), args.Error(1)
}

func (m *MockProgressService) RecordQuizCompletion(
	ctx context.Context, userID uuid.UUID, result domain.QuizResult,
) (domain.UserProgress, error) {
	args := m.Called(ctx, userID, result)
	return args.Get(0).(domain.UserProgress), args.Error(1)
}

// MockJWTService is a testify mock for auth.JWTService.
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// testLogger returns a quiet logger for handler tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// testClock returns a fixed clock for deterministic timestamps.
func testClock() domain.Clock {
	return domain.FixedClock{Instant: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}
