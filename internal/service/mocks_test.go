package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/store"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	// The mock itself stands in for the transactional store.
	return m
}

// MockProgressStore mocks the store.ProgressStore interface
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Create(
	ctx context.Context,
	userID uuid.UUID,
	progress domain.UserProgress,
) error {
	args := m.Called(ctx, userID, progress)
	return args.Error(0)
}

func (m *MockProgressStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserProgress), args.Error(1)
}

func (m *MockProgressStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (domain.UserProgress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.UserProgress), args.Error(1)
}

func (m *MockProgressStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	progress domain.UserProgress,
) error {
	args := m.Called(ctx, userID, progress)
	return args.Error(0)
}

func (m *MockProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return m
}

// stubHasher is a deterministic PasswordHasher for tests.
type stubHasher struct {
	err error
}

func (h *stubHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return fmt.Sprintf("hashed:%s", password), nil
}

// stubVerifier accepts passwords hashed by stubHasher.
type stubVerifier struct{}

func (v *stubVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword == fmt.Sprintf("hashed:%s", password) {
		return nil
	}
	return errors.New("password mismatch")
}
