package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/service"
	"github.com/quizforge/quizforge-api/internal/store"
)

func TestProgressService_GetProgress(t *testing.T) {
	logger := testLogger()
	clock := testClock()
	userID := uuid.New()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("found", func(t *testing.T) {
		existing := domain.NewUserProgress(clock)

		mockProgress := new(MockProgressStore)
		mockProgress.On("Get", mock.Anything, userID).Return(existing, nil)

		svc := service.NewProgressService(mockProgress, clock, db, logger)

		progress, err := svc.GetProgress(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, existing, progress)
		mockProgress.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockProgress := new(MockProgressStore)
		mockProgress.On("Get", mock.Anything, userID).
			Return(domain.UserProgress{}, store.ErrProgressNotFound)

		svc := service.NewProgressService(mockProgress, clock, db, logger)

		_, err := svc.GetProgress(context.Background(), userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)
	})
}

func TestProgressService_RecordQuizCompletion(t *testing.T) {
	logger := testLogger()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	clock := domain.FixedClock{Instant: now}
	userID := uuid.New()

	result := domain.QuizResult{
		CorrectAnswers:   10,
		TotalQuestions:   10,
		Category:         "CCNA",
		StudyTimeMinutes: 12,
	}

	t.Run("successful completion", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		fresh := domain.NewUserProgress(clock)

		mockProgress := new(MockProgressStore)
		mockProgress.On("GetForUpdate", mock.Anything, userID).Return(fresh, nil)
		mockProgress.On("Update", mock.Anything, userID,
			mock.MatchedBy(func(p domain.UserProgress) bool {
				return p.Experience.Int() == 105 &&
					p.Level.Int() == 2 &&
					p.CurrentStreak.Days() == 1 &&
					p.LastStudyDate != nil
			})).Return(nil)

		svc := service.NewProgressService(mockProgress, clock, db, logger)

		updated, err := svc.RecordQuizCompletion(context.Background(), userID, result)

		require.NoError(t, err)
		assert.Equal(t, 105, updated.Experience.Int())
		assert.Equal(t, 2, updated.Level.Int())
		assert.Equal(t, 1, updated.CurrentStreak.Days())
		mockProgress.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("progress not found rolls back", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		mockProgress := new(MockProgressStore)
		mockProgress.On("GetForUpdate", mock.Anything, userID).
			Return(domain.UserProgress{}, store.ErrProgressNotFound)

		svc := service.NewProgressService(mockProgress, clock, db, logger)

		_, err = svc.RecordQuizCompletion(context.Background(), userID, result)

		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)
		mockProgress.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("invalid result skips the database", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mockProgress := new(MockProgressStore)

		svc := service.NewProgressService(mockProgress, clock, db, logger)

		_, err = svc.RecordQuizCompletion(context.Background(), userID, domain.QuizResult{
			CorrectAnswers: 11,
			TotalQuestions: 10,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCorrectExceedsTotal)
		mockProgress.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update failure surfaces as service error", func(t *testing.T) {
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		fresh := domain.NewUserProgress(clock)

		mockProgress := new(MockProgressStore)
		mockProgress.On("GetForUpdate", mock.Anything, userID).Return(fresh, nil)
		mockProgress.On("Update", mock.Anything, userID, mock.Anything).
			Return(assert.AnError)

		svc := service.NewProgressService(mockProgress, clock, db, logger)

		_, err = svc.RecordQuizCompletion(context.Background(), userID, result)

		require.Error(t, err)
		var svcErr *service.ProgressServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}
