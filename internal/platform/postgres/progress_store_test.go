package postgres_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/platform/postgres"
	"github.com/quizforge/quizforge-api/internal/store"
)

var progressColumns = []string{
	"level", "experience", "total_questions", "correct_answers",
	"accuracy", "study_time_minutes", "current_streak", "last_study_date",
	"category_stats", "updated_at",
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestProgressStoreGet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		studiedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT level, experience").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(progressColumns).AddRow(
				2, 105, 10, 10, "100.00", 25, 1, studiedAt,
				[]byte(`{"version":1,"categories":{"CCNA":{"correct":10,"total":10,"accuracy":100}}}`),
				studiedAt,
			))

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		progress, err := progressStore.Get(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, 2, progress.Level.Int())
		assert.Equal(t, 105, progress.Experience.Int())
		assert.Equal(t, 100.0, progress.Accuracy.Float())
		assert.Equal(t, 1, progress.CurrentStreak.Days())
		require.NotNil(t, progress.LastStudyDate)
		assert.True(t, progress.LastStudyDate.Equal(studiedAt))

		record, ok := progress.CategoryStats.Category("CCNA")
		require.True(t, ok)
		assert.Equal(t, 10, record.Correct)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		mock.ExpectQuery("SELECT level, experience").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(progressColumns))

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		_, err = progressStore.Get(context.Background(), userID)
		assert.ErrorIs(t, err, store.ErrProgressNotFound)
	})

	t.Run("NullLastStudyDate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		mock.ExpectQuery("SELECT level, experience").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(progressColumns).AddRow(
				1, 0, 0, 0, "0.00", 0, 0, nil,
				[]byte(`{"version":1,"categories":{}}`),
				time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			))

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		progress, err := progressStore.Get(context.Background(), userID)
		require.NoError(t, err)
		assert.Nil(t, progress.LastStudyDate)
	})

	t.Run("CorruptRow", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		// Level 0 violates the domain lower bound.
		mock.ExpectQuery("SELECT level, experience").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(progressColumns).AddRow(
				0, 0, 0, 0, "0.00", 0, 0, nil,
				[]byte(`{"version":1,"categories":{}}`),
				time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			))

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		_, err = progressStore.Get(context.Background(), userID)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestProgressStoreGetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	userID := uuid.New()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(progressColumns).AddRow(
			1, 60, 10, 5, "50.00", 15, 1,
			time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			[]byte(`{"version":1,"categories":{}}`),
			time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		))

	progressStore := postgres.NewPostgresProgressStore(db, testLogger())
	progress, err := progressStore.GetForUpdate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 60, progress.Experience.Int())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressStoreCreate(t *testing.T) {
	t.Run("Duplicate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		mock.ExpectExec("INSERT INTO user_progress").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		clock := domain.FixedClock{Instant: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		err = progressStore.Create(context.Background(), userID, domain.NewUserProgress(clock))
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("UserMissing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		mock.ExpectExec("INSERT INTO user_progress").
			WillReturnError(&pgconn.PgError{Code: "23503"})

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		clock := domain.FixedClock{Instant: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		err = progressStore.Create(context.Background(), userID, domain.NewUserProgress(clock))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestProgressStoreUpdate(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		mock.ExpectExec("UPDATE user_progress").
			WillReturnResult(sqlmock.NewResult(0, 0))

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		clock := domain.FixedClock{Instant: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		err = progressStore.Update(context.Background(), userID, domain.NewUserProgress(clock))
		assert.ErrorIs(t, err, store.ErrProgressNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		userID := uuid.New()
		mock.ExpectExec("UPDATE user_progress").
			WillReturnResult(sqlmock.NewResult(0, 1))

		progressStore := postgres.NewPostgresProgressStore(db, testLogger())
		clock := domain.FixedClock{Instant: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
		progress, err := domain.NewUserProgress(clock).AddQuizResult(domain.QuizResult{
			CorrectAnswers:   5,
			TotalQuestions:   10,
			Category:         "CCNA",
			StudyTimeMinutes: 15,
		}, clock)
		require.NoError(t, err)

		err = progressStore.Update(context.Background(), userID, progress)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
