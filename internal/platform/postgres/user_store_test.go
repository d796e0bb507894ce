package postgres_test

import (
	"context"
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

var userColumns = []string{
	"id", "email", "hashed_password", "display_name", "created_at", "updated_at",
}

func newStoredUser(t *testing.T) *domain.User {
	t.Helper()
	clock := domain.FixedClock{Instant: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	user, err := domain.NewUser("learner@example.com", "long-enough-password", "Learner", clock)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$fakehashfortestingonly"
	user.Password = ""
	return user
}

func TestUserStoreCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		user := newStoredUser(t)
		mock.ExpectExec("INSERT INTO users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		userStore := postgres.NewPostgresUserStore(db, testLogger())
		assert.NoError(t, userStore.Create(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		user := newStoredUser(t)
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		userStore := postgres.NewPostgresUserStore(db, testLogger())
		err = userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("MissingHash", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		user := newStoredUser(t)
		user.HashedPassword = ""

		userStore := postgres.NewPostgresUserStore(db, testLogger())
		err = userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGetByEmail(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		id := uuid.New()
		now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT id, email").
			WithArgs("learner@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				id, "learner@example.com", "$2a$10$fakehashfortestingonly", "Learner", now, now,
			))

		userStore := postgres.NewPostgresUserStore(db, testLogger())
		user, err := userStore.GetByEmail(context.Background(), "learner@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "learner@example.com", user.Email)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery("SELECT id, email").
			WithArgs("missing@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns))

		userStore := postgres.NewPostgresUserStore(db, testLogger())
		_, err = userStore.GetByEmail(context.Background(), "missing@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	userStore := postgres.NewPostgresUserStore(db, testLogger())
	err = userStore.Delete(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
