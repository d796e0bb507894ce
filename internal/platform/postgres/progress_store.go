package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/platform/logger"
	"github.com/quizforge/quizforge-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend. The accuracy column is
// NUMERIC(5,2) and travels as a string; category stats are stored as JSONB.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Create implements store.ProgressStore.Create
// It saves the initial progress snapshot for a user.
func (s *PostgresProgressStore) Create(
	ctx context.Context,
	userID uuid.UUID,
	progress domain.UserProgress,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := progress.ToPersistence()
	if err != nil {
		log.Warn("failed to map progress for create",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO user_progress (
			user_id, level, experience, total_questions, correct_answers,
			accuracy, study_time_minutes, current_streak, last_study_date,
			category_stats, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		userID,
		row.Level,
		row.Experience,
		row.TotalQuestions,
		row.CorrectAnswers,
		row.Accuracy,
		row.StudyTimeMinutes,
		row.CurrentStreak,
		row.LastStudyDate,
		[]byte(row.CategoryStats),
		row.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("progress snapshot already exists",
				slog.String("user_id", userID.String()))
			return fmt.Errorf("%w: user progress", store.ErrDuplicate)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during progress creation",
				slog.String("user_id", userID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, userID)
		}

		log.Error("failed to create progress snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.Info("progress snapshot created",
		slog.String("user_id", userID.String()))
	return nil
}

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if no snapshot exists.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (domain.UserProgress, error) {
	return s.get(ctx, userID, false)
}

// GetForUpdate implements store.ProgressStore.GetForUpdate
// It locks the row with SELECT FOR UPDATE; callers must be inside a
// transaction for the lock to have any effect.
func (s *PostgresProgressStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (domain.UserProgress, error) {
	return s.get(ctx, userID, true)
}

func (s *PostgresProgressStore) get(
	ctx context.Context,
	userID uuid.UUID,
	forUpdate bool,
) (domain.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving progress snapshot",
		slog.String("user_id", userID.String()),
		slog.Bool("for_update", forUpdate))

	query := `
		SELECT level, experience, total_questions, correct_answers,
		       accuracy, study_time_minutes, current_streak, last_study_date,
		       category_stats, updated_at
		FROM user_progress
		WHERE user_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var row domain.UserProgressRow
	var lastStudyDate sql.NullTime
	var categoryStats []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&row.Level,
		&row.Experience,
		&row.TotalQuestions,
		&row.CorrectAnswers,
		&row.Accuracy,
		&row.StudyTimeMinutes,
		&row.CurrentStreak,
		&lastStudyDate,
		&categoryStats,
		&row.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress snapshot not found",
				slog.String("user_id", userID.String()))
			return domain.UserProgress{}, store.ErrProgressNotFound
		}
		log.Error("failed to get progress snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return domain.UserProgress{}, MapError(err)
	}

	if lastStudyDate.Valid {
		row.LastStudyDate = &lastStudyDate.Time
	}
	row.CategoryStats = categoryStats

	progress, err := domain.UserProgressFromPersistence(row)
	if err != nil {
		// The row violates domain invariants; surface it as corruption
		// rather than returning a partial snapshot.
		log.Error("stored progress snapshot is invalid",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return domain.UserProgress{}, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	return progress, nil
}

// Update implements store.ProgressStore.Update
// Returns store.ErrProgressNotFound if no snapshot exists.
func (s *PostgresProgressStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	progress domain.UserProgress,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row, err := progress.ToPersistence()
	if err != nil {
		log.Warn("failed to map progress for update",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE user_progress
		SET level = $1, experience = $2, total_questions = $3,
		    correct_answers = $4, accuracy = $5, study_time_minutes = $6,
		    current_streak = $7, last_study_date = $8, category_stats = $9,
		    updated_at = $10
		WHERE user_id = $11
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		row.Level,
		row.Experience,
		row.TotalQuestions,
		row.CorrectAnswers,
		row.Accuracy,
		row.StudyTimeMinutes,
		row.CurrentStreak,
		row.LastStudyDate,
		[]byte(row.CategoryStats),
		row.UpdatedAt,
		userID,
	)

	if err != nil {
		log.Error("failed to update progress snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user progress"); err != nil {
		log.Debug("progress snapshot not found for update",
			slog.String("user_id", userID.String()))
		return store.ErrProgressNotFound
	}

	log.Info("progress snapshot updated",
		slog.String("user_id", userID.String()),
		slog.Int("level", row.Level),
		slog.Int("experience", row.Experience),
		slog.Int("current_streak", row.CurrentStreak))
	return nil
}

// WithTx implements store.ProgressStore.WithTx
// It returns a new store bound to the given transaction, sharing the
// component logger.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
