package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-api/internal/domain"
	"github.com/quizforge/quizforge-api/internal/store"
)

// ProgressServiceError is the error type for failures in progress operations
// that are not covered by a sentinel error.
type ProgressServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ProgressServiceError.
func (e *ProgressServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("progress service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("progress service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProgressServiceError) Unwrap() error {
	return e.Err
}

// newProgressServiceError creates a new ProgressServiceError.
func newProgressServiceError(operation, message string, err error) *ProgressServiceError {
	return &ProgressServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ProgressService provides read access to a user's learning progress and
// applies quiz completions to it.
type ProgressService interface {
	// GetProgress retrieves the current progress snapshot for a user.
	// Returns store.ErrProgressNotFound if no snapshot exists.
	GetProgress(ctx context.Context, userID uuid.UUID) (domain.UserProgress, error)

	// RecordQuizCompletion applies a quiz result to the user's progress and
	// persists the new snapshot, returning it. The read-modify-write runs in
	// a transaction with the row locked, so concurrent completions for the
	// same user are serialized and no update is lost.
	// Returns store.ErrProgressNotFound if no snapshot exists.
	// Returns domain validation errors if the quiz result is invalid.
	RecordQuizCompletion(
		ctx context.Context,
		userID uuid.UUID,
		result domain.QuizResult,
	) (domain.UserProgress, error)
}

// ProgressServiceImpl implements the ProgressService interface.
type ProgressServiceImpl struct {
	progressStore store.ProgressStore
	clock         domain.Clock
	db            *sql.DB
	logger        *slog.Logger
}

// NewProgressService creates a new ProgressService.
// All dependencies are required; a nil dependency is a programming error.
func NewProgressService(
	progressStore store.ProgressStore,
	clock domain.Clock,
	db *sql.DB,
	logger *slog.Logger,
) *ProgressServiceImpl {
	if progressStore == nil || clock == nil || db == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependencies
		panic("NewProgressService: all dependencies are required")
	}

	return &ProgressServiceImpl{
		progressStore: progressStore,
		clock:         clock,
		db:            db,
		logger:        logger.With("component", "progress_service"),
	}
}

// Ensure ProgressServiceImpl implements ProgressService interface
var _ ProgressService = (*ProgressServiceImpl)(nil)

// GetProgress retrieves the current progress snapshot for a user.
func (s *ProgressServiceImpl) GetProgress(
	ctx context.Context,
	userID uuid.UUID,
) (domain.UserProgress, error) {
	progress, err := s.progressStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			s.logger.Debug("progress not found",
				"user_id", userID)
			return domain.UserProgress{}, err
		}
		s.logger.Error("failed to retrieve progress",
			"error", err,
			"user_id", userID)
		return domain.UserProgress{}, newProgressServiceError(
			"get_progress", "failed to retrieve progress", err)
	}

	return progress, nil
}

// RecordQuizCompletion applies a quiz result to the user's progress.
func (s *ProgressServiceImpl) RecordQuizCompletion(
	ctx context.Context,
	userID uuid.UUID,
	result domain.QuizResult,
) (domain.UserProgress, error) {
	if err := result.Validate(); err != nil {
		s.logger.Debug("rejected invalid quiz result",
			"error", err,
			"user_id", userID)
		return domain.UserProgress{}, err
	}

	var updated domain.UserProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.progressStore.WithTx(tx)

		// Lock the row so concurrent completions for the same user apply
		// one after another instead of overwriting each other.
		current, err := txStore.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		next, err := current.AddQuizResult(result, s.clock)
		if err != nil {
			return err
		}

		if err := txStore.Update(ctx, userID, next); err != nil {
			return err
		}

		updated = next
		return nil
	})

	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			s.logger.Debug("progress not found for quiz completion",
				"user_id", userID)
			return domain.UserProgress{}, err
		}
		if errors.Is(err, domain.ErrCorrectExceedsTotal) ||
			errors.Is(err, domain.ErrNegativeQuestionCount) ||
			errors.Is(err, domain.ErrNegativeStudyTime) {
			return domain.UserProgress{}, err
		}
		s.logger.Error("failed to record quiz completion",
			"error", err,
			"user_id", userID)
		return domain.UserProgress{}, newProgressServiceError(
			"record_quiz_completion", "failed to apply quiz result", err)
	}

	s.logger.Info("quiz completion recorded",
		"user_id", userID,
		"level", updated.Level.Int(),
		"experience", updated.Experience.Int(),
		"current_streak", updated.CurrentStreak.Days())

	return updated, nil
}
