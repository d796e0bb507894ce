package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-api/internal/domain"
)

// ProgressStore defines the interface for user progress persistence.
// Each user owns exactly one progress row, keyed by user ID.
type ProgressStore interface {
	// Create saves the initial progress snapshot for a user, typically the
	// all-zero progress assigned at registration.
	// Returns an error if a snapshot already exists for the user.
	Create(ctx context.Context, userID uuid.UUID, progress domain.UserProgress) error

	// Get retrieves the progress snapshot for a user.
	// Returns ErrProgressNotFound if no snapshot exists.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, userID uuid.UUID) (domain.UserProgress, error)

	// GetForUpdate retrieves the progress snapshot with a row-level lock using
	// SELECT FOR UPDATE. This should be used within a transaction when you
	// plan to apply a quiz completion and write the result back, so that
	// concurrent completions against the same row are serialized.
	// Returns ErrProgressNotFound if no snapshot exists.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (domain.UserProgress, error)

	// Update replaces the stored snapshot for a user with the given one.
	// Returns ErrProgressNotFound if no snapshot exists.
	Update(ctx context.Context, userID uuid.UUID, progress domain.UserProgress) error

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ProgressStore
}
