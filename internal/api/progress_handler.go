package api

import (
	"log/slog"
	"net/http"

	"github.com/quizforge/quizforge-api/internal/api/middleware"
	"github.com/quizforge/quizforge-api/internal/api/shared"
	"github.com/quizforge/quizforge-api/internal/service"
)

// ProgressHandler serves a user's learning progress and records quiz
// completions against it. All routes require authentication; the user ID
// comes from the token, never from the request body.
type ProgressHandler struct {
	progressService service.ProgressService
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	progressService service.ProgressService,
	logger *slog.Logger,
) *ProgressHandler {
	if progressService == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependencies
		panic("NewProgressHandler: all dependencies are required")
	}
	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /api/progress.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	progress, err := h.progressService.GetProgress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProgressResponse(progress))
}

// RecordQuizResult handles POST /api/quiz/results.
func (h *ProgressHandler) RecordQuizResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req QuizResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	progress, err := h.progressService.RecordQuizCompletion(r.Context(), userID, req.ToDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record quiz result")
		return
	}

	h.logger.Info("quiz result recorded",
		slog.String("user_id", userID.String()),
		slog.String("category", req.Category),
		slog.Int("level", progress.Level.Int()),
		slog.Int("current_streak", progress.CurrentStreak.Days()))

	shared.RespondWithJSON(w, r, http.StatusOK, NewProgressResponse(progress))
}
