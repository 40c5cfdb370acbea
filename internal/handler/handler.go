// Package handler serves the contributions API over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/github-contributions/internal/domain"
	"github.com/naka-gawa/github-contributions/internal/gateway"
	"github.com/naka-gawa/github-contributions/internal/usecase"
)

// ContributionsAggregator produces the contributions payload for a year.
type ContributionsAggregator interface {
	Aggregate(ctx context.Context, year *int) (*domain.ContributionsPayload, error)
}

// ProfileReader produces the account-level statistics.
type ProfileReader interface {
	Profile(ctx context.Context) (*domain.ProfileStats, error)
	Languages(ctx context.Context) ([]domain.LanguageShare, error)
	TopRepositories(ctx context.Context, limit int) ([]domain.OwnedRepository, error)
}

// Handler is the HTTP adapter in front of the use cases.
type Handler struct {
	aggregator ContributionsAggregator
	profile    ProfileReader
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(aggregator ContributionsAggregator, profile ProfileReader, logger *slog.Logger) *Handler {
	return &Handler{aggregator: aggregator, profile: profile, logger: logger}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with tracing, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/github-contributions", h.Contributions)
	mux.HandleFunc("GET /api/github-stats", h.Stats)
	mux.HandleFunc("GET /api/languages", h.Languages)
	mux.HandleFunc("GET /api/repositories", h.Repositories)
	mux.HandleFunc("GET /healthz", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = tracingMiddleware(wrapped)

	return wrapped
}

// Contributions returns the calendar, streaks and repository activity for the
// optional ?year= selector.
func (h *Handler) Contributions(w http.ResponseWriter, r *http.Request) {
	var year *int
	if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = &y
	}

	payload, err := h.aggregator.Aggregate(r.Context(), year)
	if err != nil {
		h.writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) writeAggregateError(w http.ResponseWriter, err error) {
	var aggErr *usecase.AggregateError
	if !errors.As(err, &aggErr) {
		writeError(w, http.StatusInternalServerError, "Failed to fetch contributions")
		return
	}
	if aggErr.Kind == gateway.KindTransport {
		writeJSON(w, http.StatusInternalServerError, transportErrorResponse{
			Error: "Failed to fetch GitHub data",
			Details: transportDetails{
				ContribError: bodyOf(aggErr.Contributions),
				CommitsError: bodyOf(aggErr.Commits),
			},
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, protocolErrorResponse{
		Error:   "GitHub API error",
		Details: aggErr.ProtocolErrors(),
	})
}

// Stats returns star, repository and follower totals.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.profile.Profile(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch GitHub stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch GitHub stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Languages returns the most used primary languages.
func (h *Handler) Languages(w http.ResponseWriter, r *http.Request) {
	shares, err := h.profile.Languages(r.Context())
	if err != nil {
		h.logger.Error("failed to fetch language stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch language stats")
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

// Repositories returns the most starred owned repositories, capped by ?limit=.
func (h *Handler) Repositories(w http.ResponseWriter, r *http.Request) {
	limit := usecase.DefaultRepositoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	repos, err := h.profile.TopRepositories(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch repositories", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch repositories")
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
